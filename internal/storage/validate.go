package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"geoaudit/pkg/logger"
)

type ValidationResult struct {
	Valid  bool            `json:"valid"`
	Errors []string        `json:"errors"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// ValidateFile checks the JSON at dataPath against schemaName
// (<schemaDir>/<schemaName>.schema.json). A missing or uncompilable
// schema degrades to an always-valid pass-through with a warning: an
// audit must never hard-fail just because validation is unavailable.
func ValidateFile(dataPath, schemaDir, schemaName string, log *logger.Logger) (*ValidationResult, error) {
	data, err := os.ReadFile(dataPath)
	if err != nil {
		return nil, err
	}
	res := &ValidationResult{Valid: true, Errors: []string{}, Data: data}

	schemaPath := filepath.Join(schemaDir, schemaName+".schema.json")
	schemaBytes, err := os.ReadFile(schemaPath)
	if err != nil {
		log.Warnf("schema %s not found, validation skipped", schemaName)
		return res, nil
	}
	sch, err := jsonschema.CompileString(schemaName+".schema.json", string(schemaBytes))
	if err != nil {
		log.Warnf("schema %s does not compile, validation skipped: %v", schemaName, err)
		return res, nil
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		res.Valid = false
		res.Errors = append(res.Errors, err.Error())
		return res, nil
	}
	if err := sch.Validate(v); err != nil {
		res.Valid = false
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			for _, c := range ve.Causes {
				res.Errors = append(res.Errors, c.Error())
			}
		}
		if len(res.Errors) == 0 {
			res.Errors = append(res.Errors, err.Error())
		}
	}
	return res, nil
}
