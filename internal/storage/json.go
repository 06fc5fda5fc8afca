// Package storage owns the persisted JSON layout: snapshots, customer
// records, baselines, and monitoring state all go through here.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"geoaudit/internal/models"
)

// WriteJSON persists v as 2-space-indented JSON. The write goes to a
// temp file first and is renamed into place, so readers never see a
// partial file.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReadJSON loads path into v. A missing file comes back as the original
// fs.ErrNotExist so callers can treat absence as an expected state; a
// malformed file is an error that must be surfaced, never defaulted.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func LoadSnapshot(path string) (*models.Snapshot, error) {
	var snap models.Snapshot
	if err := ReadJSON(path, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func LoadCustomer(path string) (*models.Customer, error) {
	var cust models.Customer
	if err := ReadJSON(path, &cust); err != nil {
		return nil, err
	}
	if err := cust.Normalize(); err != nil {
		return nil, fmt.Errorf("customer %s: %w", path, err)
	}
	return &cust, nil
}
