package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"geoaudit/internal/models"
	"geoaudit/pkg/logger"
)

func TestWriteAndReadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "site_snapshot.json")

	snap := &models.Snapshot{WebsiteURL: "https://acme.test", PagesCrawled: 1,
		Pages: []models.PageRecord{{URL: "https://acme.test/", StatusCode: 200}}}
	if err := WriteJSON(path, snap); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n  \"website_url\"") {
		t.Fatal("output must be 2-space indented")
	}

	got, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.WebsiteURL != snap.WebsiteURL || len(got.Pages) != 1 {
		t.Fatalf("roundtrip mismatch: %#v", got)
	}
}

func TestReadJSONMalformedIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Fatal("malformed input must surface an error")
	}
}

func TestLoadCustomerNormalizesCompetitors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "customer.json")
	raw := `{
  "website_url": "https://acme.test",
  "brand_name": "Acme",
  "target_queries": ["industrial widgets"],
  "competitors": [
    "rival-one.test",
    {"domain": "rival-two.test", "brand_name": "Rival Two"}
  ]
}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cust, err := LoadCustomer(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cust.Domain != "acme.test" {
		t.Fatalf("domain not derived from website_url: %q", cust.Domain)
	}
	if len(cust.Competitors) != 2 {
		t.Fatalf("want 2 competitors, got %#v", cust.Competitors)
	}
	if cust.Competitors[0].Domain != "rival-one.test" || cust.Competitors[0].BrandName != "" {
		t.Fatalf("string form not normalized: %#v", cust.Competitors[0])
	}
	if cust.Competitors[1].BrandName != "Rival Two" {
		t.Fatalf("object form not normalized: %#v", cust.Competitors[1])
	}
}

func TestValidateFilePassThroughWithoutSchema(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data.json")
	if err := os.WriteFile(dataPath, []byte(`{"anything": true}`), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := ValidateFile(dataPath, dir, "site_snapshot", logger.New())
	if err != nil {
		t.Fatalf("missing schema must not fail validation: %v", err)
	}
	if !res.Valid || len(res.Errors) != 0 {
		t.Fatalf("degraded mode must be always-valid: %#v", res)
	}
}

func TestValidateFileAgainstSchema(t *testing.T) {
	dir := t.TempDir()
	schema := `{"type": "object", "required": ["website_url"], "properties": {"website_url": {"type": "string"}}}`
	if err := os.WriteFile(filepath.Join(dir, "site_snapshot.schema.json"), []byte(schema), 0o644); err != nil {
		t.Fatal(err)
	}

	good := filepath.Join(dir, "good.json")
	_ = os.WriteFile(good, []byte(`{"website_url": "https://acme.test"}`), 0o644)
	res, err := ValidateFile(good, dir, "site_snapshot", logger.New())
	if err != nil || !res.Valid {
		t.Fatalf("valid document rejected: %v %#v", err, res)
	}

	bad := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(bad, []byte(`{"pages": []}`), 0o644)
	res, err = ValidateFile(bad, dir, "site_snapshot", logger.New())
	if err != nil {
		t.Fatalf("validation failure is a result, not an error: %v", err)
	}
	if res.Valid || len(res.Errors) == 0 {
		t.Fatalf("missing required field must fail validation: %#v", res)
	}
}
