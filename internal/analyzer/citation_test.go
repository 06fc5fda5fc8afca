package analyzer

import (
	"testing"

	"geoaudit/internal/models"
)

func ld(typ string, raw map[string]any) models.StructuredData {
	if raw == nil {
		raw = map[string]any{}
	}
	raw["@type"] = typ
	return models.StructuredData{Schema: "json-ld", Type: typ, Raw: raw}
}

func TestAnalyzeCitationSignals(t *testing.T) {
	snap := &models.Snapshot{Pages: []models.PageRecord{
		{
			URL: "https://acme.test/", StatusCode: 200, WordCount: 400,
			H1:             []string{"Widgets"},
			StructuredData: []models.StructuredData{ld("Organization", nil), ld("FAQPage", nil)},
		},
		{
			URL: "https://acme.test/guide", StatusCode: 200, WordCount: 800,
			H2:             []string{"Steps"},
			StructuredData: []models.StructuredData{ld("HowTo", nil), ld("Person", nil)},
		},
	}}
	res := AnalyzeCitation(snap)

	sig := res.Signals
	if !sig.SchemaOrg || !sig.Organization || !sig.FAQ || !sig.HowTo || !sig.Author {
		t.Fatalf("signals wrong: %#v", sig)
	}
	for _, typ := range []string{"missing_schema_markup", "missing_organization_schema", "missing_faq_schema", "missing_howto_schema", "missing_author_info"} {
		if hasIssue(res.Issues, typ) {
			t.Fatalf("%s should not fire: %#v", typ, res.Issues)
		}
	}
	// 2 pages with structured data -> 20
	if res.Breakdown.StructuredData != 20 {
		t.Fatalf("structured-data sub-score want 20, got %v", res.Breakdown.StructuredData)
	}
	// 2 pages over 100 words (14) + 2 pages with headings (10)
	if res.Breakdown.ContentQuality != 24 {
		t.Fatalf("content-quality sub-score want 24, got %v", res.Breakdown.ContentQuality)
	}
	if res.Score != res.Breakdown.StructuredData+res.Breakdown.EEAT+res.Breakdown.ContentQuality {
		t.Fatalf("score must equal the sub-score sum")
	}
}

func TestAnalyzeCitationMissingSignals(t *testing.T) {
	snap := &models.Snapshot{Pages: []models.PageRecord{{
		URL: "https://acme.test/", StatusCode: 200, WordCount: 20, Title: "Acme",
	}}}
	res := AnalyzeCitation(snap)

	for _, typ := range []string{"missing_schema_markup", "missing_author_info", "missing_organization_schema", "missing_faq_schema", "missing_howto_schema", "thin_content"} {
		if !hasIssue(res.Issues, typ) {
			t.Fatalf("expected %s in %#v", typ, res.Issues)
		}
	}
	if res.Breakdown.StructuredData != 0 {
		t.Fatalf("no structured data, sub-score must be 0")
	}
}

func TestAnalyzeCitationEEATKeywordsAndCaps(t *testing.T) {
	// six keyword matches (30) plus Organization (5) must cap at 30
	snap := &models.Snapshot{Pages: []models.PageRecord{{
		URL: "https://acme.test/", StatusCode: 200, WordCount: 500,
		Title:           "About the Acme team: author guidelines",
		MetaDescription: "Contact us. Privacy policy and terms of service.",
		H1:              []string{"About"},
		StructuredData:  []models.StructuredData{ld("Organization", nil)},
	}}}
	res := AnalyzeCitation(snap)
	if res.Breakdown.EEAT != 30 {
		t.Fatalf("EEAT must cap at 30, got %v", res.Breakdown.EEAT)
	}
}

func TestAnalyzeCitationSubScoreCaps(t *testing.T) {
	var pages []models.PageRecord
	for i := 0; i < 8; i++ {
		pages = append(pages, models.PageRecord{
			URL: "https://acme.test/p", StatusCode: 200, WordCount: 300,
			H1:             []string{"H"},
			StructuredData: []models.StructuredData{ld("Article", nil)},
		})
	}
	res := AnalyzeCitation(&models.Snapshot{Pages: pages})
	if res.Breakdown.StructuredData != 40 {
		t.Fatalf("structured-data sub-score must cap at 40, got %v", res.Breakdown.StructuredData)
	}
	if res.Breakdown.ContentQuality != 30 {
		t.Fatalf("content-quality sub-score must cap at 30, got %v", res.Breakdown.ContentQuality)
	}
}
