package analyzer

import (
	"testing"

	"geoaudit/internal/models"
)

func TestAnalyzeCompetitorsUnconfigured(t *testing.T) {
	snap := &models.Snapshot{
		Pages: []models.PageRecord{
			{URL: "https://acme.test/", StatusCode: 200, WordCount: 300, MetaDescription: "d",
				H1:             []string{"H"},
				StructuredData: []models.StructuredData{{Schema: "json-ld", Type: "Organization"}}},
		},
		KeyPages: []models.KeyPage{{URL: "https://acme.test/", Type: "homepage"}},
	}
	res := AnalyzeCompetitors(snap, nil)

	if res.Status != StatusPendingConfig {
		t.Fatalf("want %s, got %s", StatusPendingConfig, res.Status)
	}
	if len(res.Issues) != 1 || res.Issues[0].Type != "no_competitors_configured" {
		t.Fatalf("unexpected issues %#v", res.Issues)
	}
	fw := res.Framework
	if fw == nil {
		t.Fatal("framework summary missing")
	}
	if fw.TotalWordCount != 300 || fw.PagesWithMeta != 1 || fw.PagesWithH1 != 1 {
		t.Fatalf("framework counts wrong: %#v", fw)
	}
	if len(fw.StructuredDataTypes) != 1 || fw.StructuredDataTypes[0] != "Organization" {
		t.Fatalf("framework sd types wrong: %#v", fw.StructuredDataTypes)
	}
	if len(fw.KeyPageTypes) != 1 || fw.KeyPageTypes[0] != "homepage" {
		t.Fatalf("framework key page types wrong: %#v", fw.KeyPageTypes)
	}
}

func TestAnalyzeCompetitorsPlaceholders(t *testing.T) {
	competitors := []models.Competitor{
		{Domain: "rival-one.test"},
		{Domain: "rival-two.test"},
		{Domain: "rival-three.test"},
	}
	res := AnalyzeCompetitors(&models.Snapshot{}, competitors)

	if res.Status != StatusPartial {
		t.Fatalf("want %s, got %s", StatusPartial, res.Status)
	}
	if len(res.Issues) != 3 {
		t.Fatalf("want one placeholder per competitor, got %d", len(res.Issues))
	}
	for _, is := range res.Issues {
		if is.Type != "competitor_crawl_required" {
			t.Fatalf("unexpected issue %#v", is)
		}
	}
	// 50 per competitor, capped at 100
	if res.Score != 100 {
		t.Fatalf("want score 100, got %v", res.Score)
	}
}
