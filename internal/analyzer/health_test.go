package analyzer

import (
	"testing"

	"geoaudit/internal/models"
)

func hasIssue(issues []models.Issue, typ string) bool {
	for _, is := range issues {
		if is.Type == typ {
			return true
		}
	}
	return false
}

func TestAnalyzeHealthAlwaysFlagsMissingRobotsAndSitemap(t *testing.T) {
	snap := &models.Snapshot{
		Pages: []models.PageRecord{{
			URL: "https://acme.test/", StatusCode: 200, Title: "Acme",
			MetaDescription: "d", WordCount: 500,
		}},
		RobotsTxt: models.RobotsTxt{Exists: false},
		Sitemaps:  []string{},
	}
	res := AnalyzeHealth(snap)
	if !hasIssue(res.Issues, "missing_robots_txt") {
		t.Fatal("missing_robots_txt must be flagged")
	}
	if !hasIssue(res.Issues, "missing_sitemap") {
		t.Fatal("missing_sitemap must be flagged")
	}
	// 100 - 10 (robots) - 15 (sitemap)
	if res.Score != 75 {
		t.Fatalf("want 75, got %v", res.Score)
	}
}

func TestAnalyzeHealthStatusCodes(t *testing.T) {
	snap := &models.Snapshot{
		Pages: []models.PageRecord{
			{URL: "https://acme.test/gone", StatusCode: 404},
			{URL: "https://acme.test/moved", StatusCode: 301},
		},
		RobotsTxt: models.RobotsTxt{Exists: true},
		Sitemaps:  []string{"https://acme.test/sitemap.xml"},
	}
	res := AnalyzeHealth(snap)
	if !hasIssue(res.Issues, "broken_page") || !hasIssue(res.Issues, "redirect") {
		t.Fatalf("missing status issues: %#v", res.Issues)
	}
	for _, is := range res.Issues {
		if is.Type == "broken_page" && is.Severity != models.SeverityCritical {
			t.Fatalf("broken_page must be critical, got %s", is.Severity)
		}
	}
	// 100 - 20 - 10
	if res.Score != 70 {
		t.Fatalf("want 70, got %v", res.Score)
	}
}

func TestAnalyzeHealthDuplicateTitles(t *testing.T) {
	snap := &models.Snapshot{
		Pages: []models.PageRecord{
			{URL: "https://acme.test/a", StatusCode: 200, Title: "Same", MetaDescription: "d", WordCount: 200, InternalLinks: 1},
			{URL: "https://acme.test/b", StatusCode: 200, Title: "Same", MetaDescription: "d", WordCount: 200, InternalLinks: 1},
			{URL: "https://acme.test/c", StatusCode: 200, Title: "Same", MetaDescription: "d", WordCount: 200, InternalLinks: 1},
		},
		RobotsTxt: models.RobotsTxt{Exists: true},
		Sitemaps:  []string{"https://acme.test/sitemap.xml"},
	}
	res := AnalyzeHealth(snap)
	dups := 0
	for _, is := range res.Issues {
		if is.Type == "duplicate_title" {
			dups++
			if is.Page == "https://acme.test/a" {
				t.Fatal("first occurrence is canonical, must not be flagged")
			}
		}
	}
	if dups != 2 {
		t.Fatalf("want 2 duplicate_title issues, got %d", dups)
	}
}

func TestAnalyzeHealthKeyPages(t *testing.T) {
	snap := &models.Snapshot{
		Pages: []models.PageRecord{
			// root qualifies as key even with no internal links
			{URL: "https://acme.test/", StatusCode: 200, WordCount: 300},
			// linked page qualifies through its internal links
			{URL: "https://acme.test/hub", StatusCode: 200, InternalLinks: 4, WordCount: 300},
			// neither root nor linked: not a key page
			{URL: "https://acme.test/leaf", StatusCode: 200, WordCount: 300},
		},
		RobotsTxt: models.RobotsTxt{Exists: true},
		Sitemaps:  []string{"https://acme.test/sitemap.xml"},
	}
	res := AnalyzeHealth(snap)
	titleIssues, descIssues := 0, 0
	for _, is := range res.Issues {
		switch is.Type {
		case "key_page_missing_title":
			titleIssues++
		case "key_page_missing_description":
			descIssues++
		}
	}
	if titleIssues != 2 || descIssues != 2 {
		t.Fatalf("want 2 title and 2 description key-page issues, got %d/%d", titleIssues, descIssues)
	}
}

func TestAnalyzeHealthNonHTMLSingleIssue(t *testing.T) {
	snap := &models.Snapshot{
		Pages: []models.PageRecord{
			{URL: "https://acme.test/a.css", StatusCode: 200},
			{URL: "https://acme.test/b.js", StatusCode: 200},
			{URL: "https://acme.test/c.png", StatusCode: 200},
		},
		RobotsTxt: models.RobotsTxt{Exists: true},
		Sitemaps:  []string{"https://acme.test/sitemap.xml"},
	}
	res := AnalyzeHealth(snap)
	n := 0
	for _, is := range res.Issues {
		if is.Type == "non_html_resources" {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("want a single non_html_resources issue, got %d", n)
	}
}
