package analyzer

import (
	"fmt"
	"net/url"

	"geoaudit/internal/keypages"
	"geoaudit/internal/models"
)

// AnalyzeHealth audits how cleanly the site crawls and indexes: broken
// and redirecting pages, duplicate titles, bare key pages, missing
// robots.txt and sitemap, thin pages, and non-HTML resources in the
// crawl. Each finding carries its own deduction; the score floors at 0.
func AnalyzeHealth(snap *models.Snapshot) HealthResult {
	res := HealthResult{Issues: []models.Issue{}}
	score := 100.0

	for _, p := range snap.Pages {
		switch {
		case p.StatusCode >= 400:
			res.Issues = append(res.Issues, models.Issue{
				Type:           "broken_page",
				Severity:       models.SeverityCritical,
				Page:           p.URL,
				Message:        fmt.Sprintf("Page returned HTTP %d", p.StatusCode),
				Recommendation: "Fix or remove the broken page and any links to it",
			})
			score -= 20
		case p.StatusCode >= 300 && p.StatusCode < 400:
			res.Issues = append(res.Issues, models.Issue{
				Type:           "redirect",
				Severity:       models.SeverityMedium,
				Page:           p.URL,
				Message:        fmt.Sprintf("Page returned HTTP %d redirect", p.StatusCode),
				Recommendation: "Link directly to the redirect target",
			})
			score -= 10
		}
	}

	// first occurrence of a title wins as canonical
	firstByTitle := map[string]string{}
	for _, p := range snap.Pages {
		if p.StatusCode != 200 || p.Title == "" {
			continue
		}
		canonical, ok := firstByTitle[p.Title]
		if !ok {
			firstByTitle[p.Title] = p.URL
			continue
		}
		res.Issues = append(res.Issues, models.Issue{
			Type:           "duplicate_title",
			Severity:       models.SeverityMedium,
			Page:           p.URL,
			Message:        fmt.Sprintf("Title duplicates %s", canonical),
			Recommendation: "Give every page a unique title",
		})
		score -= 5
	}

	for _, p := range snap.Pages {
		if p.StatusCode != 200 || !isKeyPage(p) {
			continue
		}
		if p.Title == "" {
			res.Issues = append(res.Issues, models.Issue{
				Type:           "key_page_missing_title",
				Severity:       models.SeverityHigh,
				Page:           p.URL,
				Message:        "Key page has no title",
				Recommendation: "Add a title to this key page",
			})
			score -= 10
		}
		if p.MetaDescription == "" {
			res.Issues = append(res.Issues, models.Issue{
				Type:           "key_page_missing_description",
				Severity:       models.SeverityHigh,
				Page:           p.URL,
				Message:        "Key page has no meta description",
				Recommendation: "Add a meta description to this key page",
			})
			score -= 10
		}
	}

	if !snap.RobotsTxt.Exists {
		res.Issues = append(res.Issues, models.Issue{
			Type:           "missing_robots_txt",
			Severity:       models.SeverityMedium,
			Message:        "No robots.txt found",
			Recommendation: "Serve a robots.txt so crawlers know what to index",
		})
		score -= 10
	}
	if len(snap.Sitemaps) == 0 {
		res.Issues = append(res.Issues, models.Issue{
			Type:           "missing_sitemap",
			Severity:       models.SeverityHigh,
			Message:        "No sitemap found",
			Recommendation: "Publish an XML sitemap and reference it from robots.txt",
		})
		score -= 15
	}

	for _, p := range snap.Pages {
		if p.StatusCode == 200 && !keypages.IsAsset(p.URL) && p.WordCount < 100 {
			res.Issues = append(res.Issues, models.Issue{
				Type:           "thin_content",
				Severity:       models.SeverityLow,
				Page:           p.URL,
				Message:        fmt.Sprintf("Page has only %d words", p.WordCount),
				Recommendation: "Thin pages are unlikely to be indexed as useful content",
			})
			score -= 3
		}
	}

	// one issue regardless of how many were crawled
	nonHTML := 0
	for _, p := range snap.Pages {
		if keypages.IsAsset(p.URL) {
			nonHTML++
		}
	}
	if nonHTML > 0 {
		res.Issues = append(res.Issues, models.Issue{
			Type:           "non_html_resources",
			Severity:       models.SeverityLow,
			Message:        fmt.Sprintf("%d non-HTML resource(s) reachable through internal links", nonHTML),
			Recommendation: "Avoid linking asset files like content pages",
		})
		score -= 2
	}

	if score < 0 {
		score = 0
	}
	res.Score = score
	return res
}

// A key page is the site root or any page with internal links.
func isKeyPage(p models.PageRecord) bool {
	if p.InternalLinks > 0 {
		return true
	}
	u, err := url.Parse(p.URL)
	if err != nil {
		return false
	}
	return u.Path == "" || u.Path == "/"
}
