package analyzer

import (
	"fmt"

	"geoaudit/internal/keypages"
	"geoaudit/internal/models"
)

const (
	minMetaDescriptionLen = 50
	thinContentWords      = 50

	highPenalty   = 15
	mediumPenalty = 5
)

// AnalyzeContent flags per-page content gaps that keep AI search systems
// from summarizing or citing a page: missing or short descriptions,
// missing or duplicated H1s, missing titles, thin text, images without
// alt text. The score starts at 100 and loses 15 per high and 5 per
// medium issue, floored at zero.
func AnalyzeContent(snap *models.Snapshot) ContentResult {
	res := ContentResult{Issues: []models.Issue{}}

	for _, p := range snap.Pages {
		if p.StatusCode != 200 || keypages.IsAsset(p.URL) {
			continue
		}
		res.PagesAnalyzed++

		if p.Title == "" {
			res.Issues = append(res.Issues, models.Issue{
				Type:           "missing_title",
				Severity:       models.SeverityHigh,
				Page:           p.URL,
				Message:        "Page has no <title>",
				Recommendation: "Add a unique, descriptive title tag",
			})
		}
		switch {
		case p.MetaDescription == "":
			res.Issues = append(res.Issues, models.Issue{
				Type:           "missing_meta_description",
				Severity:       models.SeverityHigh,
				Page:           p.URL,
				Message:        "Page has no meta description",
				Recommendation: "Add a meta description of at least 50 characters",
			})
		case len(p.MetaDescription) < minMetaDescriptionLen:
			res.Issues = append(res.Issues, models.Issue{
				Type:           "short_meta_description",
				Severity:       models.SeverityMedium,
				Page:           p.URL,
				Message:        fmt.Sprintf("Meta description is only %d characters", len(p.MetaDescription)),
				Recommendation: "Expand the meta description to at least 50 characters",
			})
		}
		switch {
		case len(p.H1) == 0:
			res.Issues = append(res.Issues, models.Issue{
				Type:           "missing_h1",
				Severity:       models.SeverityHigh,
				Page:           p.URL,
				Message:        "Page has no H1 heading",
				Recommendation: "Add exactly one H1 describing the page topic",
			})
		case len(p.H1) > 1:
			res.Issues = append(res.Issues, models.Issue{
				Type:           "multiple_h1",
				Severity:       models.SeverityMedium,
				Page:           p.URL,
				Message:        fmt.Sprintf("Page has %d H1 headings", len(p.H1)),
				Recommendation: "Keep a single H1 per page",
			})
		}
		if p.WordCount < thinContentWords {
			res.Issues = append(res.Issues, models.Issue{
				Type:           "thin_content",
				Severity:       models.SeverityMedium,
				Page:           p.URL,
				Message:        fmt.Sprintf("Page has only %d words", p.WordCount),
				Recommendation: "Expand the page with substantive content",
			})
		}
		if missing := imagesMissingAlt(p.Images); missing > 0 {
			res.Issues = append(res.Issues, models.Issue{
				Type:           "images_missing_alt",
				Severity:       models.SeverityMedium,
				Page:           p.URL,
				Message:        fmt.Sprintf("%d image(s) have no alt text", missing),
				Recommendation: "Add descriptive alt text to every content image",
			})
		}
	}

	res.Score = deductiveScore(res.Issues)
	return res
}

func imagesMissingAlt(images []models.Image) int {
	n := 0
	for _, img := range images {
		if !img.HasAlt {
			n++
		}
	}
	return n
}

// deductiveScore is monotonically non-increasing in the issue list.
func deductiveScore(issues []models.Issue) float64 {
	score := 100.0
	for _, is := range issues {
		switch is.Severity {
		case models.SeverityCritical, models.SeverityHigh:
			score -= highPenalty
		case models.SeverityMedium:
			score -= mediumPenalty
		}
	}
	if score < 0 {
		score = 0
	}
	return score
}
