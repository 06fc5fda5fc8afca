package analyzer

import (
	"fmt"
	"math"
	"strings"

	"geoaudit/internal/models"
)

// Heuristic authority keywords searched in aggregated page text
// (titles, descriptions, headings). Each match is worth 5 points.
var eeatKeywords = []string{"author", "about", "team", "contact", "privacy", "terms"}

// AnalyzeCitation scores how citable the site looks to an AI answer
// engine. Three weighted sub-scores sum to 100: structured-data
// presence (40), E-E-A-T signals (30), and content quality (30). One
// issue is emitted per missing signal.
func AnalyzeCitation(snap *models.Snapshot) CitationResult {
	res := CitationResult{Issues: []models.Issue{}}

	pagesWithSD := 0
	pagesOver100 := 0
	pagesWithHeading := 0
	var text strings.Builder

	for _, p := range snap.Pages {
		if p.StatusCode != 200 {
			continue
		}
		if len(p.StructuredData) > 0 {
			pagesWithSD++
		}
		if p.WordCount > 100 {
			pagesOver100++
		}
		if len(p.H1) > 0 || len(p.H2) > 0 {
			pagesWithHeading++
		}
		text.WriteString(strings.ToLower(p.Title))
		text.WriteString(" ")
		text.WriteString(strings.ToLower(p.MetaDescription))
		text.WriteString(" ")
		for _, h := range append(append(append([]string{}, p.H1...), p.H2...), p.H3...) {
			text.WriteString(strings.ToLower(h))
			text.WriteString(" ")
		}
		res.Signals = mergeSignals(res.Signals, p.StructuredData)
	}
	aggregated := text.String()

	res.Breakdown.StructuredData = math.Min(40, float64(10*pagesWithSD))

	eeat := 0.0
	for _, kw := range eeatKeywords {
		if strings.Contains(aggregated, kw) {
			eeat += 5
		}
	}
	if res.Signals.Organization {
		eeat += 5
	}
	res.Breakdown.EEAT = math.Min(30, eeat)

	res.Breakdown.ContentQuality = math.Min(20, float64(7*pagesOver100)) +
		math.Min(10, float64(5*pagesWithHeading))

	res.Score = res.Breakdown.StructuredData + res.Breakdown.EEAT + res.Breakdown.ContentQuality

	textHasAuthor := strings.Contains(aggregated, "author")
	if !res.Signals.SchemaOrg {
		res.Issues = append(res.Issues, models.Issue{
			Type:           "missing_schema_markup",
			Severity:       models.SeverityHigh,
			Message:        "No Schema.org structured data found on any page",
			Recommendation: "Add JSON-LD markup so answer engines can read the site",
		})
	}
	if !res.Signals.Author && !textHasAuthor {
		res.Issues = append(res.Issues, models.Issue{
			Type:           "missing_author_info",
			Severity:       models.SeverityMedium,
			Message:        "No author information in structured data or page text",
			Recommendation: "Attribute content to named authors",
		})
	}
	if !res.Signals.Organization {
		res.Issues = append(res.Issues, models.Issue{
			Type:           "missing_organization_schema",
			Severity:       models.SeverityMedium,
			Message:        "No Organization schema found",
			Recommendation: "Add Organization JSON-LD identifying the publisher",
		})
	}
	if !res.Signals.FAQ {
		res.Issues = append(res.Issues, models.Issue{
			Type:           "missing_faq_schema",
			Severity:       models.SeverityLow,
			Message:        "No FAQPage schema found",
			Recommendation: "Mark up common questions with FAQPage schema",
		})
	}
	if !res.Signals.HowTo {
		res.Issues = append(res.Issues, models.Issue{
			Type:           "missing_howto_schema",
			Severity:       models.SeverityLow,
			Message:        "No HowTo schema found",
			Recommendation: "Mark up step-by-step content with HowTo schema",
		})
	}
	for _, p := range snap.Pages {
		if p.StatusCode == 200 && p.WordCount < 50 {
			res.Issues = append(res.Issues, models.Issue{
				Type:           "thin_content",
				Severity:       models.SeverityMedium,
				Page:           p.URL,
				Message:        fmt.Sprintf("Page has only %d words, too thin to cite", p.WordCount),
				Recommendation: "Expand the page so it can stand alone as a source",
			})
		}
	}

	return res
}

func mergeSignals(sig CitationSignals, blocks []models.StructuredData) CitationSignals {
	for _, b := range blocks {
		if b.Schema != "json-ld" {
			continue
		}
		sig.SchemaOrg = true
		switch b.Type {
		case "Person", "Author":
			sig.Author = true
		case "Organization", "Corporation":
			sig.Organization = true
		case "FAQPage":
			sig.FAQ = true
		case "HowTo":
			sig.HowTo = true
		}
		if m, ok := b.Raw.(map[string]any); ok {
			if _, ok := m["author"]; ok {
				sig.Author = true
			}
			if _, ok := m["mainEntity"]; ok {
				sig.FAQ = true
			}
		}
	}
	return sig
}
