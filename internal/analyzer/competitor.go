package analyzer

import (
	"fmt"
	"sort"

	"geoaudit/internal/models"
)

// Competitor analysis statuses.
const (
	StatusPendingConfig = "pending_competitor_config"
	StatusPartial       = "partial"
)

// AnalyzeCompetitors is a deliberate stub: until competitor crawling
// exists, it either reports that no competitors are configured (along
// with the framework summary a future comparison would start from) or
// emits one crawl-required placeholder per configured competitor with a
// fixed partial score. It performs no cross-site comparison.
func AnalyzeCompetitors(snap *models.Snapshot, competitors []models.Competitor) CompetitorResult {
	if len(competitors) == 0 {
		fw := buildFramework(snap)
		return CompetitorResult{
			Status: StatusPendingConfig,
			Issues: []models.Issue{{
				Type:           "no_competitors_configured",
				Severity:       models.SeverityLow,
				Message:        "No competitors configured; gap analysis skipped",
				Recommendation: "Add competitor domains to the customer record",
			}},
			Framework: &fw,
		}
	}

	res := CompetitorResult{Status: StatusPartial, Issues: []models.Issue{}}
	for _, comp := range competitors {
		res.Issues = append(res.Issues, models.Issue{
			Type:           "competitor_crawl_required",
			Severity:       models.SeverityLow,
			Message:        fmt.Sprintf("Competitor %s has not been crawled yet", comp.Domain),
			Recommendation: "Run a crawl of the competitor site to enable comparison",
		})
		res.Score += 50
	}
	if res.Score > 100 {
		res.Score = 100
	}
	return res
}

func buildFramework(snap *models.Snapshot) CompetitorFramework {
	fw := CompetitorFramework{
		StructuredDataTypes: []string{},
		KeyPageTypes:        []string{},
	}
	sdTypes := map[string]struct{}{}
	for _, p := range snap.Pages {
		fw.TotalWordCount += p.WordCount
		if p.MetaDescription != "" {
			fw.PagesWithMeta++
		}
		if len(p.H1) > 0 {
			fw.PagesWithH1++
		}
		for _, b := range p.StructuredData {
			if b.Type != "" {
				sdTypes[b.Type] = struct{}{}
			}
		}
	}
	for t := range sdTypes {
		fw.StructuredDataTypes = append(fw.StructuredDataTypes, t)
	}
	sort.Strings(fw.StructuredDataTypes)

	kpTypes := map[string]struct{}{}
	for _, kp := range snap.KeyPages {
		if _, ok := kpTypes[kp.Type]; !ok {
			kpTypes[kp.Type] = struct{}{}
			fw.KeyPageTypes = append(fw.KeyPageTypes, kp.Type)
		}
	}
	return fw
}
