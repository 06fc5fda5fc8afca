package analyzer

import (
	"fmt"
	"sort"

	"geoaudit/internal/models"
)

// Issue categories assigned by the compiler.
const (
	CategoryContent    = "content_coverage"
	CategoryHealth     = "crawl_health"
	CategoryCitation   = "citation_readiness"
	CategoryCompetitor = "competitor_gap"
)

var severityRank = map[string]int{
	models.SeverityCritical: 0,
	models.SeverityHigh:     1,
	models.SeverityMedium:   2,
	models.SeverityLow:      3,
}

// Report is the compiled, cross-analyzer view: every issue with a
// stable identifier and category, ordered by severity, plus the
// per-analyzer scores and one weighted overall score.
type Report struct {
	Issues       []models.Issue     `json:"issues"`
	Scores       map[string]float64 `json:"scores"`
	OverallScore float64            `json:"overall_score"`
}

// Compile merges the four analyzer outputs. Identifiers are assigned
// per category in emission order (CONTENT-001, ...), so they stay
// stable across runs as long as the issues themselves do.
func Compile(content ContentResult, health HealthResult, citation CitationResult, competitor CompetitorResult) *Report {
	var issues []models.Issue
	issues = append(issues, tag(content.Issues, "CONTENT", CategoryContent)...)
	issues = append(issues, tag(health.Issues, "HEALTH", CategoryHealth)...)
	issues = append(issues, tag(citation.Issues, "CITATION", CategoryCitation)...)
	issues = append(issues, tag(competitor.Issues, "COMPETITOR", CategoryCompetitor)...)

	sort.SliceStable(issues, func(i, j int) bool {
		return severityRank[issues[i].Severity] < severityRank[issues[j].Severity]
	})

	return &Report{
		Issues: issues,
		Scores: map[string]float64{
			CategoryContent:    content.Score,
			CategoryHealth:     health.Score,
			CategoryCitation:   citation.Score,
			CategoryCompetitor: competitor.Score,
		},
		OverallScore: 0.3*content.Score + 0.3*health.Score + 0.3*citation.Score + 0.1*competitor.Score,
	}
}

func tag(issues []models.Issue, prefix, category string) []models.Issue {
	out := make([]models.Issue, len(issues))
	for i, is := range issues {
		is.ID = fmt.Sprintf("%s-%03d", prefix, i+1)
		is.Category = category
		out[i] = is
	}
	return out
}
