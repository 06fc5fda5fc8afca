// Package analyzer holds the read-only audit passes over a snapshot.
// Every analyzer is a pure function: it never mutates the snapshot and
// never depends on another analyzer's output.
package analyzer

import "geoaudit/internal/models"

type ContentResult struct {
	Issues        []models.Issue `json:"issues"`
	Score         float64        `json:"score"`
	PagesAnalyzed int            `json:"pages_analyzed"`
}

type HealthResult struct {
	Issues []models.Issue `json:"issues"`
	Score  float64        `json:"score"`
}

// CitationBreakdown is the three weighted sub-scores that sum to the
// citation readiness score (40 + 30 + 30).
type CitationBreakdown struct {
	StructuredData float64 `json:"structured_data"`
	EEAT           float64 `json:"eeat"`
	ContentQuality float64 `json:"content_quality"`
}

type CitationSignals struct {
	SchemaOrg    bool `json:"schema_org"`
	Author       bool `json:"author"`
	Organization bool `json:"organization"`
	FAQ          bool `json:"faq"`
	HowTo        bool `json:"how_to"`
}

type CitationResult struct {
	Issues    []models.Issue    `json:"issues"`
	Score     float64           `json:"score"`
	Breakdown CitationBreakdown `json:"breakdown"`
	Signals   CitationSignals   `json:"signals"`
}

// CompetitorFramework summarizes the current site along the axes a
// future competitor comparison would use.
type CompetitorFramework struct {
	TotalWordCount      int      `json:"total_word_count"`
	StructuredDataTypes []string `json:"structured_data_types"`
	KeyPageTypes        []string `json:"key_page_types"`
	PagesWithMeta       int      `json:"pages_with_meta"`
	PagesWithH1         int      `json:"pages_with_h1"`
}

type CompetitorResult struct {
	Issues    []models.Issue       `json:"issues"`
	Score     float64              `json:"score"`
	Status    string               `json:"status"`
	Framework *CompetitorFramework `json:"framework,omitempty"`
}
