// Package monitor compares a current snapshot against a stored baseline
// and raises alerts against configured thresholds.
package monitor

import (
	"strings"
	"time"

	"geoaudit/internal/analyzer"
	"geoaudit/internal/models"
)

// Metric names used in diffs and the summary score map. Each one is
// compared only against the baseline's same-named value; there is no
// fallback from one metric to another.
const (
	MetricHealth   = analyzer.CategoryHealth
	MetricCitation = analyzer.CategoryCitation
	MetricContent  = analyzer.CategoryContent
)

var metricNames = []string{MetricHealth, MetricCitation, MetricContent}

// Compare computes the typed diff between two snapshots: page-count
// delta, per-metric score deltas, issue-count delta, and the aggregate
// structured-data block count delta. Comparing a snapshot against
// itself yields an empty change list.
func Compare(current, baseline *models.Snapshot) models.Diff {
	diff := models.Diff{
		Timestamp: time.Now().UTC(),
		Changes:   []models.Change{},
		Summary: models.DiffSummary{
			Scores: map[string]models.ScoreChange{},
		},
	}

	if pd := current.PagesCrawled - baseline.PagesCrawled; pd != 0 {
		diff.Changes = append(diff.Changes, models.Change{
			Type:     "page_count",
			Baseline: baseline.PagesCrawled,
			Current:  current.PagesCrawled,
			Delta:    float64(pd),
		})
	}

	curScores, curIssues := metricScores(current)
	baseScores, baseIssues := metricScores(baseline)
	for _, name := range metricNames {
		b, c := baseScores[name], curScores[name]
		sc := models.ScoreChange{Baseline: b, Current: c, Delta: c - b}
		diff.Summary.Scores[name] = sc
		if sc.Delta != 0 {
			diff.Changes = append(diff.Changes, models.Change{
				Type:     "score_" + name,
				Baseline: b,
				Current:  c,
				Delta:    sc.Delta,
			})
		}
	}

	if id := curIssues - baseIssues; id != 0 {
		diff.Changes = append(diff.Changes, models.Change{
			Type:     "issue_count",
			Baseline: baseIssues,
			Current:  curIssues,
			Delta:    float64(id),
		})
	}

	if sd := current.TotalStructuredData() - baseline.TotalStructuredData(); sd != 0 {
		diff.Changes = append(diff.Changes, models.Change{
			Type:     "structured_data",
			Baseline: baseline.TotalStructuredData(),
			Current:  current.TotalStructuredData(),
			Delta:    float64(sd),
		})
	}

	baseURLs := urlSet(baseline)
	curURLs := urlSet(current)
	for u := range curURLs {
		if _, ok := baseURLs[u]; !ok {
			diff.Summary.PagesAdded++
		}
	}
	for u := range baseURLs {
		if _, ok := curURLs[u]; !ok {
			diff.Summary.PagesRemoved++
		}
	}

	diff.Summary.HasChanges = len(diff.Changes) > 0
	return diff
}

// metricScores recomputes the named analyzer scores for a snapshot. The
// analyzers are pure, so running them on the stored baseline gives
// exactly what a run at baseline time would have given.
func metricScores(snap *models.Snapshot) (map[string]float64, int) {
	content := analyzer.AnalyzeContent(snap)
	health := analyzer.AnalyzeHealth(snap)
	citation := analyzer.AnalyzeCitation(snap)
	scores := map[string]float64{
		MetricContent:  content.Score,
		MetricHealth:   health.Score,
		MetricCitation: citation.Score,
	}
	return scores, len(content.Issues) + len(health.Issues) + len(citation.Issues)
}

func urlSet(snap *models.Snapshot) map[string]struct{} {
	set := make(map[string]struct{}, len(snap.Pages))
	for _, p := range snap.Pages {
		set[p.URL] = struct{}{}
	}
	return set
}

// Evaluate runs the three independent threshold gates over one diff.
// More than one may fire from the same run.
func Evaluate(diff models.Diff, t models.AlertThresholds) []models.Alert {
	alerts := []models.Alert{}
	for _, ch := range diff.Changes {
		switch {
		case ch.Type == "issue_count" && ch.Delta > float64(t.NewIssuesCritical):
			alerts = append(alerts, models.Alert{
				Level:   models.AlertCritical,
				Type:    "new_issues",
				Message: "Issue count rose beyond the configured threshold",
			})
		case strings.HasPrefix(ch.Type, "score_") && ch.Delta < -t.ScoreDropAbove:
			alerts = append(alerts, models.Alert{
				Level:   models.AlertWarning,
				Type:    "score_drop",
				Message: strings.TrimPrefix(ch.Type, "score_") + " score dropped beyond the configured threshold",
			})
		case ch.Type == "page_count" && ch.Delta < -float64(t.PagesRemovedAbove):
			alerts = append(alerts, models.Alert{
				Level:   models.AlertWarning,
				Type:    "pages_removed",
				Message: "More pages disappeared than the configured threshold allows",
			})
		}
	}
	return alerts
}
