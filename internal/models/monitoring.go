package models

import "time"

// Change is one detected difference between a baseline and a current
// snapshot. Baseline and Current carry the raw compared values; Delta is
// current minus baseline for numeric metrics.
type Change struct {
	Type     string  `json:"type"`
	Baseline any     `json:"baseline"`
	Current  any     `json:"current"`
	Delta    float64 `json:"delta"`
}

// ScoreChange records one named metric compared against the baseline's
// same-named value.
type ScoreChange struct {
	Baseline float64 `json:"baseline"`
	Current  float64 `json:"current"`
	Delta    float64 `json:"delta"`
}

type DiffSummary struct {
	HasChanges   bool                   `json:"has_changes"`
	PagesAdded   int                    `json:"pages_added"`
	PagesRemoved int                    `json:"pages_removed"`
	Scores       map[string]ScoreChange `json:"scores,omitempty"`
}

// Diff is the immutable result of one monitoring comparison.
type Diff struct {
	Timestamp time.Time   `json:"timestamp"`
	Changes   []Change    `json:"changes"`
	Summary   DiffSummary `json:"summary"`
}

// Alert levels.
const (
	AlertCritical = "critical"
	AlertWarning  = "warning"
)

type Alert struct {
	Level   string `json:"level"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// AlertThresholds are independent gates evaluated over one Diff;
// several may fire from the same run.
type AlertThresholds struct {
	NewIssuesCritical int     `json:"new_issues_critical"`
	ScoreDropAbove    float64 `json:"score_drop_above"`
	PagesRemovedAbove int     `json:"pages_removed_above"`
}

type MonitoringConfig struct {
	Enabled          bool            `json:"enabled"`
	BaselineSnapshot string          `json:"baseline_snapshot,omitempty"`
	AlertThresholds  AlertThresholds `json:"alert_thresholds"`
}

type HistoryEntry struct {
	CheckedAt time.Time `json:"checked_at"`
	Diff      Diff      `json:"diff"`
	Alerts    []Alert   `json:"alerts"`
}

// MonitoringState is the full persisted monitoring file: config plus the
// bounded check history (most recent 30 entries).
type MonitoringState struct {
	Monitoring MonitoringConfig `json:"monitoring"`
	History    []HistoryEntry   `json:"history"`
}
