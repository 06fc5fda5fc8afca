package monitor

import (
	"errors"
	"io/fs"
	"time"

	"github.com/gofrs/flock"

	"geoaudit/internal/models"
	"geoaudit/internal/storage"
	"geoaudit/pkg/logger"
)

const maxHistoryEntries = 30

// Check statuses. disabled and no_baseline are expected steady states,
// not errors.
const (
	StatusDisabled   = "disabled"
	StatusNoBaseline = "no_baseline"
	StatusOK         = "ok"
	StatusAlerts     = "alerts"
)

// DefaultThresholds applies when a baseline is created with no prior
// monitoring config.
var DefaultThresholds = models.AlertThresholds{
	NewIssuesCritical: 5,
	ScoreDropAbove:    10,
	PagesRemovedAbove: 2,
}

type CheckResult struct {
	Status string         `json:"status"`
	Diff   *models.Diff   `json:"diff,omitempty"`
	Alerts []models.Alert `json:"alerts,omitempty"`
}

// Store owns the monitoring state file. Every mutation goes through a
// load, pure transform, atomic rewrite cycle, with a file lock held so
// two processes sharing the state file cannot lose each other's runs.
type Store struct {
	path string
	lock *flock.Flock
	log  *logger.Logger
}

func NewStore(path string, log *logger.Logger) *Store {
	return &Store{path: path, lock: flock.New(path + ".lock"), log: log}
}

// Load reads the state file. Absence is the disabled steady state, not
// an error; a malformed file is surfaced, never silently defaulted.
func (s *Store) Load() (*models.MonitoringState, error) {
	var st models.MonitoringState
	err := storage.ReadJSON(s.path, &st)
	if errors.Is(err, fs.ErrNotExist) {
		return &models.MonitoringState{History: []models.HistoryEntry{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// CreateBaseline writes snap as the new baseline file and repoints the
// monitoring config at it. This is valid from any state; the previous
// pointer is replaced unconditionally and prior baseline files are left
// on disk.
func (s *Store) CreateBaseline(snap *models.Snapshot, baselinePath string) (*models.Baseline, error) {
	if err := s.lock.Lock(); err != nil {
		return nil, err
	}
	defer s.lock.Unlock()

	b := &models.Baseline{
		Snapshot:          *snap,
		BaselineCreatedAt: time.Now().UTC(),
		OriginalCrawledAt: snap.CrawledAt,
	}
	if err := storage.WriteJSON(baselinePath, b); err != nil {
		return nil, err
	}

	st, err := s.Load()
	if err != nil {
		return nil, err
	}
	st.Monitoring.Enabled = true
	st.Monitoring.BaselineSnapshot = baselinePath
	if st.Monitoring.AlertThresholds == (models.AlertThresholds{}) {
		st.Monitoring.AlertThresholds = DefaultThresholds
	}
	if err := storage.WriteJSON(s.path, st); err != nil {
		return nil, err
	}
	s.log.Infof("baseline created at %s (%d pages)", baselinePath, snap.PagesCrawled)
	return b, nil
}

// RunCheck compares current against the configured baseline, evaluates
// thresholds, appends the result to the bounded history, and persists
// the updated state.
func (s *Store) RunCheck(current *models.Snapshot) (*CheckResult, error) {
	if err := s.lock.Lock(); err != nil {
		return nil, err
	}
	defer s.lock.Unlock()

	st, err := s.Load()
	if err != nil {
		return nil, err
	}
	if !st.Monitoring.Enabled {
		return &CheckResult{Status: StatusDisabled}, nil
	}
	if st.Monitoring.BaselineSnapshot == "" {
		return &CheckResult{Status: StatusNoBaseline}, nil
	}

	var baseline models.Baseline
	err = storage.ReadJSON(st.Monitoring.BaselineSnapshot, &baseline)
	if errors.Is(err, fs.ErrNotExist) {
		return &CheckResult{Status: StatusNoBaseline}, nil
	}
	if err != nil {
		return nil, err
	}

	diff := Compare(current, &baseline.Snapshot)
	alerts := Evaluate(diff, st.Monitoring.AlertThresholds)

	st.History = append(st.History, models.HistoryEntry{
		CheckedAt: time.Now().UTC(),
		Diff:      diff,
		Alerts:    alerts,
	})
	if len(st.History) > maxHistoryEntries {
		st.History = st.History[len(st.History)-maxHistoryEntries:]
	}
	if err := storage.WriteJSON(s.path, st); err != nil {
		return nil, err
	}

	status := StatusOK
	if len(alerts) > 0 {
		status = StatusAlerts
	}
	return &CheckResult{Status: status, Diff: &diff, Alerts: alerts}, nil
}
