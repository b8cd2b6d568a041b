package tracker

import (
	"time"

	"github.com/thesavant42/covidwatch/internal/models"
)

// State is the view-owned result of the refresh loop. It is not safe for
// concurrent use; the single owner applies fetch results in arrival order.
type State struct {
	Rows         []models.CountryRecord
	Totals       models.GlobalTotals
	ErrorMessage string // user-facing, empty after a successful refresh
	Err          error  // cause of the last failure, for logging
	LastRefresh  time.Time
	LastAttempt  time.Time
	Refreshes    int
	Failures     int

	opts         SnapshotOptions
	errorMessage string
}

// NewState returns an empty state. failureMessage is what ApplyFailure shows.
func NewState(opts SnapshotOptions, failureMessage string) *State {
	return &State{
		opts:         opts,
		errorMessage: failureMessage,
	}
}

// ApplySuccess replaces the snapshot and totals with ones derived from records
// and clears any stored error.
func (s *State) ApplySuccess(records []models.CountryRecord, at time.Time) {
	snap := BuildSnapshot(records, s.opts)
	s.Rows = snap.Rows
	s.Totals = snap.Totals
	s.ErrorMessage = ""
	s.Err = nil
	s.LastRefresh = at
	s.LastAttempt = at
	s.Refreshes++
}

// ApplyFailure keeps the previous snapshot and totals and stores the fixed
// failure message.
func (s *State) ApplyFailure(err error, at time.Time) {
	s.ErrorMessage = s.errorMessage
	s.Err = err
	s.LastAttempt = at
	s.Failures++
}

// Loaded reports whether at least one refresh has succeeded
func (s *State) Loaded() bool {
	return s.Refreshes > 0
}

// Match runs the search filter against the displayed rows
func (s *State) Match(query string) (models.CountryRecord, bool) {
	return FindCountry(s.Rows, query)
}
