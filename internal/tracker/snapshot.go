// Package tracker derives the displayed snapshot from fetched country records
// and owns the refresh loop state.
package tracker

import (
	"slices"
	"strings"

	"github.com/thesavant42/covidwatch/internal/models"
)

// SnapshotOptions control how a fetched set is turned into displayed rows
type SnapshotOptions struct {
	TopN          int    // rows kept for display; <= 0 keeps everything
	PinnedCountry string // moved to the front when present; "" disables pinning
}

// Snapshot is the derived result of one successful fetch
type Snapshot struct {
	Rows   []models.CountryRecord // sorted, pinned, truncated
	Totals models.GlobalTotals    // over the full fetched set
}

// BuildSnapshot sorts records by cases, pins the configured country and keeps
// the top N. Totals are computed from the full input. records is not modified.
func BuildSnapshot(records []models.CountryRecord, opts SnapshotOptions) Snapshot {
	rows := SortByCases(records)
	if opts.PinnedCountry != "" {
		rows = PinCountry(rows, opts.PinnedCountry)
	}
	if opts.TopN > 0 {
		rows = TopN(rows, opts.TopN)
	}

	return Snapshot{
		Rows:   rows,
		Totals: ComputeTotals(records),
	}
}

// SortByCases returns a copy of records ordered by descending case count.
// Ties keep their upstream order.
func SortByCases(records []models.CountryRecord) []models.CountryRecord {
	sorted := slices.Clone(records)
	if sorted == nil {
		sorted = []models.CountryRecord{}
	}
	slices.SortStableFunc(sorted, func(a, b models.CountryRecord) int {
		switch {
		case a.Cases > b.Cases:
			return -1
		case a.Cases < b.Cases:
			return 1
		}
		return 0
	})
	return sorted
}

// PinCountry moves the first record named exactly name to index 0, keeping the
// relative order of the others. The input slice is left untouched.
func PinCountry(records []models.CountryRecord, name string) []models.CountryRecord {
	idx := slices.IndexFunc(records, func(r models.CountryRecord) bool {
		return r.Name == name
	})
	if idx <= 0 {
		return records
	}

	pinned := make([]models.CountryRecord, 0, len(records))
	pinned = append(pinned, records[idx])
	pinned = append(pinned, records[:idx]...)
	pinned = append(pinned, records[idx+1:]...)
	return pinned
}

// TopN returns at most the first n records
func TopN(records []models.CountryRecord, n int) []models.CountryRecord {
	if n < 0 {
		n = 0
	}
	if len(records) <= n {
		return records
	}
	return records[:n:n]
}

// ComputeTotals sums cases, deaths and recoveries over every record
func ComputeTotals(records []models.CountryRecord) models.GlobalTotals {
	var totals models.GlobalTotals
	for _, r := range records {
		totals.Cases += r.Cases
		totals.Deaths += r.Deaths
		totals.Recovered += r.Recovered
	}
	return totals
}

// FindCountry returns the row whose name equals query ignoring case.
// Only exact matches count; an empty query never matches.
func FindCountry(rows []models.CountryRecord, query string) (models.CountryRecord, bool) {
	if query == "" {
		return models.CountryRecord{}, false
	}
	for _, r := range rows {
		if strings.EqualFold(r.Name, query) {
			return r, true
		}
	}
	return models.CountryRecord{}, false
}
