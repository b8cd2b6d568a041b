package tracker

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesavant42/covidwatch/internal/models"
)

var defaultOpts = SnapshotOptions{TopN: 100, PinnedCountry: "Vietnam"}

func rec(name string, cases int64) models.CountryRecord {
	return models.CountryRecord{Name: name, Cases: cases, Deaths: cases / 10, Recovered: cases / 2}
}

func names(rows []models.CountryRecord) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

// randomSet builds n countries with random counts; includeVietnam adds one
// with a tiny case count so it would otherwise sort last.
func randomSet(rng *rand.Rand, n int, includeVietnam bool) []models.CountryRecord {
	records := make([]models.CountryRecord, 0, n+1)
	for i := 0; i < n; i++ {
		records = append(records, rec(fmt.Sprintf("Country-%03d", i), rng.Int63n(1_000_000)))
	}
	if includeVietnam {
		records = append(records, rec("Vietnam", 0))
		rng.Shuffle(len(records), func(i, j int) { records[i], records[j] = records[j], records[i] })
	}
	return records
}

func TestBuildSnapshotExample(t *testing.T) {
	snap := BuildSnapshot([]models.CountryRecord{rec("Vietnam", 100), rec("USA", 500)}, defaultOpts)

	assert.Equal(t, []string{"Vietnam", "USA"}, names(snap.Rows))
	assert.Equal(t, int64(600), snap.Totals.Cases)
}

func TestBuildSnapshotProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, size := range []int{0, 1, 2, 99, 100, 101, 250} {
		for _, withVN := range []bool{false, true} {
			t.Run(fmt.Sprintf("n=%d/vietnam=%v", size, withVN), func(t *testing.T) {
				records := randomSet(rng, size, withVN)
				snap := BuildSnapshot(records, defaultOpts)

				assert.LessOrEqual(t, len(snap.Rows), 100)
				assert.LessOrEqual(t, len(snap.Rows), len(records))
				assert.Equal(t, min(len(records), 100), len(snap.Rows))

				var want models.GlobalTotals
				for _, r := range records {
					want.Cases += r.Cases
					want.Deaths += r.Deaths
					want.Recovered += r.Recovered
				}
				assert.Equal(t, want, snap.Totals)

				if withVN {
					require.NotEmpty(t, snap.Rows)
					assert.Equal(t, "Vietnam", snap.Rows[0].Name)
				}

				// Everything after the pinned row is in descending case order
				start := 0
				if withVN {
					start = 1
				}
				for i := start + 1; i < len(snap.Rows); i++ {
					assert.GreaterOrEqual(t, snap.Rows[i-1].Cases, snap.Rows[i].Cases)
				}
			})
		}
	}
}

func TestBuildSnapshotTotalsCoverTruncatedRows(t *testing.T) {
	records := make([]models.CountryRecord, 150)
	for i := range records {
		records[i] = models.CountryRecord{Name: fmt.Sprintf("C%d", i), Cases: 1, Deaths: 2, Recovered: 3}
	}

	snap := BuildSnapshot(records, defaultOpts)
	assert.Len(t, snap.Rows, 100)
	assert.Equal(t, models.GlobalTotals{Cases: 150, Deaths: 300, Recovered: 450}, snap.Totals)
}

func TestBuildSnapshotDoesNotMutateInput(t *testing.T) {
	records := []models.CountryRecord{rec("A", 1), rec("Vietnam", 2), rec("B", 3)}
	before := append([]models.CountryRecord(nil), records...)

	BuildSnapshot(records, defaultOpts)
	assert.Equal(t, before, records)
}

func TestSortByCasesStableTies(t *testing.T) {
	sorted := SortByCases([]models.CountryRecord{rec("A", 5), rec("B", 7), rec("C", 5), rec("D", 5)})
	assert.Equal(t, []string{"B", "A", "C", "D"}, names(sorted))
}

func TestSortByCasesNil(t *testing.T) {
	sorted := SortByCases(nil)
	assert.NotNil(t, sorted)
	assert.Empty(t, sorted)
}

func TestPinCountry(t *testing.T) {
	rows := []models.CountryRecord{rec("A", 3), rec("B", 2), rec("Vietnam", 1), rec("C", 0)}

	tests := []struct {
		name string
		pin  string
		want []string
	}{
		{"moves to front", "Vietnam", []string{"Vietnam", "A", "B", "C"}},
		{"already first", "A", []string{"A", "B", "Vietnam", "C"}},
		{"absent", "Laos", []string{"A", "B", "Vietnam", "C"}},
		{"case sensitive", "vietnam", []string{"A", "B", "Vietnam", "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(PinCountry(rows, tt.pin)))
		})
	}
	assert.Equal(t, []string{"A", "B", "Vietnam", "C"}, names(rows), "input must not change")
}

func TestPinnedCountryOutsideTopN(t *testing.T) {
	records := []models.CountryRecord{rec("A", 30), rec("B", 20), rec("Vietnam", 1)}
	snap := BuildSnapshot(records, SnapshotOptions{TopN: 2, PinnedCountry: "Vietnam"})
	assert.Equal(t, []string{"Vietnam", "A"}, names(snap.Rows))
}

func TestTopN(t *testing.T) {
	rows := []models.CountryRecord{rec("A", 3), rec("B", 2), rec("C", 1)}

	assert.Len(t, TopN(rows, 2), 2)
	assert.Len(t, TopN(rows, 3), 3)
	assert.Len(t, TopN(rows, 10), 3)
	assert.Empty(t, TopN(rows, 0))
	assert.Empty(t, TopN(rows, -1))
}

func TestFindCountry(t *testing.T) {
	rows := []models.CountryRecord{
		{Name: "USA", Cases: 500, Deaths: 20, Recovered: 400},
		{Name: "Vietnam", Cases: 100, Deaths: 1, Recovered: 90},
	}

	tests := []struct {
		query string
		want  string
		found bool
	}{
		{"usa", "USA", true},
		{"USA", "USA", true},
		{"uSa", "USA", true},
		{"VIETNAM", "Vietnam", true},
		{"us", "", false},
		{"", "", false},
		{" usa", "", false},
		{"Laos", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, ok := FindCountry(rows, tt.query)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, got.Name)
			}
		})
	}

	usa, ok := FindCountry(rows, "usa")
	require.True(t, ok)
	assert.Equal(t, int64(500), usa.Cases)
	assert.Equal(t, int64(20), usa.Deaths)
	assert.Equal(t, int64(400), usa.Recovered)
}

func TestFindCountryOnlySearchesDisplayedRows(t *testing.T) {
	records := []models.CountryRecord{rec("Big", 100), rec("Small", 1)}
	snap := BuildSnapshot(records, SnapshotOptions{TopN: 1})

	_, ok := FindCountry(snap.Rows, "small")
	assert.False(t, ok)
}
