package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thesavant42/covidwatch/internal/models"
	"github.com/thesavant42/covidwatch/internal/tracker"
)

func TestPrintSnapshot(t *testing.T) {
	snap := tracker.BuildSnapshot(sampleRecords(), tracker.SnapshotOptions{TopN: 100, PinnedCountry: "Vietnam"})

	var buf bytes.Buffer
	PrintSnapshot(&buf, snap, "usa", fixedNow)
	out := buf.String()

	assert.Contains(t, out, "900")
	assert.Contains(t, out, "Vietnam")
	assert.Contains(t, out, "USA")
	assert.Contains(t, out, "1 minute ago")
	assert.Less(t, strings.Index(out, "Vietnam"), strings.Index(out, "USA"), "pinned country comes first")
}

func TestPrintCountryTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintCountryTable(&buf, nil, "", fixedNow)
	assert.Contains(t, buf.String(), "No data")
}

func TestGenerateMarkdownReport(t *testing.T) {
	snap := tracker.BuildSnapshot([]models.CountryRecord{
		{Name: "USA", Cases: 1_234_567, Deaths: 10, Recovered: 1_000_000},
	}, tracker.SnapshotOptions{TopN: 100})

	md := GenerateMarkdownReport(snap, fixedNow)

	assert.Contains(t, md, "# COVID-19 Worldwide")
	assert.Contains(t, md, "2024-03-01T12:00:00Z")
	assert.Contains(t, md, "| 1 | USA | 1,234,567 | 10 | 1,000,000 |")
}

func TestGenerateMarkdownReportEmpty(t *testing.T) {
	md := GenerateMarkdownReport(tracker.Snapshot{}, fixedNow)
	assert.Contains(t, md, "No data")
}
