package models

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRecord(t *testing.T) {
	raw := `{"country":"Vietnam","cases":11624000,"deaths":43206,"recovered":10606135,
		"updated":1700000000000,"countryInfo":{"iso2":"VN","iso3":"VNM","flag":"https://disease.sh/assets/img/flags/vn.png"}}`

	var p CountryPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	r, err := p.ToRecord()
	require.NoError(t, err)
	assert.Equal(t, "Vietnam", r.Name)
	assert.Equal(t, "VN", r.ISO2)
	assert.Equal(t, int64(11624000), r.Cases)
	assert.Equal(t, int64(43206), r.Deaths)
	assert.Equal(t, int64(10606135), r.Recovered)
	assert.Equal(t, "https://disease.sh/assets/img/flags/vn.png", r.FlagURL)
	assert.True(t, r.LastUpdated.Equal(time.UnixMilli(1700000000000)))
}

func TestToRecordFloatTimestamp(t *testing.T) {
	var p CountryPayload
	require.NoError(t, json.Unmarshal([]byte(`{"country":"USA","cases":1.0,"updated":1700000000000.0}`), &p))

	r, err := p.ToRecord()
	require.NoError(t, err)
	assert.True(t, r.LastUpdated.Equal(time.UnixMilli(1700000000000)))
	assert.Equal(t, int64(1), r.Cases)
}

func TestToRecordNegativeTimestamp(t *testing.T) {
	name := "USA"
	p := CountryPayload{Country: &name, Updated: -1}

	r, err := p.ToRecord()
	require.NoError(t, err)
	assert.True(t, r.LastUpdated.IsZero())
}

func TestToRecordMissingCountry(t *testing.T) {
	var p CountryPayload
	require.NoError(t, json.Unmarshal([]byte(`{"cases":1}`), &p))

	_, err := p.ToRecord()
	assert.Error(t, err)
}

func TestToRecordMissingTimestamp(t *testing.T) {
	name := "Diamond Princess"
	p := CountryPayload{Country: &name}

	r, err := p.ToRecord()
	require.NoError(t, err)
	assert.True(t, r.LastUpdated.IsZero())
	assert.Empty(t, r.ISO2)
}

func TestToCount(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{12.9, 12},
		{-5, 0},
		{math.NaN(), 0},
		{math.Inf(1), math.MaxInt64},
		{1e300, math.MaxInt64},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, toCount(tt.in), "in=%v", tt.in)
	}
}
