package models

import (
	"fmt"
	"math"
	"time"
)

// CountryInfo is the nested countryInfo object of the upstream API
type CountryInfo struct {
	ISO2 string `json:"iso2"`
	ISO3 string `json:"iso3"`
	Flag string `json:"flag"`
}

// CountryPayload represents one element of the disease.sh countries response.
// Counts are decoded as float64 because the API does not promise integer encoding.
type CountryPayload struct {
	Country     *string     `json:"country"`
	Cases       float64     `json:"cases"`
	Deaths      float64     `json:"deaths"`
	Recovered   float64     `json:"recovered"`
	Updated     float64     `json:"updated"` // epoch milliseconds
	CountryInfo CountryInfo `json:"countryInfo"`
}

// CountryRecord is one row of a snapshot
type CountryRecord struct {
	Name        string // unique within a snapshot
	ISO2        string
	Cases       int64
	Deaths      int64
	Recovered   int64
	LastUpdated time.Time
	FlagURL     string
}

// GlobalTotals holds sums over every record of a fetched set
type GlobalTotals struct {
	Cases     int64
	Deaths    int64
	Recovered int64
}

// ToRecord converts a CountryPayload to a CountryRecord.
// A payload without a country name cannot be keyed and is rejected.
func (p *CountryPayload) ToRecord() (CountryRecord, error) {
	if p.Country == nil {
		return CountryRecord{}, fmt.Errorf("record is missing the country field")
	}

	record := CountryRecord{
		Name:      *p.Country,
		ISO2:      p.CountryInfo.ISO2,
		Cases:     toCount(p.Cases),
		Deaths:    toCount(p.Deaths),
		Recovered: toCount(p.Recovered),
		FlagURL:   p.CountryInfo.Flag,
	}
	// Missing timestamps stay zero rather than becoming the Unix epoch
	if ms := toCount(p.Updated); ms > 0 {
		record.LastUpdated = time.UnixMilli(ms)
	}
	return record, nil
}

// toCount clamps a JSON number into a non-negative integer count
func toCount(v float64) int64 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}
