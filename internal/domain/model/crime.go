package model

import (
	"strconv"
	"time"
)

// CrimeColumns is the fixed output column set of the crime table, in order.
// Source files may carry more columns; anything not listed is dropped.
var CrimeColumns = []string{
	"Address", "CaseNumber", "CrimeAgainst", "Neighborhood", "OccurDate", "OccurTime",
	"OffenseCategory", "OffenseType", "OpenDataLat", "OpenDataLon", "ReportDate", "OffenseCount",
}

// DateLayout is the layout dates are written with.
const DateLayout = "2006-01-02"

// CrimeRecord is one reported offense.
type CrimeRecord struct {
	Address         string     `parquet:"Address"`
	CaseNumber      string     `parquet:"CaseNumber"`
	CrimeAgainst    string     `parquet:"CrimeAgainst"`
	Neighborhood    string     `parquet:"Neighborhood"` // canonical name
	OccurDate       *time.Time `parquet:"OccurDate,optional,timestamp(millisecond)"`
	OccurTime       *int32     `parquet:"OccurTime,optional"` // HHMM
	OffenseCategory string     `parquet:"OffenseCategory"`
	OffenseType     string     `parquet:"OffenseType"`
	OpenDataLat     *float64   `parquet:"OpenDataLat,optional"`
	OpenDataLon     *float64   `parquet:"OpenDataLon,optional"`
	ReportDate      time.Time  `parquet:"ReportDate,timestamp(millisecond)"`
	OffenseCount    *int32     `parquet:"OffenseCount,optional"`
	Year            int32      `parquet:"Year"` // derived from ReportDate
}

// CrimeHeader is the header written for crime tables.
func CrimeHeader() []string {
	return append(append([]string{}, CrimeColumns...), "Year")
}

// Values renders the record in CrimeHeader order. Nulls are empty strings.
func (r CrimeRecord) Values() []string {
	return []string{
		r.Address,
		r.CaseNumber,
		r.CrimeAgainst,
		r.Neighborhood,
		FormatDate(r.OccurDate),
		FormatInt(r.OccurTime),
		r.OffenseCategory,
		r.OffenseType,
		FormatFloat(r.OpenDataLat),
		FormatFloat(r.OpenDataLon),
		r.ReportDate.Format(DateLayout),
		FormatInt(r.OffenseCount),
		strconv.Itoa(int(r.Year)),
	}
}

// RecordYear returns the derived year.
func (r CrimeRecord) RecordYear() int { return int(r.Year) }

// NeighborhoodName returns the canonical join key.
func (r CrimeRecord) NeighborhoodName() string { return r.Neighborhood }

// FormatFloat renders an optional float, empty when null.
func FormatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// FormatInt renders an optional integer, empty when null.
func FormatInt(v *int32) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(int(*v))
}

// FormatDate renders an optional date with DateLayout, empty when null.
func FormatDate(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.Format(DateLayout)
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int32 returns a pointer to v.
func Int32(v int32) *int32 { return &v }

// Date returns a pointer to v.
func Date(v time.Time) *time.Time { return &v }
