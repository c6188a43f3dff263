// Package crime normalizes the yearly crime incident files.
package crime

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/okian/pdxcrime/internal/domain/model"
	"github.com/okian/pdxcrime/internal/domain/neighborhood"
	"github.com/okian/pdxcrime/internal/domain/numeric"
	"github.com/okian/pdxcrime/pkg/logger"
	"github.com/okian/pdxcrime/pkg/metrics"
)

// geometryColumns were published until 2019 and are not carried forward.
var geometryColumns = []string{"OpenDataX", "OpenDataY"}

// dateLayouts are tried in order when reading OccurDate and ReportDate.
var dateLayouts = []string{"1/2/2006", model.DateLayout, "2006-01-02T15:04:05", "1/2/2006 15:04"}

const dataset = string(model.KindCrime)

// ExpectedHeader returns the first line of the source file for a year.
func ExpectedHeader(year int) string {
	if year >= 2020 {
		return strings.Join(model.CrimeColumns, ",")
	}
	cols := slices.Clone(model.CrimeColumns)
	at := slices.Index(cols, "ReportDate")
	cols = slices.Insert(cols, at, geometryColumns...)
	return strings.Join(cols, ",")
}

// Normalizer turns one year's crime CSV into records.
type Normalizer struct {
	log logger.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.log = l
		}
	}
}

// New returns a Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{}
	for _, opt := range opts {
		opt(n)
	}
	if n.log == nil {
		n.log = logger.Named("crime")
	}
	return n
}

// Normalize parses raw, keeps the fixed column set, derives Year from
// ReportDate and canonicalizes neighborhood names. Every row must report in
// year; rows without a neighborhood are dropped afterwards.
func (n *Normalizer) Normalize(ctx context.Context, year int, raw []byte) ([]model.CrimeRecord, error) {
	start := time.Now()
	if err := model.CheckYear(year); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: crime %d", model.ErrEmptySource, year)
	}

	df := dataframe.ReadCSV(bytes.NewReader(raw),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(numeric.NullValues()),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("parse crime %d: %w", year, df.Err)
	}
	df = df.Select(model.CrimeColumns)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: crime %d: %w", model.ErrSchemaAssumptionViolated, year, df.Err)
	}
	metrics.RecordRowsParsed(dataset, year, df.Nrow())

	rows := make([]model.CrimeRecord, 0, df.Nrow())
	years := make(map[int]struct{})
	for i := 0; i < df.Nrow(); i++ {
		rec, err := readRow(df, i)
		if err != nil {
			return nil, fmt.Errorf("crime %d row %d: %w", year, i+1, err)
		}
		years[int(rec.Year)] = struct{}{}
		rows = append(rows, rec)
	}
	if len(years) != 1 || !hasYear(years, year) {
		got := make([]int, 0, len(years))
		for y := range years {
			got = append(got, y)
		}
		slices.Sort(got)
		return nil, &model.YearMismatchError{Dataset: model.KindCrime, Want: year, Got: got}
	}

	out := rows[:0]
	translated := 0
	for _, rec := range rows {
		name, ok := neighborhood.Crime(rec.Neighborhood)
		if !ok {
			continue
		}
		if name != neighborhood.Upper(rec.Neighborhood) {
			translated++
		}
		rec.Neighborhood = name
		out = append(out, rec)
	}
	dropped := len(rows) - len(out)

	metrics.RecordRowsDropped(dataset, "blank_neighborhood", dropped)
	metrics.RecordTranslated(dataset, translated)
	metrics.RecordNormalizeDuration(dataset, time.Since(start))
	n.log.Debug(ctx, "normalized crime year",
		logger.Year(year),
		logger.Int("rows", len(out)),
		logger.Int("dropped", dropped),
		logger.Int("translated", translated))
	return out, nil
}

func hasYear(set map[int]struct{}, year int) bool {
	_, ok := set[year]
	return ok
}

func readRow(df dataframe.DataFrame, i int) (model.CrimeRecord, error) {
	cell := func(col string) (string, bool) {
		e := df.Elem(i, slices.Index(model.CrimeColumns, col))
		if e.IsNA() {
			return "", false
		}
		return strings.TrimSpace(e.String()), true
	}
	text := func(col string) string {
		s, _ := cell(col)
		return s
	}

	var rec model.CrimeRecord
	var err error
	rec.Address = text("Address")
	rec.CaseNumber = text("CaseNumber")
	rec.CrimeAgainst = text("CrimeAgainst")
	rec.Neighborhood = text("Neighborhood")
	rec.OffenseCategory = text("OffenseCategory")
	rec.OffenseType = text("OffenseType")

	if rec.OccurDate, err = parseOptionalDate(cell("OccurDate")); err != nil {
		return rec, fmt.Errorf("OccurDate: %w", err)
	}
	// Year is derived from ReportDate, so it may not be missing.
	if rec.ReportDate, err = parseDate(cell("ReportDate")); err != nil {
		return rec, fmt.Errorf("ReportDate: %w", err)
	}
	if rec.OccurTime, err = parseInt(cell("OccurTime")); err != nil {
		return rec, fmt.Errorf("OccurTime: %w", err)
	}
	if rec.OffenseCount, err = parseInt(cell("OffenseCount")); err != nil {
		return rec, fmt.Errorf("OffenseCount: %w", err)
	}
	if rec.OpenDataLat, err = parseFloat(cell("OpenDataLat")); err != nil {
		return rec, fmt.Errorf("OpenDataLat: %w", err)
	}
	if rec.OpenDataLon, err = parseFloat(cell("OpenDataLon")); err != nil {
		return rec, fmt.Errorf("OpenDataLon: %w", err)
	}
	rec.Year = int32(rec.ReportDate.Year())
	return rec, nil
}

func parseDate(s string, ok bool) (time.Time, error) {
	if !ok {
		return time.Time{}, fmt.Errorf("%w: missing date", model.ErrMalformedValue)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q", model.ErrMalformedValue, s)
}

func parseOptionalDate(s string, ok bool) (*time.Time, error) {
	if !ok {
		return nil, nil
	}
	t, err := parseDate(s, ok)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseInt(s string, ok bool) (*int32, error) {
	if !ok {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		// some exports write whole numbers as floats
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int32(f)) {
			return nil, fmt.Errorf("%w: integer %q", model.ErrMalformedValue, s)
		}
		return model.Int32(int32(f)), nil
	}
	return model.Int32(int32(v)), nil
}

func parseFloat(s string, ok bool) (*float64, error) {
	if !ok {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: number %q", model.ErrMalformedValue, s)
	}
	return &v, nil
}
