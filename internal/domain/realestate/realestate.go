// Package realestate normalizes the yearly neighborhood real-estate reports.
package realestate

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

	"github.com/okian/pdxcrime/internal/domain/layout"
	"github.com/okian/pdxcrime/internal/domain/model"
	"github.com/okian/pdxcrime/internal/domain/neighborhood"
	"github.com/okian/pdxcrime/internal/domain/numeric"
	"github.com/okian/pdxcrime/pkg/logger"
	"github.com/okian/pdxcrime/pkg/metrics"
)

const dataset = string(model.KindRealEstate)

// Source fetches raw report bytes. The repair step uses it to load the
// neighboring years.
type Source interface {
	Fetch(ctx context.Context, kind model.Kind, year int) ([]byte, error)
}

// Normalizer turns one year's report into records.
type Normalizer struct {
	source  Source
	layouts *layout.Table
	repair  bool
	log     logger.Logger
}

// New returns a Normalizer reading neighboring years from source.
func New(source Source, opts ...Option) *Normalizer {
	n := &Normalizer{
		source: source,
		repair: true,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.log == nil {
		n.log = logger.Named("realestate")
	}
	return n
}

// Normalize parses raw as the report for year. Columns are bound by
// position according to the year's layout, numeric cells are coerced,
// footer rows are dropped and neighborhood names are canonicalized. For
// RepairYear a synthetic RepairNeighborhood row is appended when the report
// lacks one.
func (n *Normalizer) Normalize(ctx context.Context, year int, raw []byte) ([]model.RealEstateRecord, error) {
	return n.normalize(ctx, year, raw, n.repair)
}

func (n *Normalizer) normalize(ctx context.Context, year int, raw []byte, repair bool) ([]model.RealEstateRecord, error) {
	start := time.Now()
	if err := model.CheckYear(year); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: real estate %d", model.ErrEmptySource, year)
	}
	layouts, err := n.table()
	if err != nil {
		return nil, err
	}

	df := dataframe.ReadCSV(bytes.NewReader(raw),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(numeric.NullValues()),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("parse real estate %d: %w", year, df.Err)
	}
	header := df.Names()
	metrics.RecordRowsParsed(dataset, year, df.Nrow())

	if err := checkYear(df, header, year); err != nil {
		return nil, err
	}
	cols, err := layouts.Resolve(year, header)
	if err != nil {
		return nil, err
	}

	out := make([]model.RealEstateRecord, 0, df.Nrow())
	var blank, aggregate, translated int
	for i := 0; i < df.Nrow(); i++ {
		label, _ := cell(df, i, cols[model.FieldNeighborhood])
		upper := neighborhood.Upper(label)
		if upper == "" {
			blank++
			continue
		}
		if neighborhood.IsAggregate(upper) {
			aggregate++
			continue
		}
		name, _ := neighborhood.RealEstate(label)
		if name != upper {
			translated++
		}

		rec := model.RealEstateRecord{Year: int32(year), Neighborhood: name}
		for _, field := range model.RealEstateMetrics {
			v, err := metric(df, i, cols[field])
			if err != nil {
				return nil, fmt.Errorf("real estate %d row %d %s: %w", year, i+1, field, err)
			}
			*rec.Metric(field) = v
		}
		out = append(out, rec)
	}

	metrics.RecordRowsDropped(dataset, "blank_neighborhood", blank)
	metrics.RecordRowsDropped(dataset, "aggregate", aggregate)
	metrics.RecordTranslated(dataset, translated)

	if repair && year == RepairYear {
		if out, err = n.repairGap(ctx, out); err != nil {
			return nil, err
		}
	}

	metrics.RecordNormalizeDuration(dataset, time.Since(start))
	n.log.Debug(ctx, "normalized real estate year",
		logger.Year(year),
		logger.Int("rows", len(out)),
		logger.Int("dropped", blank+aggregate),
		logger.Int("translated", translated))
	return out, nil
}

func (n *Normalizer) table() (*layout.Table, error) {
	if n.layouts != nil {
		return n.layouts, nil
	}
	return layout.Default()
}

// checkYear requires the first column to be a Year column holding year on
// every row.
func checkYear(df dataframe.DataFrame, header []string, year int) error {
	if len(header) == 0 || !layout.Matches(header[0], []string{model.FieldYear}) {
		got := ""
		if len(header) > 0 {
			got = header[0]
		}
		return &model.SchemaError{Year: year, Index: 0, Field: model.FieldYear, Header: got,
			Expected: []string{strings.ToLower(model.FieldYear)}}
	}
	seen := make(map[int]struct{})
	for i := 0; i < df.Nrow(); i++ {
		s, ok := cell(df, i, 0)
		if !ok {
			return fmt.Errorf("real estate %d row %d: %w: missing year", year, i+1, model.ErrMalformedValue)
		}
		y, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("real estate %d row %d: %w: year %q", year, i+1, model.ErrMalformedValue, s)
		}
		seen[y] = struct{}{}
	}
	if _, ok := seen[year]; ok && len(seen) == 1 {
		return nil
	}
	got := make([]int, 0, len(seen))
	for y := range seen {
		got = append(got, y)
	}
	slices.Sort(got)
	return &model.YearMismatchError{Dataset: model.KindRealEstate, Want: year, Got: got}
}

func cell(df dataframe.DataFrame, row, col int) (string, bool) {
	e := df.Elem(row, col)
	if e.IsNA() {
		return "", false
	}
	return strings.TrimSpace(e.String()), true
}

func metric(df dataframe.DataFrame, row, col int) (*float64, error) {
	s, ok := cell(df, row, col)
	if !ok {
		return nil, nil
	}
	return numeric.Parse(s)
}
