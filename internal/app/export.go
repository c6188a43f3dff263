package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/okian/pdxcrime/internal/adapters/sink"
	"github.com/okian/pdxcrime/internal/domain/model"
)

// CombinedName returns the file name of a multi-year table, e.g.
// pdx_crime_2015_2021.csv.
func CombinedName(kind model.Kind, first, last int, format sink.Format) string {
	base := "pdx_crime"
	if kind == model.KindRealEstate {
		base = "pdx_real_estate"
	}
	return fmt.Sprintf("%s_%d_%d%s", base, first, last, format.Ext())
}

// YearlyName returns the file name of one year's table, e.g. 2020.parquet.
func YearlyName(year int, format sink.Format) string {
	return strconv.Itoa(year) + format.Ext()
}

// WriteYearly writes one file per configured year for kind.
func (s *Service) WriteYearly(ctx context.Context, w *sink.Writer, format sink.Format, kind model.Kind) ([]sink.File, error) {
	var out []sink.File
	for _, year := range s.Years() {
		var (
			f   sink.File
			err error
		)
		t := sink.Table{Name: YearlyName(year, format), Dataset: string(kind), Year: year}
		switch kind {
		case model.KindCrime:
			var rows []model.CrimeRecord
			if rows, err = s.CrimeYear(ctx, year); err == nil {
				t.Header = model.CrimeHeader()
				f, err = sink.Write(ctx, w, format, t, rows)
			}
		case model.KindRealEstate:
			var rows []model.RealEstateRecord
			if rows, err = s.RealEstateYear(ctx, year); err == nil {
				t.Header = model.RealEstateHeader()
				f, err = sink.Write(ctx, w, format, t, rows)
			}
		default:
			return nil, fmt.Errorf("no yearly files for dataset %q", kind)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// WriteCombined writes the merged crime and real-estate tables, one file
// each.
func (s *Service) WriteCombined(ctx context.Context, w *sink.Writer, format sink.Format) ([]sink.File, error) {
	years := s.Years()
	first, last := years[0], years[len(years)-1]

	crimeRows, err := s.Crime(ctx)
	if err != nil {
		return nil, err
	}
	reRows, err := s.RealEstate(ctx)
	if err != nil {
		return nil, err
	}

	cf, err := sink.Write(ctx, w, format, sink.Table{
		Name:    CombinedName(model.KindCrime, first, last, format),
		Dataset: string(model.KindCrime),
		Header:  model.CrimeHeader(),
	}, crimeRows)
	if err != nil {
		return nil, err
	}
	rf, err := sink.Write(ctx, w, format, sink.Table{
		Name:    CombinedName(model.KindRealEstate, first, last, format),
		Dataset: string(model.KindRealEstate),
		Header:  model.RealEstateHeader(),
	}, reRows)
	if err != nil {
		return nil, err
	}
	return []sink.File{cf, rf}, nil
}

// WriteNeighborhoods writes the reference table.
func (s *Service) WriteNeighborhoods(ctx context.Context, w *sink.Writer, format sink.Format) (sink.File, error) {
	rows, err := s.Neighborhoods(ctx)
	if err != nil {
		return sink.File{}, err
	}
	return sink.Write(ctx, w, format, sink.Table{
		Name:    "Neighborhoods" + format.Ext(),
		Dataset: string(model.KindNeighborhoods),
		Header:  model.NeighborhoodHeader(),
	}, rows)
}
