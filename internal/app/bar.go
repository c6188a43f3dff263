package service

import (
	"context"
	"path/filepath"

	"github.com/okian/pdxcrime/internal/adapters/sink"
	"github.com/okian/pdxcrime/internal/domain/merge"
	"github.com/okian/pdxcrime/internal/domain/model"
	"github.com/okian/pdxcrime/pkg/logger"
)

// MixCrime reads the per-year Parquet files written by WriteYearly from dir
// for every supported year and concatenates them.
func (s *Service) MixCrime(ctx context.Context, dir string) ([]model.CrimeRecord, error) {
	return mix[model.CrimeRecord](ctx, s, dir, model.KindCrime, model.AllYears())
}

// MixRealEstate reads the per-year Parquet files for years from dir and
// concatenates them in the order given. Years outside the bundled range
// fail with model.ErrUnsupportedYear before any file is read.
func (s *Service) MixRealEstate(ctx context.Context, dir string, years []int) ([]model.RealEstateRecord, error) {
	return mix[model.RealEstateRecord](ctx, s, dir, model.KindRealEstate, years)
}

func mix[T any](ctx context.Context, s *Service, dir string, kind model.Kind, years []int) ([]T, error) {
	if err := merge.Check(years); err != nil {
		return nil, s.fail(ctx, kind, 0, err)
	}
	rows, err := merge.Years(years, func(y int) ([]T, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return sink.ReadParquetFile[T](filepath.Join(dir, YearlyName(y, sink.FormatParquet)))
	})
	if err != nil {
		return nil, s.fail(ctx, kind, 0, err)
	}
	s.logger.Info(ctx, "mixed parquet years",
		logger.Dataset(string(kind)), logger.String("dir", dir), logger.Int("rows", len(rows)))
	return rows, nil
}
