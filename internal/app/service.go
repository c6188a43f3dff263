// Package service runs the normalization pipeline: it fetches yearly source
// files, normalizes them, merges the years and hands tables to the sinks.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/pdxcrime/internal/adapters/mq/worker"
	"github.com/okian/pdxcrime/internal/adapters/repository"
	"github.com/okian/pdxcrime/internal/domain/coverage"
	"github.com/okian/pdxcrime/internal/domain/crime"
	"github.com/okian/pdxcrime/internal/domain/merge"
	"github.com/okian/pdxcrime/internal/domain/model"
	"github.com/okian/pdxcrime/internal/domain/realestate"
	"github.com/okian/pdxcrime/internal/domain/reference"
	"github.com/okian/pdxcrime/pkg/logger"
	"github.com/okian/pdxcrime/pkg/metrics"
)

// Years are normalized one at a time unless WithWorkers raises this.
const defaultWorkers = 1

// Service wires the store, the normalizers and the merger.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	crime      *crime.Normalizer
	realEstate *realestate.Normalizer
	pool       *worker.Pool

	// Configuration
	firstYear int
	lastYear  int
	repair    bool
	workers   int
	runID     string

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore replaces the embedded source files.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithYearRange limits the years processed by Crime, RealEstate and the
// writers. Ranges outside the bundled years are ignored.
func WithYearRange(first, last int) Option {
	return func(s *Service) {
		if model.SupportedYear(first) && model.SupportedYear(last) && first <= last {
			s.firstYear, s.lastYear = first, last
		}
	}
}

// WithRepair turns the 2019 real-estate gap fill on or off.
func WithRepair(enabled bool) Option {
	return func(s *Service) {
		s.repair = enabled
	}
}

// WithWorkers sets how many years are normalized concurrently. The merged
// tables stay in year order whatever the count.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithRunID sets the run identifier carried in logs and manifests.
func WithRunID(id string) Option {
	return func(s *Service) {
		if id != "" {
			s.runID = id
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		firstYear: model.FirstYear,
		lastYear:  model.LastYear,
		repair:    true,
		workers:   defaultWorkers,
		runID:     uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Default()
	}
	s.logger = s.logger.With(logger.String("run_id", s.runID))
	if s.store == nil {
		s.store = repository.NewEmbeddedStore(repository.WithLogger(s.logger.Named("repository")))
	}
	s.crime = crime.New(crime.WithLogger(s.logger.Named("crime")))
	s.realEstate = realestate.New(s.store,
		realestate.WithLogger(s.logger.Named("realestate")),
		realestate.WithRepair(s.repair),
	)
	s.pool = worker.NewPool(worker.WithSize(s.workers), worker.WithLogger(s.logger.Named("worker")))
	return s
}

// RunID returns the run identifier.
func (s *Service) RunID() string { return s.runID }

// Years returns the configured year range, ascending.
func (s *Service) Years() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Years(s.firstYear, s.lastYear)
}

// GetStats returns the service configuration for diagnostics.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{
		"run_id":     s.runID,
		"first_year": s.firstYear,
		"last_year":  s.lastYear,
		"repair":     s.repair,
		"workers":    s.workers,
	}
}

// CrimeYear fetches and normalizes one crime year.
func (s *Service) CrimeYear(ctx context.Context, year int) ([]model.CrimeRecord, error) {
	raw, err := s.store.Fetch(ctx, model.KindCrime, year)
	if err != nil {
		return nil, s.fail(ctx, model.KindCrime, year, err)
	}
	rows, err := s.crime.Normalize(ctx, year, raw)
	if err != nil {
		return nil, s.fail(ctx, model.KindCrime, year, err)
	}
	return rows, nil
}

// RealEstateYear fetches and normalizes one real-estate year.
func (s *Service) RealEstateYear(ctx context.Context, year int) ([]model.RealEstateRecord, error) {
	raw, err := s.store.Fetch(ctx, model.KindRealEstate, year)
	if err != nil {
		return nil, s.fail(ctx, model.KindRealEstate, year, err)
	}
	rows, err := s.realEstate.Normalize(ctx, year, raw)
	if err != nil {
		return nil, s.fail(ctx, model.KindRealEstate, year, err)
	}
	return rows, nil
}

// Crime normalizes every configured year on the worker pool and
// concatenates them in year order.
func (s *Service) Crime(ctx context.Context) ([]model.CrimeRecord, error) {
	tables, err := worker.Run[model.CrimeRecord](ctx, s.pool, s.Years(), s.CrimeYear)
	if err != nil {
		return nil, err
	}
	rows := merge.Concat(tables...)
	s.logger.Info(ctx, "merged crime years", logger.Int("rows", len(rows)))
	return rows, nil
}

// RealEstate normalizes every configured year and concatenates them in year
// order.
func (s *Service) RealEstate(ctx context.Context) ([]model.RealEstateRecord, error) {
	tables, err := worker.Run[model.RealEstateRecord](ctx, s.pool, s.Years(), s.RealEstateYear)
	if err != nil {
		return nil, err
	}
	rows := merge.Concat(tables...)
	s.logger.Info(ctx, "merged real estate years", logger.Int("rows", len(rows)))
	return rows, nil
}

// Neighborhoods loads the official neighborhood reference.
func (s *Service) Neighborhoods(ctx context.Context) ([]model.Neighborhood, error) {
	raw, err := s.store.Fetch(ctx, model.KindNeighborhoods, 0)
	if err != nil {
		return nil, s.fail(ctx, model.KindNeighborhoods, 0, err)
	}
	rows, err := reference.Load(raw)
	if err != nil {
		return nil, s.fail(ctx, model.KindNeighborhoods, 0, err)
	}
	return rows, nil
}

// Coverage compares the neighborhood keys of both merged tables per year.
func (s *Service) Coverage(ctx context.Context) (coverage.Report, error) {
	c, err := s.Crime(ctx)
	if err != nil {
		return coverage.Report{}, err
	}
	r, err := s.RealEstate(ctx)
	if err != nil {
		return coverage.Report{}, err
	}
	report := coverage.Compute(c, r)
	if !report.Acceptable() {
		s.logger.Warn(ctx, "unexpected neighborhood join gaps",
			logger.Int("years", len(report.Violations())))
	}
	return report, nil
}

// fail logs and counts a failure, then returns it with the dataset and year
// attached.
func (s *Service) fail(ctx context.Context, kind model.Kind, year int, err error) error {
	metrics.RecordError(string(kind), ErrorKind(err))
	s.logger.Error(ctx, "pipeline step failed",
		logger.Dataset(string(kind)), logger.Year(year), logger.Error(err))
	if year == 0 {
		return fmt.Errorf("%s: %w", kind, err)
	}
	return fmt.Errorf("%s %d: %w", kind, year, err)
}

// ErrorKind names the error class of err for metrics labels.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, model.ErrRepairSource):
		return "repair_source"
	case errors.Is(err, model.ErrUnsupportedYear):
		return "unsupported_year"
	case errors.Is(err, model.ErrEmptySource):
		return "empty_source"
	case errors.Is(err, model.ErrYearMismatch):
		return "year_mismatch"
	case errors.Is(err, model.ErrSchemaAssumptionViolated):
		return "schema_violation"
	case errors.Is(err, model.ErrMalformedValue):
		return "malformed_value"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}
	return "other"
}
