package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/okian/pdxcrime/internal/adapters/repository"
	app "github.com/okian/pdxcrime/internal/app"
	"github.com/okian/pdxcrime/internal/config"
	"github.com/okian/pdxcrime/pkg/logger"
	"github.com/okian/pdxcrime/pkg/metrics"
)

// Version information populated at build time.
var (
	version = "dev"
	commit  = "unknown"
)

// envFile is read before configuration so PDXCRIME_ variables can live
// next to the binary.
const envFile = ".env"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	r := newRunner()
	err := r.root().ExecuteContext(ctx)
	if ferr := r.flushMetrics(); ferr != nil && err == nil {
		err = ferr
	}
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// runner carries the state shared by every subcommand.
type runner struct {
	cfg      *config.Config
	svc      *app.Service
	log      logger.Logger
	logLevel string
}

func newRunner() *runner {
	return &runner{}
}

func (r *runner) root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pdxcrime",
		Short: "Normalize Portland crime and real-estate tables",
		Long: `pdxcrime loads the bundled Portland crime and real-estate CSV files,
normalizes neighborhood names and numeric cells, repairs the 2019 WOODSTOCK
gap and writes per-year or combined tables as CSV or Parquet.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: r.setup,
	}
	cmd.PersistentFlags().StringVar(&r.logLevel, "log-level", "", "override the configured log level")

	cmd.AddCommand(
		r.mixParquetCmd(),
		r.mixCSVCmd(),
		r.barCmd(),
		r.coverageCmd(),
		r.neighborhoodsCmd(),
		versionCmd(),
	)
	return cmd
}

// setup loads .env, configuration and the logger, then builds the service.
func (r *runner) setup(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load(envFile)

	ctx := cmd.Context()
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if r.logLevel != "" {
		cfg.LogLevel = r.logLevel
	}

	if err := logger.Init(logger.WithJSON(cfg.LogJSON), logger.WithWriter(cmd.ErrOrStderr())); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}
	r.cfg = cfg
	r.log = logger.Named("cmd")

	opts := []app.Option{
		app.WithYearRange(cfg.FirstYear, cfg.LastYear),
		app.WithWorkers(cfg.Workers),
		app.WithRepair(cfg.Repair),
		app.WithLogger(logger.Named("service")),
	}
	if cfg.DataDir != "" {
		opts = append(opts, app.WithStore(repository.NewDirStore(cfg.DataDir,
			repository.WithLogger(logger.Named("repository")))))
	}
	r.svc = app.New(opts...)
	metrics.Configure(
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
		metrics.WithConstLabels(map[string]string{"run_id": r.svc.RunID()}),
	)

	r.log.Debug(ctx, "configuration loaded",
		logger.String("data_dir", cfg.DataDir),
		logger.String("output_dir", cfg.OutputDir),
		logger.Any("stats", r.svc.GetStats()))
	return nil
}

func (r *runner) flushMetrics() error {
	if r.cfg == nil || r.cfg.MetricsFile == "" {
		return nil
	}
	return metrics.WriteTextfile(r.cfg.MetricsFile)
}
