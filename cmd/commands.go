package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/okian/pdxcrime/internal/adapters/render"
	"github.com/okian/pdxcrime/internal/adapters/sink"
	"github.com/okian/pdxcrime/internal/domain/merge"
	"github.com/okian/pdxcrime/internal/domain/model"
	"github.com/okian/pdxcrime/pkg/logger"
)

// ErrCoverage is returned by the coverage command when a year has a join
// gap outside the known mismatches.
var ErrCoverage = errors.New("unexpected neighborhood coverage gaps")

// ErrTarget is returned for --target values other than crime or real-estate.
var ErrTarget = errors.New("target must be crime or real-estate")

func yearlyKind(target string) (model.Kind, error) {
	kind, err := model.ParseKind(target)
	if err != nil || !kind.Yearly() {
		return "", fmt.Errorf("%w: %q", ErrTarget, target)
	}
	return kind, nil
}

// writer opens a sink writer on dir using the configured codec and a
// manifest tagged with the service run id.
func (r *runner) writer(dir string) (*sink.Writer, error) {
	if dir == "" {
		dir = r.cfg.OutputDir
	}
	codec, err := sink.Codec(r.cfg.Compression)
	if err != nil {
		return nil, err
	}
	return sink.NewWriter(dir,
		sink.WithCodec(codec),
		sink.WithManifest(sink.NewManifest(r.svc.RunID(), version)),
		sink.WithLogger(logger.Named("sink")),
	)
}

func (r *runner) mixParquetCmd() *cobra.Command {
	var target, out string
	cmd := &cobra.Command{
		Use:   "mix-parquet",
		Short: "Write one Parquet file per year",
		Long: `Normalize every configured year of the target dataset and write
{year}.parquet files plus a manifest into --out. The parent of --out must exist.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := yearlyKind(target)
			if err != nil {
				return err
			}
			w, err := r.writer(out)
			if err != nil {
				return err
			}
			files, err := r.svc.WriteYearly(cmd.Context(), w, sink.FormatParquet, kind)
			if err != nil {
				return err
			}
			if err := w.Close(); err != nil {
				return err
			}
			return printFiles(cmd.OutOrStdout(), files)
		},
	}
	cmd.Flags().StringVar(&target, "target", string(model.KindCrime), "dataset: crime or real-estate")
	cmd.Flags().StringVar(&out, "out", "", "output directory (defaults to output_dir)")
	return cmd
}

func (r *runner) mixCSVCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "mix-csv",
		Short: "Write the merged crime and real-estate tables as CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := r.writer(out)
			if err != nil {
				return err
			}
			files, err := r.svc.WriteCombined(cmd.Context(), w, sink.FormatCSV)
			if err != nil {
				return err
			}
			if err := w.Close(); err != nil {
				return err
			}
			return printFiles(cmd.OutOrStdout(), files)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output directory (defaults to output_dir)")
	return cmd
}

func (r *runner) barCmd() *cobra.Command {
	var (
		target, in string
		years      []int
	)
	cmd := &cobra.Command{
		Use:   "bar",
		Short: "Concatenate per-year Parquet files and print row counts",
		Long: `Read the {year}.parquet files written by mix-parquet from --in and
print the number of rows per year. Crime always reads every supported year;
real-estate reads --years, or the configured range when unset.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := yearlyKind(target)
			if err != nil {
				return err
			}
			if in == "" {
				in = r.cfg.OutputDir
			}
			ctx := cmd.Context()
			var counts map[int]int
			switch kind {
			case model.KindCrime:
				rows, err := r.svc.MixCrime(ctx, in)
				if err != nil {
					return err
				}
				years = model.AllYears()
				counts = countYears(rows)
			default:
				if len(years) == 0 {
					years = r.svc.Years()
				}
				rows, err := r.svc.MixRealEstate(ctx, in, years)
				if err != nil {
					return err
				}
				counts = countYears(rows)
			}
			return render.Counts(cmd.OutOrStdout(), years, []string{string(kind)},
				map[string]map[int]int{string(kind): counts})
		},
	}
	cmd.Flags().StringVar(&target, "target", string(model.KindCrime), "dataset: crime or real-estate")
	cmd.Flags().StringVar(&in, "in", "", "directory holding {year}.parquet (defaults to output_dir)")
	cmd.Flags().IntSliceVar(&years, "years", nil, "real-estate years to concatenate")
	return cmd
}

func (r *runner) coverageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coverage",
		Short: "Compare crime and real-estate neighborhood names per year",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := r.svc.Coverage(cmd.Context())
			if err != nil {
				return err
			}
			if err := render.Coverage(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if !report.Acceptable() {
				return ErrCoverage
			}
			return nil
		},
	}
}

func (r *runner) neighborhoodsCmd() *cobra.Command {
	var out, format string
	cmd := &cobra.Command{
		Use:   "neighborhoods",
		Short: "Print or write the neighborhood reference table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if out == "" {
				rows, err := r.svc.Neighborhoods(ctx)
				if err != nil {
					return err
				}
				table := make([][]string, 0, len(rows))
				for _, n := range rows {
					table = append(table, []string{n.Name, n.Coalition, strconv.FormatInt(n.ID, 10)})
				}
				return render.Table(cmd.OutOrStdout(), []string{"Neighborhood", "Coalition", "ID"}, table)
			}

			if format == "" {
				format = r.cfg.Format
			}
			f, err := sink.ParseFormat(format)
			if err != nil {
				return err
			}
			w, err := r.writer(out)
			if err != nil {
				return err
			}
			file, err := r.svc.WriteNeighborhoods(ctx, w, f)
			if err != nil {
				return err
			}
			if err := w.Close(); err != nil {
				return err
			}
			return printFiles(cmd.OutOrStdout(), []sink.File{file})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "write the table into this directory instead of printing it")
	cmd.Flags().StringVar(&format, "format", "", "csv or parquet (defaults to format)")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		// version needs no configuration
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "pdxcrime %s (%s)\n", version, commit)
			return err
		},
	}
}

func countYears[T merge.Record](rows []T) map[int]int {
	out := make(map[int]int)
	for _, r := range rows {
		out[r.RecordYear()]++
	}
	return out
}

func printFiles(w io.Writer, files []sink.File) error {
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		rows = append(rows, []string{
			f.Name,
			f.Dataset,
			strconv.Itoa(f.Rows),
			strconv.FormatInt(f.Bytes, 10),
		})
	}
	return render.Table(w, []string{"File", "Dataset", "Rows", "Bytes"}, rows)
}
