package service_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	service "github.com/okian/pdxcrime/internal/app"
	"github.com/okian/pdxcrime/internal/adapters/sink"
	"github.com/okian/pdxcrime/internal/domain/merge"
	"github.com/okian/pdxcrime/internal/domain/model"
	"github.com/okian/pdxcrime/internal/domain/neighborhood"
	"github.com/okian/pdxcrime/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service on the bundled files", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithLogger(logger.Nop()))

		Convey("When merging every crime year", func() {
			rows, err := svc.Crime(ctx)
			So(err, ShouldBeNil)

			Convey("Then each year is present, non-empty and in order", func() {
				byYear := merge.Split(rows)
				for _, year := range model.AllYears() {
					So(byYear[year], ShouldNotBeEmpty)
				}
				So(merge.YearsOf(rows), ShouldResemble, model.AllYears())
				So(rows[0].Year, ShouldEqual, 2015)
				So(rows[len(rows)-1].Year, ShouldEqual, 2021)
			})
		})

		Convey("When the same merge runs on several workers", func() {
			sequential, err := svc.RealEstate(ctx)
			So(err, ShouldBeNil)
			concurrent, err := service.New(service.WithLogger(logger.Nop()), service.WithWorkers(4)).RealEstate(ctx)
			So(err, ShouldBeNil)

			Convey("Then the table matches the one-year-at-a-time run", func() {
				So(concurrent, ShouldResemble, sequential)
			})
		})

		Convey("When merging every real estate year", func() {
			rows, err := svc.RealEstate(ctx)
			So(err, ShouldBeNil)

			Convey("Then the always-positive fields are positive on every row", func() {
				for _, r := range rows {
					for _, field := range model.PositiveMetrics {
						if v := r.Get(field); v != nil {
							So(*v, ShouldBeGreaterThan, 0)
						}
					}
				}
			})

			Convey("Then 2019 holds exactly one WOODSTOCK row", func() {
				n := 0
				for _, r := range merge.Split(rows)[2019] {
					if r.Neighborhood == neighborhood.Woodstock {
						n++
					}
				}
				So(n, ShouldEqual, 1)
			})
		})

		Convey("When computing join coverage", func() {
			report, err := svc.Coverage(ctx)
			So(err, ShouldBeNil)

			Convey("Then every year only differs by the known one-sided names", func() {
				So(report.Years, ShouldHaveLength, 7)
				for _, y := range report.Years {
					So(y.Acceptable(), ShouldBeTrue)
				}
				So(report.Years[0].CrimeOnly, ShouldResemble, []string{neighborhood.NorthwestIndustrial})
				So(report.Years[0].RealEstateOnly, ShouldResemble, []string{neighborhood.Dunthorpe})
				So(report.Years[3].RealEstateOnly, ShouldResemble, []string{neighborhood.RiverdaleDunthorpe})
			})
		})
	})
}

func TestServiceWriteAndMix(t *testing.T) {
	Convey("Given a writer in a fresh directory", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithLogger(logger.Nop()))
		root := t.TempDir()

		Convey("When writing per-year crime parquet files", func() {
			dir := filepath.Join(root, "crime")
			w, err := sink.NewWriter(dir, sink.WithLogger(logger.Nop()))
			So(err, ShouldBeNil)
			files, err := svc.WriteYearly(ctx, w, sink.FormatParquet, model.KindCrime)
			So(err, ShouldBeNil)
			So(w.Close(), ShouldBeNil)

			Convey("Then one file per year exists", func() {
				So(files, ShouldHaveLength, 7)
				for _, year := range model.AllYears() {
					_, err := os.Stat(filepath.Join(dir, fmt.Sprintf("%d.parquet", year)))
					So(err, ShouldBeNil)
				}
				_, err := os.Stat(filepath.Join(dir, sink.ManifestName))
				So(err, ShouldBeNil)
			})

			Convey("Then mixing them back equals the merged table", func() {
				mixed, err := svc.MixCrime(ctx, dir)
				So(err, ShouldBeNil)
				merged, err := svc.Crime(ctx)
				So(err, ShouldBeNil)
				So(mixed, ShouldHaveLength, len(merged))
				for i := range merged {
					So(mixed[i].CaseNumber, ShouldEqual, merged[i].CaseNumber)
					So(mixed[i].ReportDate.Equal(merged[i].ReportDate), ShouldBeTrue)
					So(mixed[i].Neighborhood, ShouldEqual, merged[i].Neighborhood)
				}
			})
		})

		Convey("When writing per-year real estate parquet files", func() {
			dir := filepath.Join(root, "real_estate")
			w, err := sink.NewWriter(dir, sink.WithLogger(logger.Nop()))
			So(err, ShouldBeNil)
			_, err = svc.WriteYearly(ctx, w, sink.FormatParquet, model.KindRealEstate)
			So(err, ShouldBeNil)

			Convey("Then a subset of years can be mixed back", func() {
				rows, err := svc.MixRealEstate(ctx, dir, []int{2019, 2020})
				So(err, ShouldBeNil)
				So(merge.YearsOf(rows), ShouldResemble, []int{2019, 2020})
				So(rows[0].Year, ShouldEqual, 2019)
			})

			Convey("Then years outside the range are rejected", func() {
				_, err := svc.MixRealEstate(ctx, dir, []int{2015, 2022})
				So(errors.Is(err, model.ErrUnsupportedYear), ShouldBeTrue)
			})

			Convey("Then a missing year is an empty source", func() {
				So(os.Remove(filepath.Join(dir, "2016.parquet")), ShouldBeNil)
				_, err := svc.MixRealEstate(ctx, dir, []int{2015, 2016})
				So(errors.Is(err, model.ErrEmptySource), ShouldBeTrue)
			})
		})

		Convey("When writing the combined CSV files", func() {
			dir := filepath.Join(root, "csv")
			w, err := sink.NewWriter(dir, sink.WithLogger(logger.Nop()))
			So(err, ShouldBeNil)
			files, err := svc.WriteCombined(ctx, w, sink.FormatCSV)
			So(err, ShouldBeNil)

			Convey("Then both datasets land in range-named files", func() {
				So(files, ShouldHaveLength, 2)
				So(files[0].Name, ShouldEqual, "pdx_crime_2015_2021.csv")
				So(files[1].Name, ShouldEqual, "pdx_real_estate_2015_2021.csv")
				for _, f := range files {
					So(f.Rows, ShouldBeGreaterThan, 0)
					So(f.SHA256, ShouldHaveLength, 64)
				}
			})
		})

		Convey("When writing the neighborhood reference", func() {
			w, err := sink.NewWriter(filepath.Join(root, "ref"), sink.WithLogger(logger.Nop()))
			So(err, ShouldBeNil)
			f, err := svc.WriteNeighborhoods(ctx, w, sink.FormatParquet)

			Convey("Then it is written like any other table", func() {
				So(err, ShouldBeNil)
				So(f.Name, ShouldEqual, "Neighborhoods.parquet")
				back, err := sink.ReadParquetFile[model.Neighborhood](filepath.Join(root, "ref", f.Name))
				So(err, ShouldBeNil)
				So(back, ShouldHaveLength, f.Rows)
			})
		})
	})
}
