package crime

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/okian/pdxcrime/internal/adapters/repository"
	"github.com/okian/pdxcrime/internal/domain/model"
	"github.com/okian/pdxcrime/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const header2020 = "Address,CaseNumber,CrimeAgainst,Neighborhood,OccurDate,OccurTime,OffenseCategory,OffenseType,OpenDataLat,OpenDataLon,ReportDate,OffenseCount\n"

func fetch(t *testing.T, year int) []byte {
	t.Helper()
	raw, err := repository.NewEmbeddedStore(repository.WithLogger(logger.Nop())).
		Fetch(context.Background(), model.KindCrime, year)
	if err != nil {
		t.Fatalf("fetch crime %d: %v", year, err)
	}
	return raw
}

func TestNormalizeBundledYears(t *testing.T) {
	Convey("Given every bundled crime year", t, func() {
		n := New(WithLogger(logger.Nop()))

		for _, year := range model.AllYears() {
			raw := fetch(t, year)

			Convey(fmt.Sprintf("Normalizing %d yields rows that all report in that year", year), func() {
				rows, err := n.Normalize(context.Background(), year, raw)
				So(err, ShouldBeNil)
				So(rows, ShouldNotBeEmpty)
				for _, r := range rows {
					So(r.Year, ShouldEqual, year)
					So(r.ReportDate.Year(), ShouldEqual, year)
					So(r.Neighborhood, ShouldNotBeBlank)
					So(r.Neighborhood, ShouldEqual, strings.ToUpper(r.Neighborhood))
				}
			})
		}
	})
}

func TestNormalizeTranslatesNames(t *testing.T) {
	Convey("Given the 2015 crime file", t, func() {
		rows, err := New(WithLogger(logger.Nop())).Normalize(context.Background(), 2015, fetch(t, 2015))
		So(err, ShouldBeNil)

		names := make(map[string]bool)
		for _, r := range rows {
			names[r.Neighborhood] = true
		}

		Convey("Crime-side variants are rewritten to the canonical names", func() {
			for _, want := range []string{
				"ST. JOHNS", "LLOYD DISTRICT", "MT. TABOR", "NORTHWEST DISTRICT",
				"ARDENWALD/JOHNSON CREEK", "MT. SCOTT-ARLETA", "PEARL DISTRICT",
				"BRENTWOOD/DARLINGTON", "BUCKMAN", "NORTHWEST INDUSTRIAL",
			} {
				So(names[want], ShouldBeTrue)
			}
			for _, stale := range []string{"ST JOHNS", "LLOYD", "BUCKMAN WEST", "BUCKMAN EAST", "PEARL"} {
				So(names[stale], ShouldBeFalse)
			}
		})

		Convey("The blank neighborhood row is dropped", func() {
			So(len(rows), ShouldEqual, 48)
		})

		Convey("An occurrence from the previous year still counts toward the report year", func() {
			first := rows[0]
			So(first.OccurDate, ShouldNotBeNil)
			So(first.OccurDate.Year(), ShouldEqual, 2014)
			So(first.Year, ShouldEqual, 2015)
		})
	})
}

func TestNormalizeFailures(t *testing.T) {
	Convey("Given a crime normalizer", t, func() {
		ctx := context.Background()
		n := New(WithLogger(logger.Nop()))

		Convey("A row reported in another year is a year mismatch", func() {
			raw := header2020 +
				"1 MAIN ST,1,Property,Kenton,1/1/2020,10,Burglary,Burglary,45.5,-122.6,1/2/2020,1\n" +
				"2 MAIN ST,2,Property,Kenton,1/1/2021,10,Burglary,Burglary,45.5,-122.6,1/2/2021,1\n"
			_, err := n.Normalize(ctx, 2020, []byte(raw))
			So(errors.Is(err, model.ErrYearMismatch), ShouldBeTrue)

			var mismatch *model.YearMismatchError
			So(errors.As(err, &mismatch), ShouldBeTrue)
			So(mismatch.Got, ShouldResemble, []int{2020, 2021})
		})

		Convey("A file from a different year is a year mismatch", func() {
			_, err := n.Normalize(ctx, 2019, fetch(t, 2020))
			So(errors.Is(err, model.ErrYearMismatch), ShouldBeTrue)
		})

		Convey("A missing output column is a schema violation", func() {
			raw := "Address,CaseNumber\n1 MAIN ST,1\n"
			_, err := n.Normalize(ctx, 2020, []byte(raw))
			So(errors.Is(err, model.ErrSchemaAssumptionViolated), ShouldBeTrue)
		})

		Convey("An unreadable date is a malformed value", func() {
			raw := header2020 + "1 MAIN ST,1,Property,Kenton,1/1/2020,10,Burglary,Burglary,45.5,-122.6,soon,1\n"
			_, err := n.Normalize(ctx, 2020, []byte(raw))
			So(errors.Is(err, model.ErrMalformedValue), ShouldBeTrue)
		})

		Convey("Unsupported years and empty input are rejected", func() {
			_, err := n.Normalize(ctx, 2022, []byte(header2020))
			So(errors.Is(err, model.ErrUnsupportedYear), ShouldBeTrue)
			_, err = n.Normalize(ctx, 2020, nil)
			So(errors.Is(err, model.ErrEmptySource), ShouldBeTrue)
		})

		Convey("Blank coordinates stay null", func() {
			raw := header2020 + "1 MAIN ST,1,Property,Kenton,1/1/2020,10,Burglary,Burglary,,,1/2/2020,1\n"
			rows, err := n.Normalize(ctx, 2020, []byte(raw))
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 1)
			So(rows[0].OpenDataLat, ShouldBeNil)
			So(rows[0].OpenDataLon, ShouldBeNil)
			So(rows[0].Neighborhood, ShouldEqual, "KENTON")
		})

		Convey("A blank occurrence date keeps the row with a null date", func() {
			raw := header2020 +
				"1 MAIN ST,1,Property,Kenton,1/1/2020,10,Burglary,Burglary,45.5,-122.6,1/2/2020,1\n" +
				"2 MAIN ST,2,Property,Kenton,,10,Burglary,Burglary,45.5,-122.6,1/3/2020,1\n"
			rows, err := n.Normalize(ctx, 2020, []byte(raw))
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 2)
			So(rows[0].OccurDate, ShouldNotBeNil)
			So(rows[1].OccurDate, ShouldBeNil)
			So(rows[1].Year, ShouldEqual, 2020)
			So(rows[1].Values()[4], ShouldEqual, "")
		})

		Convey("Blank time and count cells stay null instead of zero", func() {
			raw := header2020 +
				"1 MAIN ST,1,Property,Kenton,1/1/2020,0,Burglary,Burglary,45.5,-122.6,1/2/2020,2\n" +
				"2 MAIN ST,2,Property,Kenton,1/1/2020,,Burglary,Burglary,45.5,-122.6,1/2/2020,\n"
			rows, err := n.Normalize(ctx, 2020, []byte(raw))
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 2)

			So(rows[0].OccurTime, ShouldNotBeNil)
			So(*rows[0].OccurTime, ShouldEqual, 0)
			So(*rows[0].OffenseCount, ShouldEqual, 2)

			So(rows[1].OccurTime, ShouldBeNil)
			So(rows[1].OffenseCount, ShouldBeNil)
			values := rows[1].Values()
			So(values[5], ShouldEqual, "")
			So(values[11], ShouldEqual, "")
		})

		Convey("NA markers in optional cells read as null", func() {
			raw := header2020 + "1 MAIN ST,1,Property,Kenton,N/A,NA,Burglary,Burglary,null,-122.6,1/2/2020,#N/A\n"
			rows, err := n.Normalize(ctx, 2020, []byte(raw))
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 1)
			So(rows[0].OccurDate, ShouldBeNil)
			So(rows[0].OccurTime, ShouldBeNil)
			So(rows[0].OpenDataLat, ShouldBeNil)
			So(rows[0].OffenseCount, ShouldBeNil)
		})

		Convey("A blank report date is still a malformed value", func() {
			raw := header2020 + "1 MAIN ST,1,Property,Kenton,1/1/2020,10,Burglary,Burglary,45.5,-122.6,,1\n"
			_, err := n.Normalize(ctx, 2020, []byte(raw))
			So(errors.Is(err, model.ErrMalformedValue), ShouldBeTrue)
		})
	})
}

func TestExpectedHeader(t *testing.T) {
	Convey("The bundled files start with the expected header", t, func() {
		for _, year := range model.AllYears() {
			line, err := bufio.NewReader(bytes.NewReader(fetch(t, year))).ReadString('\n')
			So(err, ShouldBeNil)
			So(strings.TrimRight(line, "\r\n"), ShouldEqual, ExpectedHeader(year))
		}
	})

	Convey("Geometry columns are only expected before 2020", t, func() {
		So(ExpectedHeader(2019), ShouldContainSubstring, "OpenDataX,OpenDataY,ReportDate")
		So(ExpectedHeader(2020), ShouldNotContainSubstring, "OpenDataX")
		So(strings.Count(ExpectedHeader(2015), ","), ShouldEqual, 13)
		So(strings.Count(ExpectedHeader(2021), ","), ShouldEqual, 11)
	})
}

func TestNewWithoutLogger(t *testing.T) {
	Convey("Given a normalizer built with no logger option", t, func() {
		var n *Normalizer
		So(func() { n = New() }, ShouldNotPanic)

		Convey("It normalizes a bundled year", func() {
			rows, err := n.Normalize(context.Background(), 2016, fetch(t, 2016))
			So(err, ShouldBeNil)
			So(rows, ShouldNotBeEmpty)
		})
	})
}
