package repository

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/okian/pdxcrime/internal/domain/model"
	"github.com/okian/pdxcrime/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEmbeddedStore(t *testing.T) {
	Convey("Given the embedded store", t, func() {
		ctx := context.Background()
		store := NewEmbeddedStore(WithLogger(logger.Nop()))

		Convey("Every supported year has a crime and a real estate file", func() {
			for _, year := range model.AllYears() {
				crime, err := store.Fetch(ctx, model.KindCrime, year)
				So(err, ShouldBeNil)
				So(len(crime), ShouldBeGreaterThan, 0)

				re, err := store.Fetch(ctx, model.KindRealEstate, year)
				So(err, ShouldBeNil)
				So(len(re), ShouldBeGreaterThan, 0)
			}
		})

		Convey("The neighborhood reference ignores the year", func() {
			data, err := store.Fetch(ctx, model.KindNeighborhoods, 0)
			So(err, ShouldBeNil)
			So(string(data), ShouldStartWith, "OBJECTID,NAME")
		})

		Convey("Years outside the bundled range are rejected", func() {
			for _, year := range []int{2014, 2022} {
				_, err := store.Fetch(ctx, model.KindCrime, year)
				So(errors.Is(err, model.ErrUnsupportedYear), ShouldBeTrue)
				_, err = store.Fetch(ctx, model.KindRealEstate, year)
				So(errors.Is(err, model.ErrUnsupportedYear), ShouldBeTrue)
			}
		})

		Convey("Unknown datasets are rejected", func() {
			_, err := store.Fetch(ctx, model.Kind("weather"), 2015)
			So(errors.Is(err, ErrUnknownDataset), ShouldBeTrue)
		})

		Convey("A cancelled context stops the fetch", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := store.Fetch(cctx, model.KindCrime, 2015)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestFSStore(t *testing.T) {
	Convey("Given a store over a partial tree", t, func() {
		ctx := context.Background()
		store := NewFSStore(fstest.MapFS{
			"crime/2016.csv": &fstest.MapFile{Data: []byte{}},
		}, WithLogger(logger.Nop()))

		Convey("A missing file is an empty source", func() {
			_, err := store.Fetch(ctx, model.KindCrime, 2015)
			So(errors.Is(err, model.ErrEmptySource), ShouldBeTrue)
		})

		Convey("A zero-length file is an empty source", func() {
			_, err := store.Fetch(ctx, model.KindCrime, 2016)
			So(errors.Is(err, model.ErrEmptySource), ShouldBeTrue)
		})
	})

	Convey("Given a directory store", t, func() {
		store := NewDirStore("assets", WithLogger(logger.Nop()))

		Convey("It reads the same layout from disk", func() {
			data, err := store.Fetch(context.Background(), model.KindRealEstate, 2021)
			So(err, ShouldBeNil)
			So(string(data), ShouldStartWith, "Year,Neighborhood")
		})
	})
}

func TestPath(t *testing.T) {
	Convey("Paths follow the dataset layout", t, func() {
		p, err := Path(model.KindCrime, 2019)
		So(err, ShouldBeNil)
		So(p, ShouldEqual, "crime/2019.csv")

		p, err = Path(model.KindRealEstate, 2019)
		So(err, ShouldBeNil)
		So(p, ShouldEqual, "real_estate/2019.csv")

		p, err = Path(model.KindNeighborhoods, 0)
		So(err, ShouldBeNil)
		So(p, ShouldEqual, "neighborhoods/Neighborhoods.csv")
	})
}

func TestNewFSStoreWithoutLogger(t *testing.T) {
	Convey("Given a store built with no logger option", t, func() {
		var store *FSStore
		So(func() {
			store = NewFSStore(fstest.MapFS{
				"crime/2018.csv": &fstest.MapFile{Data: []byte("Address\n")},
			})
		}, ShouldNotPanic)

		Convey("Fetch reads the file", func() {
			data, err := store.Fetch(context.Background(), model.KindCrime, 2018)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "Address\n")
		})
	})
}
