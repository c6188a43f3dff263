package config_test

import (
	"errors"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/pdxcrime/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.OutputDir, convey.ShouldEqual, "out")
			convey.So(cfg.Format, convey.ShouldEqual, "parquet")
			convey.So(cfg.Compression, convey.ShouldEqual, "snappy")
			convey.So(cfg.DataDir, convey.ShouldBeEmpty)
			convey.So(cfg.Workers, convey.ShouldEqual, 1)
			convey.So(cfg.Repair, convey.ShouldBeTrue)
			convey.So(cfg.MetricsEnabled, convey.ShouldBeTrue)
			convey.So(cfg.Years(), convey.ShouldResemble, []int{2015, 2016, 2017, 2018, 2019, 2020, 2021})
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one bad field each", t, func() {
		cases := map[string]func(*config.Config){
			"unknown level":     func(c *config.Config) { c.LogLevel = "loud" },
			"empty output":      func(c *config.Config) { c.OutputDir = " " },
			"unknown format":    func(c *config.Config) { c.Format = "xlsx" },
			"unknown codec":     func(c *config.Config) { c.Compression = "lzma" },
			"year before range": func(c *config.Config) { c.FirstYear = 2014 },
			"year after range":  func(c *config.Config) { c.LastYear = 2022 },
			"reversed years":    func(c *config.Config) { c.FirstYear, c.LastYear = 2020, 2016 },
			"no workers":        func(c *config.Config) { c.Workers = 0 },
		}

		for name, mutate := range cases {
			convey.Convey("Then "+name+" is invalid", func() {
				cfg := config.New()
				mutate(cfg)
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
