// Package coverage compares the neighborhood keys of the crime and
// real-estate tables year by year.
package coverage

import (
	"slices"

	"github.com/okian/pdxcrime/internal/domain/model"
	"github.com/okian/pdxcrime/internal/domain/neighborhood"
)

// Row is anything carrying a year and a canonical neighborhood.
type Row interface {
	RecordYear() int
	NeighborhoodName() string
}

// Year is the join gap for one year. Both lists are sorted.
type Year struct {
	Year           int
	CrimeOnly      []string
	RealEstateOnly []string
}

// Report is the gap for every year present in either table, ascending.
type Report struct {
	Years []Year
}

// Known one-sided names: the crime data has an industrial district the
// reports never cover, and the reports name one unincorporated area two ways.
var (
	allowedCrimeOnly      = [][]string{{neighborhood.NorthwestIndustrial}}
	allowedRealEstateOnly = [][]string{{neighborhood.Dunthorpe}, {neighborhood.RiverdaleDunthorpe}}
)

// Compute builds the report.
func Compute(crime []model.CrimeRecord, realEstate []model.RealEstateRecord) Report {
	c := index(crime)
	r := index(realEstate)

	years := make([]int, 0, len(c)+len(r))
	for y := range c {
		years = append(years, y)
	}
	for y := range r {
		years = append(years, y)
	}
	slices.Sort(years)
	years = slices.Compact(years)

	out := Report{Years: make([]Year, 0, len(years))}
	for _, y := range years {
		out.Years = append(out.Years, Year{
			Year:           y,
			CrimeOnly:      difference(c[y], r[y]),
			RealEstateOnly: difference(r[y], c[y]),
		})
	}
	return out
}

// Acceptable reports whether both gaps are empty or one of the known
// one-sided sets.
func (y Year) Acceptable() bool {
	return allowed(y.CrimeOnly, allowedCrimeOnly) && allowed(y.RealEstateOnly, allowedRealEstateOnly)
}

// Acceptable reports whether every year is acceptable.
func (r Report) Acceptable() bool {
	return len(r.Violations()) == 0
}

// Violations returns the years whose gaps are not acceptable.
func (r Report) Violations() []Year {
	var out []Year
	for _, y := range r.Years {
		if !y.Acceptable() {
			out = append(out, y)
		}
	}
	return out
}

func index[T Row](rows []T) map[int]map[string]struct{} {
	out := make(map[int]map[string]struct{})
	for _, row := range rows {
		set, ok := out[row.RecordYear()]
		if !ok {
			set = make(map[string]struct{})
			out[row.RecordYear()] = set
		}
		set[row.NeighborhoodName()] = struct{}{}
	}
	return out
}

func difference(a, b map[string]struct{}) []string {
	out := []string{}
	for name := range a {
		if _, ok := b[name]; !ok {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

func allowed(got []string, sets [][]string) bool {
	if len(got) == 0 {
		return true
	}
	for _, s := range sets {
		if slices.Equal(got, s) {
			return true
		}
	}
	return false
}
