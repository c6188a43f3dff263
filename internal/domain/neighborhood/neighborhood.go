// Package neighborhood maps the spelling variants found in the yearly source
// files onto the canonical upper-case neighborhood name used to join crime
// and real-estate tables.
//
// The crime side and the real-estate side carry different variant sets, so
// each has its own table. Both tables are process-lifetime constants.
package neighborhood

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Known names that only one side reports.
const (
	NorthwestIndustrial = "NORTHWEST INDUSTRIAL"
	Dunthorpe           = "DUNTHORPE"
	RiverdaleDunthorpe  = "MULT CO RIVERDALE AREA (DUNTHORPE)"
	Woodstock           = "WOODSTOCK"
)

// crimeTranslations aligns crime-side names with the real-estate side.
var crimeTranslations = map[string]string{
	"ST JOHNS":             "ST. JOHNS",
	"LLOYD":                "LLOYD DISTRICT",
	"MT TABOR":             "MT. TABOR",
	"NORTHWEST":            "NORTHWEST DISTRICT",
	"ARDENWALD":            "ARDENWALD/JOHNSON CREEK",
	"MT SCOTT-ARLETA":      "MT. SCOTT-ARLETA",
	"PEARL":                "PEARL DISTRICT",
	"BRENTWOOD-DARLINGTON": "BRENTWOOD/DARLINGTON",
	"BUCKMAN WEST":         "BUCKMAN",
	"BUCKMAN EAST":         "BUCKMAN",
}

// realEstateTranslations fixes punctuation, footnote markers and merged
// names in the real-estate reports.
var realEstateTranslations = map[string]string{
	"MT SCOTT-ARLETA":                      "MT. SCOTT-ARLETA",
	"MT SCOTT ARLETA":                      "MT. SCOTT-ARLETA",
	"SULLIVAN’S GULCH":                     "SULLIVAN'S GULCH",
	"SULLIVANS GULCH":                      "SULLIVAN'S GULCH",
	"MT TABOR":                             "MT. TABOR",
	"ARDENWALD-JOHNSON CREEK":              "ARDENWALD/JOHNSON CREEK",
	"BRENTWOOD/ DARLINGTON":                "BRENTWOOD/DARLINGTON",
	"BRENTWOOD-DARLINGTON":                 "BRENTWOOD/DARLINGTON",
	"OLD TOWN/ CHINATOWN":                  "OLD TOWN/CHINATOWN",
	"OLD TOWN CHINATOWN":                   "OLD TOWN/CHINATOWN",
	"PEARL":                                "PEARL DISTRICT",
	"ARDENWALD-JOHNSON CREEK*":             "ARDENWALD/JOHNSON CREEK",
	"PLEASANT VALLEY*":                     "PLEASANT VALLEY",
	"BRIDLEMILE*":                          "BRIDLEMILE",
	"FOREST PARK*":                         "FOREST PARK",
	"LINNTON*":                             "LINNTON",
	"SOUTHWEST HILLS*":                     "SOUTHWEST HILLS",
	"SYLVAN-HIGHLANDS*":                    "SYLVAN-HIGHLANDS",
	"SYLVAN HIGHLANDS*":                    "SYLVAN-HIGHLANDS",
	"POWELLHURST GILBERT":                  "POWELLHURST-GILBERT",
	"SELLWOOD MORELAND IMPROVEMENT LEAGUE": "SELLWOOD-MORELAND",
}

// aggregateLabels are report-generated summary rows, not neighborhoods.
var aggregateLabels = map[string]struct{}{
	"TOTAL":            {},
	"PORTLAND TOTAL":   {},
	"PORTLAND TOTAL**": {},
}

// Upper upper-cases a raw name. Surrounding whitespace is trimmed; inner
// spacing is kept because some variants differ only by it.
func Upper(raw string) string {
	// A Caser is stateful, so each call gets its own.
	return cases.Upper(language.Und).String(strings.TrimSpace(raw))
}

// Crime returns the canonical name for a crime-side neighborhood and false
// when the value is blank.
func Crime(raw string) (string, bool) {
	return canonicalize(raw, crimeTranslations)
}

// RealEstate returns the canonical name for a real-estate neighborhood and
// false when the value is blank.
func RealEstate(raw string) (string, bool) {
	return canonicalize(raw, realEstateTranslations)
}

func canonicalize(raw string, table map[string]string) (string, bool) {
	name := Upper(raw)
	if name == "" {
		return "", false
	}
	if canonical, ok := table[name]; ok {
		return canonical, true
	}
	return name, true
}

// IsAggregate reports whether an upper-cased name is a summary row label.
func IsAggregate(name string) bool {
	_, ok := aggregateLabels[name]
	return ok
}

// CrimeTranslations returns a copy of the crime-side table.
func CrimeTranslations() map[string]string {
	return clone(crimeTranslations)
}

// RealEstateTranslations returns a copy of the real-estate table.
func RealEstateTranslations() map[string]string {
	return clone(realEstateTranslations)
}

func clone(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
