// Package numeric coerces the currency and percentage strings found in the
// real-estate reports to floats.
package numeric

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/okian/pdxcrime/internal/domain/model"
)

// NullGlyphs are cell values the reports use for "no data".
var NullGlyphs = []string{"—", "–", "Ñ"}

// NAStrings are the conventional missing-value markers of CSV exports. They
// match exactly, case included.
var NAStrings = []string{
	"#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// NullValues returns every string a table parser should read as missing:
// the empty string, NAStrings and NullGlyphs.
func NullValues() []string {
	out := make([]string, 0, 1+len(NAStrings)+len(NullGlyphs))
	out = append(out, "")
	out = append(out, NAStrings...)
	return append(out, NullGlyphs...)
}

var currencyMarks = strings.NewReplacer("$", "", ",", "", "%", "")

// IsNull reports whether a cell carries no data: blank, a null glyph or an
// NA marker.
func IsNull(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || slices.Contains(NAStrings, s) || slices.Contains(NullGlyphs, s)
}

// CleanCurrency strips currency symbols, thousands separators and percent
// signs. Strings without those marks pass through unchanged; they are never
// turned into zero.
func CleanCurrency(s string) string {
	return strings.TrimSpace(currencyMarks.Replace(s))
}

// Parse converts one cell. Null cells yield nil; anything else must parse
// after cleaning or the call fails with model.ErrMalformedValue.
func Parse(s string) (*float64, error) {
	if IsNull(s) {
		return nil, nil
	}
	cleaned := CleanCurrency(s)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", model.ErrMalformedValue, s)
	}
	return &v, nil
}

// Mean averages two optional values; the result is null when either is.
func Mean(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	v := (*a + *b) / 2
	return &v
}
