// Package model contains the record types passed between the loader,
// the normalizers, the merger and the sinks.
package model

import (
	"fmt"
	"strings"
)

// Supported year range for the bundled yearly datasets.
const (
	FirstYear = 2015
	LastYear  = 2021
)

// Kind identifies one bundled dataset.
type Kind string

// Dataset kinds.
const (
	KindCrime         Kind = "crime"
	KindRealEstate    Kind = "real-estate"
	KindNeighborhoods Kind = "neighborhoods"
)

// Yearly reports whether the dataset has one file per year.
func (k Kind) Yearly() bool {
	return k == KindCrime || k == KindRealEstate
}

// ParseKind maps a command-line target onto a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindCrime:
		return KindCrime, nil
	case KindRealEstate, "real_estate", "realestate":
		return KindRealEstate, nil
	case KindNeighborhoods:
		return KindNeighborhoods, nil
	default:
		return "", fmt.Errorf("unknown dataset %q", s)
	}
}

// SupportedYear reports whether year has bundled data.
func SupportedYear(year int) bool {
	return year >= FirstYear && year <= LastYear
}

// CheckYear returns ErrUnsupportedYear for years without bundled data.
func CheckYear(year int) error {
	if !SupportedYear(year) {
		return fmt.Errorf("%w: %d not in [%d,%d]", ErrUnsupportedYear, year, FirstYear, LastYear)
	}
	return nil
}

// Years returns the inclusive range first..last.
func Years(first, last int) []int {
	if last < first {
		return nil
	}
	out := make([]int, 0, last-first+1)
	for y := first; y <= last; y++ {
		out = append(out, y)
	}
	return out
}

// AllYears returns every supported year in ascending order.
func AllYears() []int {
	return Years(FirstYear, LastYear)
}
