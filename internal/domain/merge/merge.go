// Package merge concatenates per-year tables into one table per dataset.
package merge

import (
	"fmt"
	"slices"

	"github.com/okian/pdxcrime/internal/domain/model"
)

// Record is a normalized row that knows its year.
type Record interface {
	RecordYear() int
}

// Concat appends tables in the order given. Rows are neither sorted nor
// deduplicated.
func Concat[T any](tables ...[]T) []T {
	n := 0
	for _, t := range tables {
		n += len(t)
	}
	out := make([]T, 0, n)
	for _, t := range tables {
		out = append(out, t...)
	}
	return out
}

// Years runs load for every year in order and concatenates the results.
// The first failure aborts the merge.
func Years[T any](years []int, load func(year int) ([]T, error)) ([]T, error) {
	tables := make([][]T, 0, len(years))
	for _, y := range years {
		t, err := load(y)
		if err != nil {
			return nil, fmt.Errorf("year %d: %w", y, err)
		}
		tables = append(tables, t)
	}
	return Concat(tables...), nil
}

// Split groups rows by year, keeping row order within each year.
func Split[T Record](rows []T) map[int][]T {
	out := make(map[int][]T)
	for _, r := range rows {
		out[r.RecordYear()] = append(out[r.RecordYear()], r)
	}
	return out
}

// YearsOf returns the distinct years present in rows, ascending.
func YearsOf[T Record](rows []T) []int {
	var out []int
	for y := range Split(rows) {
		out = append(out, y)
	}
	slices.Sort(out)
	return out
}

// Check fails with model.ErrUnsupportedYear for any year outside the
// bundled range.
func Check(years []int) error {
	for _, y := range years {
		if err := model.CheckYear(y); err != nil {
			return err
		}
	}
	return nil
}
