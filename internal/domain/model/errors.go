package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds shared by the loader and the normalizers. All of them
// are deterministic for a given bundled input, so none is retried.
var (
	ErrUnsupportedYear          = errors.New("unsupported year")
	ErrEmptySource              = errors.New("empty source")
	ErrYearMismatch             = errors.New("year mismatch")
	ErrSchemaAssumptionViolated = errors.New("schema assumption violated")
	ErrMalformedValue           = errors.New("malformed value")
	ErrRepairSource             = errors.New("repair source missing row")
)

// YearMismatchError reports the set of years found in a file that should
// contain exactly one.
type YearMismatchError struct {
	Dataset Kind
	Want    int
	Got     []int
}

func (e *YearMismatchError) Error() string {
	return fmt.Sprintf("%s: expected only year %d in data, found %v", e.Dataset, e.Want, e.Got)
}

// Is implements errors.Is support.
func (e *YearMismatchError) Is(target error) bool {
	return target == ErrYearMismatch
}

// SchemaError reports a column whose header text no longer matches the
// field the year layout assigns to its position.
type SchemaError struct {
	Year     int
	Index    int
	Field    string
	Header   string
	Expected []string
}

func (e *SchemaError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%d: no column for %s", e.Year, e.Field)
	}
	return fmt.Sprintf("%d: column %d %q does not look like %s (want one of %s)",
		e.Year, e.Index, e.Header, e.Field, strings.Join(e.Expected, " | "))
}

// Is implements errors.Is support.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchemaAssumptionViolated
}
