// Package layout holds the year-conditioned positional column layouts of the
// real-estate reports and resolves a report header against them.
package layout

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/okian/pdxcrime/internal/domain/model"
)

//go:embed layouts.yaml
var embedded []byte

// Column binds a source position to a canonical field.
type Column struct {
	Index  int      `yaml:"index"`
	Field  string   `yaml:"field"`
	Header []string `yaml:"header"` // any one must appear in the header text
}

// Layout is the column set shared by one or more report years.
type Layout struct {
	Years   []int    `yaml:"years"`
	Columns []Column `yaml:"columns"`
}

// Table is the full year -> layout mapping.
type Table struct {
	byYear map[int]Layout
}

type document struct {
	Layouts []Layout `yaml:"layouts"`
}

// RequiredFields must each be bound exactly once by every layout.
func RequiredFields() []string {
	return append([]string{model.FieldYear, model.FieldNeighborhood}, model.RealEstateMetrics...)
}

// Parse builds a Table from YAML and validates it.
func Parse(data []byte) (*Table, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}
	t := &Table{byYear: make(map[int]Layout)}
	for i, l := range doc.Layouts {
		if err := l.validate(); err != nil {
			return nil, fmt.Errorf("layout %d: %w", i, err)
		}
		for _, y := range l.Years {
			if _, dup := t.byYear[y]; dup {
				return nil, fmt.Errorf("layout %d: year %d already has a layout", i, y)
			}
			t.byYear[y] = l
		}
	}
	return t, nil
}

func (l Layout) validate() error {
	if len(l.Years) == 0 {
		return fmt.Errorf("no years")
	}
	seenField := make(map[string]bool)
	seenIndex := make(map[int]bool)
	for _, c := range l.Columns {
		if c.Index < 0 {
			return fmt.Errorf("%s: negative index", c.Field)
		}
		if len(c.Header) == 0 {
			return fmt.Errorf("%s: no header expectation", c.Field)
		}
		if seenField[c.Field] {
			return fmt.Errorf("%s bound twice", c.Field)
		}
		if seenIndex[c.Index] {
			return fmt.Errorf("index %d bound twice", c.Index)
		}
		seenField[c.Field] = true
		seenIndex[c.Index] = true
	}
	for _, f := range RequiredFields() {
		if !seenField[f] {
			return fmt.Errorf("%s not bound", f)
		}
	}
	for f := range seenField {
		if !slices.Contains(RequiredFields(), f) {
			return fmt.Errorf("unknown field %s", f)
		}
	}
	return nil
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// Default returns the embedded layouts.
func Default() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Parse(embedded)
	})
	return defaultTable, defaultErr
}

// For returns the layout of a year.
func (t *Table) For(year int) (Layout, error) {
	l, ok := t.byYear[year]
	if !ok {
		return Layout{}, fmt.Errorf("%w: no real-estate layout for %d", model.ErrUnsupportedYear, year)
	}
	return l, nil
}

// Years lists the years the table covers, ascending.
func (t *Table) Years() []int {
	out := make([]int, 0, len(t.byYear))
	for y := range t.byYear {
		out = append(out, y)
	}
	slices.Sort(out)
	return out
}

// Resolve checks a report header against the year's layout and returns the
// source index of every canonical field.
func (t *Table) Resolve(year int, header []string) (map[string]int, error) {
	l, err := t.For(year)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(l.Columns))
	for _, c := range l.Columns {
		if c.Index >= len(header) {
			return nil, &model.SchemaError{Year: year, Index: c.Index, Field: c.Field, Expected: c.Header}
		}
		if !Matches(header[c.Index], c.Header) {
			return nil, &model.SchemaError{
				Year:     year,
				Index:    c.Index,
				Field:    c.Field,
				Header:   header[c.Index],
				Expected: c.Header,
			}
		}
		out[c.Field] = c.Index
	}
	return out, nil
}

// Matches reports whether text contains any of the substrings, ignoring case.
func Matches(text string, substrings []string) bool {
	lower := strings.ToLower(text)
	for _, s := range substrings {
		if strings.Contains(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}
