// Package reference reads the static list of official neighborhoods.
package reference

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/okian/pdxcrime/internal/domain/model"
	"github.com/okian/pdxcrime/internal/domain/neighborhood"
)

// nameColumn is renamed to model.FieldNeighborhood on load.
const nameColumn = "NAME"

var columns = []string{"OBJECTID", model.FieldNeighborhood, "COALIT", "MAPLABEL", "ID", "Shape_Length", "Shape_Area"}

// Load parses the reference CSV. Columns other than the ones
// model.Neighborhood carries are ignored.
func Load(raw []byte) ([]model.Neighborhood, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: neighborhoods", model.ErrEmptySource)
	}
	df := dataframe.ReadCSV(bytes.NewReader(raw),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{""}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("parse neighborhoods: %w", df.Err)
	}
	if !slices.Contains(df.Names(), nameColumn) {
		return nil, fmt.Errorf("%w: neighborhoods has no %s column", model.ErrSchemaAssumptionViolated, nameColumn)
	}
	df = df.Rename(model.FieldNeighborhood, nameColumn).Select(columns)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: neighborhoods: %w", model.ErrSchemaAssumptionViolated, df.Err)
	}

	out := make([]model.Neighborhood, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		text := func(j int) string {
			e := df.Elem(i, j)
			if e.IsNA() {
				return ""
			}
			return strings.TrimSpace(e.String())
		}
		var (
			n   model.Neighborhood
			err error
		)
		n.Name = text(1)
		n.Coalition = text(2)
		n.MapLabel = text(3)
		if n.ObjectID, err = parseInt(text(0)); err != nil {
			return nil, fmt.Errorf("neighborhoods row %d OBJECTID: %w", i+1, err)
		}
		if n.ID, err = parseInt(text(4)); err != nil {
			return nil, fmt.Errorf("neighborhoods row %d ID: %w", i+1, err)
		}
		if n.ShapeLength, err = parseFloat(text(5)); err != nil {
			return nil, fmt.Errorf("neighborhoods row %d Shape_Length: %w", i+1, err)
		}
		if n.ShapeArea, err = parseFloat(text(6)); err != nil {
			return nil, fmt.Errorf("neighborhoods row %d Shape_Area: %w", i+1, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// Names returns the upper-cased official names, sorted and unique.
func Names(rows []model.Neighborhood) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if name := neighborhood.Upper(r.Name); name != "" {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func parseInt(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", model.ErrMalformedValue, s)
	}
	return v, nil
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", model.ErrMalformedValue, s)
	}
	return v, nil
}
