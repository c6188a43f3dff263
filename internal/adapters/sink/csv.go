package sink

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Row renders itself in the order of its table header.
type Row interface {
	Values() []string
}

// WriteCSV writes header and rows to w. Null values are empty cells.
func WriteCSV[T Row](w io.Writer, header []string, rows []T) error {
	if len(rows) == 0 {
		_, err := io.WriteString(w, strings.Join(header, ",")+"\n")
		return err
	}
	records := make([][]string, 0, len(rows)+1)
	records = append(records, header)
	for i, r := range rows {
		v := r.Values()
		if len(v) != len(header) {
			return fmt.Errorf("row %d has %d values, header has %d", i, len(v), len(header))
		}
		records = append(records, v)
	}
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{}),
	)
	if df.Err != nil {
		return fmt.Errorf("build csv table: %w", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
