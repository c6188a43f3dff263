// Package render prints CLI summaries as aligned text tables.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/okian/pdxcrime/internal/domain/coverage"
)

// Table writes header and rows as a pipe table padded to display width.
// Short rows are padded with empty cells.
func Table(w io.Writer, header []string, rows [][]string) error {
	cols := len(header)
	widths := make([]int, cols)
	for i, h := range header {
		widths[i] = max(runewidth.StringWidth(h), 3)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < cols; i++ {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}

	var sb strings.Builder
	line := func(cells []string, sep bool) {
		sb.WriteString("|")
		for j := 0; j < cols; j++ {
			sb.WriteString(" ")
			if sep {
				sb.WriteString(strings.Repeat("-", widths[j]))
			} else {
				content := ""
				if j < len(cells) {
					content = cells[j]
				}
				sb.WriteString(runewidth.FillRight(content, widths[j]))
			}
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}
	line(header, false)
	line(nil, true)
	for _, row := range rows {
		line(row, false)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Counts writes one row per year with the row count of each dataset.
// Datasets are printed in the order given by names.
func Counts(w io.Writer, years []int, names []string, counts map[string]map[int]int) error {
	header := append([]string{"Year"}, names...)
	rows := make([][]string, 0, len(years)+1)
	totals := make([]int, len(names))
	for _, y := range years {
		row := []string{strconv.Itoa(y)}
		for i, n := range names {
			c := counts[n][y]
			totals[i] += c
			row = append(row, strconv.Itoa(c))
		}
		rows = append(rows, row)
	}
	total := []string{"total"}
	for _, t := range totals {
		total = append(total, strconv.Itoa(t))
	}
	rows = append(rows, total)
	return Table(w, header, rows)
}

// Coverage writes the join gap of every year and a verdict line.
func Coverage(w io.Writer, r coverage.Report) error {
	rows := make([][]string, 0, len(r.Years))
	for _, y := range r.Years {
		status := "ok"
		if !y.Acceptable() {
			status = "UNEXPECTED"
		}
		rows = append(rows, []string{
			strconv.Itoa(y.Year),
			list(y.CrimeOnly),
			list(y.RealEstateOnly),
			status,
		})
	}
	if err := Table(w, []string{"Year", "Crime only", "Real estate only", "Status"}, rows); err != nil {
		return err
	}
	verdict := "all years join cleanly"
	if !r.Acceptable() {
		verdict = fmt.Sprintf("%d year(s) with unexpected gaps", len(r.Violations()))
	}
	_, err := fmt.Fprintln(w, verdict)
	return err
}

func list(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
