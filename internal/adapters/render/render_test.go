package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/pdxcrime/internal/domain/coverage"
)

func TestTableAligns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, []string{"Name", "N"}, [][]string{
		{"SULLIVAN'S GULCH", "1"},
		{"KENTON"},
	}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "| Name             | N   |", lines[0])
	assert.Equal(t, "| ---------------- | --- |", lines[1])
	assert.Equal(t, "| KENTON           |     |", lines[3])
}

func TestCounts(t *testing.T) {
	var buf bytes.Buffer
	counts := map[string]map[int]int{
		"crime":       {2015: 48, 2016: 47},
		"real-estate": {2015: 23},
	}
	require.NoError(t, Counts(&buf, []int{2015, 2016}, []string{"crime", "real-estate"}, counts))
	out := buf.String()
	assert.Contains(t, out, "| 2016  | 47    | 0           |")
	assert.Contains(t, out, "| total | 95    | 23          |")
}

func TestCoverage(t *testing.T) {
	var buf bytes.Buffer
	r := coverage.Report{Years: []coverage.Year{
		{Year: 2015, CrimeOnly: []string{"NORTHWEST INDUSTRIAL"}, RealEstateOnly: []string{"DUNTHORPE"}},
		{Year: 2016, CrimeOnly: []string{"PEARL"}},
	}}
	require.NoError(t, Coverage(&buf, r))
	out := buf.String()
	assert.Contains(t, out, "NORTHWEST INDUSTRIAL")
	assert.Contains(t, out, "UNEXPECTED")
	assert.Contains(t, out, "1 year(s) with unexpected gaps")
}
