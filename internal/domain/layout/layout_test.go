package layout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/pdxcrime/internal/domain/model"
)

var header2018 = []string{
	"Year", "Neighborhood", "Average home sale price ($)", "Median home sale price ($)",
	"Average cost per square foot ($)", "Average days on market", "Homes sold", "Condo sales (%)",
	"1-year Median Price Change (%)", "5-year Median Price Change (%)", "Distressed property sales (%)",
	"Average year built",
}

var header2021 = []string{
	"Year", "Neighborhood", "Median 2021 home sale price ($)", "Average home sale price ($)",
	"Average cost per square foot ($)", "Average days on market", "Homes sold", "Condo sales (%)",
	"Median 2020 home sale price ($)", "1-year Median Price Change (%)", "5-year Median Price Change (%)",
	"Average year built", "Homes sold 2020", "Average days on market 2020", "Distressed property sales (%)",
}

func TestDefaultCoversSupportedYears(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)
	assert.Equal(t, model.AllYears(), table.Years())
}

func TestResolve(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	got, err := table.Resolve(2018, header2018)
	require.NoError(t, err)
	assert.Equal(t, 2, got[model.FieldAverageSalePrice])
	assert.Equal(t, 3, got[model.FieldMedianSalePrice])
	assert.Equal(t, 8, got[model.FieldMedianOneYearPriceChangePercentage])
	assert.Equal(t, 10, got[model.FieldDistressedPropertySalesPercentage])
	assert.Len(t, got, len(RequiredFields()))

	got, err = table.Resolve(2021, header2021)
	require.NoError(t, err)
	assert.Equal(t, 3, got[model.FieldAverageSalePrice])
	assert.Equal(t, 2, got[model.FieldMedianSalePrice])
	assert.Equal(t, 9, got[model.FieldMedianOneYearPriceChangePercentage])
	assert.Equal(t, 10, got[model.FieldMedianFiveYearPriceChangePercentage])
	assert.Equal(t, 11, got[model.FieldAverageYearBuilt])
	assert.Equal(t, 14, got[model.FieldDistressedPropertySalesPercentage])
}

func TestResolveDetectsDrift(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	// A 2021-shaped header under a pre-2021 year puts median where average belongs.
	_, err = table.Resolve(2020, header2021)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrSchemaAssumptionViolated))

	var se *model.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 2, se.Index)
	assert.Equal(t, model.FieldAverageSalePrice, se.Field)

	// Too few columns.
	_, err = table.Resolve(2021, header2018)
	assert.True(t, errors.Is(err, model.ErrSchemaAssumptionViolated))
}

func TestResolveUnknownYear(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)
	_, err = table.Resolve(2022, header2018)
	assert.True(t, errors.Is(err, model.ErrUnsupportedYear))
}

func TestParseRejectsBadLayouts(t *testing.T) {
	bad := map[string]string{
		"missing field": `
layouts:
  - years: [2015]
    columns:
      - {index: 0, field: Year, header: ["year"]}`,
		"duplicate year": `
layouts:
  - years: [2015]
    columns: []
  - years: [2015]
    columns: []`,
		"not yaml": "layouts: [",
	}
	for name, doc := range bad {
		_, err := Parse([]byte(doc))
		assert.Error(t, err, name)
	}
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("Average Days on Market", []string{"days on market"}))
	assert.True(t, Matches("Median 2020 home sale price ($)", []string{"nope", "median 2020 home sale price ($)"}))
	assert.False(t, Matches("Average Price", []string{"median"}))
}
