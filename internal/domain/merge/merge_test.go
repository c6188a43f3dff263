package merge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/pdxcrime/internal/domain/model"
)

func TestConcatKeepsOrder(t *testing.T) {
	a := []model.RealEstateRecord{{Year: 2016, Neighborhood: "B"}, {Year: 2016, Neighborhood: "A"}}
	b := []model.RealEstateRecord{{Year: 2015, Neighborhood: "A"}}
	got := Concat(a, nil, b)
	require.Len(t, got, 3)
	assert.Equal(t, "B", got[0].Neighborhood)
	assert.Equal(t, "A", got[1].Neighborhood)
	assert.Equal(t, int32(2015), got[2].Year)
}

func TestConcatKeepsDuplicates(t *testing.T) {
	row := model.CrimeRecord{CaseNumber: "1", Year: 2015}
	got := Concat([]model.CrimeRecord{row}, []model.CrimeRecord{row})
	assert.Len(t, got, 2)
	assert.Empty(t, Concat[model.CrimeRecord]())
}

func TestYears(t *testing.T) {
	load := func(year int) ([]model.CrimeRecord, error) {
		return []model.CrimeRecord{{Year: int32(year)}}, nil
	}
	got, err := Years([]int{2017, 2015}, load)
	require.NoError(t, err)
	assert.Equal(t, []int{2015, 2017}, YearsOf(got))
	assert.Equal(t, int32(2017), got[0].Year)

	boom := errors.New("boom")
	_, err = Years([]int{2015, 2016}, func(year int) ([]model.CrimeRecord, error) {
		if year == 2016 {
			return nil, boom
		}
		return nil, nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestSplit(t *testing.T) {
	rows := []model.RealEstateRecord{{Year: 2015, Neighborhood: "A"}, {Year: 2016}, {Year: 2015, Neighborhood: "B"}}
	got := Split(rows)
	require.Len(t, got[2015], 2)
	assert.Equal(t, "B", got[2015][1].Neighborhood)
	assert.Len(t, got[2016], 1)
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(model.AllYears()))
	assert.ErrorIs(t, Check([]int{2015, 2022}), model.ErrUnsupportedYear)
	assert.ErrorIs(t, Check([]int{2014}), model.ErrUnsupportedYear)
}
