package realestate

import (
	"context"
	"fmt"

	"github.com/okian/pdxcrime/internal/domain/model"
	"github.com/okian/pdxcrime/internal/domain/neighborhood"
	"github.com/okian/pdxcrime/internal/domain/numeric"
	"github.com/okian/pdxcrime/pkg/logger"
	"github.com/okian/pdxcrime/pkg/metrics"
)

// The 2019 report has no WOODSTOCK row. It is filled with the midpoint of
// the 2018 and 2020 rows.
const (
	RepairYear         = 2019
	RepairNeighborhood = neighborhood.Woodstock
)

// SampledFields are the metrics carried into the synthetic row. Every other
// metric is left null.
var SampledFields = []string{
	model.FieldAverageSalePrice,
	model.FieldMedianSalePrice,
	model.FieldAverageDaysOnMarket,
	model.FieldCountHomesSold,
	model.FieldCondoSalesPercentage,
	model.FieldMedianOneYearPriceChangePercentage,
	model.FieldDistressedPropertySalesPercentage,
	model.FieldAverageYearBuilt,
}

// Interpolate builds the row for year halfway between before and after.
// A sampled field is null when either side is.
func Interpolate(year int, before, after model.RealEstateRecord) model.RealEstateRecord {
	rec := model.RealEstateRecord{Year: int32(year), Neighborhood: before.Neighborhood}
	for _, field := range SampledFields {
		*rec.Metric(field) = numeric.Mean(before.Get(field), after.Get(field))
	}
	return rec
}

func (n *Normalizer) repairGap(ctx context.Context, rows []model.RealEstateRecord) ([]model.RealEstateRecord, error) {
	if _, ok := find(rows, RepairNeighborhood); ok {
		return rows, nil
	}
	before, err := n.neighbor(ctx, RepairYear-1)
	if err != nil {
		return nil, err
	}
	after, err := n.neighbor(ctx, RepairYear+1)
	if err != nil {
		return nil, err
	}
	metrics.RecordSyntheticRow(dataset)
	n.log.Debug(ctx, "synthesized missing neighborhood row",
		logger.Year(RepairYear), logger.String("neighborhood", RepairNeighborhood))
	return append(rows, Interpolate(RepairYear, before, after)), nil
}

// neighbor loads year without repair and returns its RepairNeighborhood row.
func (n *Normalizer) neighbor(ctx context.Context, year int) (model.RealEstateRecord, error) {
	if n.source == nil {
		return model.RealEstateRecord{}, fmt.Errorf("%w: no source for %d", model.ErrRepairSource, year)
	}
	raw, err := n.source.Fetch(ctx, model.KindRealEstate, year)
	if err != nil {
		return model.RealEstateRecord{}, fmt.Errorf("%w: %w", model.ErrRepairSource, err)
	}
	rows, err := n.normalize(ctx, year, raw, false)
	if err != nil {
		return model.RealEstateRecord{}, fmt.Errorf("%w: %w", model.ErrRepairSource, err)
	}
	rec, ok := find(rows, RepairNeighborhood)
	if !ok {
		return model.RealEstateRecord{}, fmt.Errorf("%w: %d has no %s row", model.ErrRepairSource, year, RepairNeighborhood)
	}
	return rec, nil
}

func find(rows []model.RealEstateRecord, name string) (model.RealEstateRecord, bool) {
	for _, r := range rows {
		if r.Neighborhood == name {
			return r, true
		}
	}
	return model.RealEstateRecord{}, false
}
