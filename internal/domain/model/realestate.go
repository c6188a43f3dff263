package model

import "strconv"

// Canonical real-estate field names.
const (
	FieldYear                                = "Year"
	FieldNeighborhood                        = "Neighborhood"
	FieldAverageSalePrice                    = "AverageSalePrice"
	FieldMedianSalePrice                     = "MedianSalePrice"
	FieldAverageCostPerSqFoot                = "AverageCostPerSqFoot"
	FieldAverageDaysOnMarket                 = "AverageDaysOnMarket"
	FieldCountHomesSold                      = "CountHomesSold"
	FieldCondoSalesPercentage                = "CondoSalesPercentage"
	FieldMedianOneYearPriceChangePercentage  = "MedianOneYearPriceChangePercentage"
	FieldMedianFiveYearPriceChangePercentage = "MedianFiveYearPriceChangePercentage"
	FieldDistressedPropertySalesPercentage   = "DistressedPropertySalesPercentage"
	FieldAverageYearBuilt                    = "AverageYearBuilt"
)

// RealEstateMetrics lists the numeric fields in output order.
var RealEstateMetrics = []string{
	FieldAverageSalePrice,
	FieldMedianSalePrice,
	FieldAverageCostPerSqFoot,
	FieldAverageDaysOnMarket,
	FieldCountHomesSold,
	FieldCondoSalesPercentage,
	FieldMedianOneYearPriceChangePercentage,
	FieldMedianFiveYearPriceChangePercentage,
	FieldDistressedPropertySalesPercentage,
	FieldAverageYearBuilt,
}

// PositiveMetrics must be strictly positive whenever present.
var PositiveMetrics = []string{
	FieldAverageSalePrice,
	FieldMedianSalePrice,
	FieldAverageCostPerSqFoot,
	FieldAverageDaysOnMarket,
	FieldAverageYearBuilt,
}

// RealEstateRecord holds one neighborhood's yearly statistics. A nil metric
// means the source reported no data.
type RealEstateRecord struct {
	Year                                int32    `parquet:"Year"`
	Neighborhood                        string   `parquet:"Neighborhood"`
	AverageSalePrice                    *float64 `parquet:"AverageSalePrice,optional"`
	MedianSalePrice                     *float64 `parquet:"MedianSalePrice,optional"`
	AverageCostPerSqFoot                *float64 `parquet:"AverageCostPerSqFoot,optional"`
	AverageDaysOnMarket                 *float64 `parquet:"AverageDaysOnMarket,optional"`
	CountHomesSold                      *float64 `parquet:"CountHomesSold,optional"`
	CondoSalesPercentage                *float64 `parquet:"CondoSalesPercentage,optional"`
	MedianOneYearPriceChangePercentage  *float64 `parquet:"MedianOneYearPriceChangePercentage,optional"`
	MedianFiveYearPriceChangePercentage *float64 `parquet:"MedianFiveYearPriceChangePercentage,optional"`
	DistressedPropertySalesPercentage   *float64 `parquet:"DistressedPropertySalesPercentage,optional"`
	AverageYearBuilt                    *float64 `parquet:"AverageYearBuilt,optional"`
}

// RealEstateHeader is the header written for real-estate tables.
func RealEstateHeader() []string {
	return append([]string{FieldYear, FieldNeighborhood}, RealEstateMetrics...)
}

// Metric returns a pointer to the named metric slot, or nil for unknown names.
func (r *RealEstateRecord) Metric(name string) **float64 {
	switch name {
	case FieldAverageSalePrice:
		return &r.AverageSalePrice
	case FieldMedianSalePrice:
		return &r.MedianSalePrice
	case FieldAverageCostPerSqFoot:
		return &r.AverageCostPerSqFoot
	case FieldAverageDaysOnMarket:
		return &r.AverageDaysOnMarket
	case FieldCountHomesSold:
		return &r.CountHomesSold
	case FieldCondoSalesPercentage:
		return &r.CondoSalesPercentage
	case FieldMedianOneYearPriceChangePercentage:
		return &r.MedianOneYearPriceChangePercentage
	case FieldMedianFiveYearPriceChangePercentage:
		return &r.MedianFiveYearPriceChangePercentage
	case FieldDistressedPropertySalesPercentage:
		return &r.DistressedPropertySalesPercentage
	case FieldAverageYearBuilt:
		return &r.AverageYearBuilt
	}
	return nil
}

// Get returns the named metric value; nil when null or unknown.
func (r RealEstateRecord) Get(name string) *float64 {
	slot := r.Metric(name)
	if slot == nil {
		return nil
	}
	return *slot
}

// Values renders the record in RealEstateHeader order.
func (r RealEstateRecord) Values() []string {
	out := make([]string, 0, 2+len(RealEstateMetrics))
	out = append(out, strconv.Itoa(int(r.Year)), r.Neighborhood)
	for _, name := range RealEstateMetrics {
		out = append(out, FormatFloat(r.Get(name)))
	}
	return out
}

// RecordYear returns the reporting year.
func (r RealEstateRecord) RecordYear() int { return int(r.Year) }

// NeighborhoodName returns the canonical join key.
func (r RealEstateRecord) NeighborhoodName() string { return r.Neighborhood }
