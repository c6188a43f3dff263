package model

import "strconv"

// Neighborhood is one row of the static neighborhood reference.
type Neighborhood struct {
	ObjectID    int64   `parquet:"OBJECTID"`
	Name        string  `parquet:"Neighborhood"` // NAME in the source file
	Coalition   string  `parquet:"COALIT"`
	MapLabel    string  `parquet:"MAPLABEL"`
	ID          int64   `parquet:"ID"`
	ShapeLength float64 `parquet:"Shape_Length"`
	ShapeArea   float64 `parquet:"Shape_Area"`
}

// NeighborhoodHeader is the header written for the reference table.
func NeighborhoodHeader() []string {
	return []string{"OBJECTID", "Neighborhood", "COALIT", "MAPLABEL", "ID", "Shape_Length", "Shape_Area"}
}

// Values renders the row in NeighborhoodHeader order.
func (n Neighborhood) Values() []string {
	return []string{
		strconv.FormatInt(n.ObjectID, 10),
		n.Name,
		n.Coalition,
		n.MapLabel,
		strconv.FormatInt(n.ID, 10),
		strconv.FormatFloat(n.ShapeLength, 'f', -1, 64),
		strconv.FormatFloat(n.ShapeArea, 'f', -1, 64),
	}
}
