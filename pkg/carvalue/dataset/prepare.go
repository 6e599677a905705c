package dataset

import (
	"sort"

	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/dal"
)

// Matrix is a prepared training set
type Matrix struct {
	X     [][]float64
	Y     []float64
	Names []string
}

// Prepare derives the model inputs from records:
//   - Age = referenceYear - Year, Year itself is dropped
//   - Car_Name is dropped
//   - categorical columns are one-hot encoded dropping their first category
//   - Selling_Price becomes the target
//
// Numeric columns come first in file order, followed by the dummy columns.
func Prepare(records []Record, referenceYear int) Matrix {
	fuel := newDummies(ColFuelType, records, func(r Record) string { return r.FuelType })
	seller := newDummies(ColSellerType, records, func(r Record) string { return r.SellerType })
	trans := newDummies(ColTransmission, records, func(r Record) string { return r.Transmission })

	names := []string{ColPresentPrice, ColKmsDriven, ColOwner, ColAge}
	names = append(names, fuel.names()...)
	names = append(names, seller.names()...)
	names = append(names, trans.names()...)

	m := Matrix{
		X:     make([][]float64, len(records)),
		Y:     make([]float64, len(records)),
		Names: names,
	}
	for i, r := range records {
		row := make([]float64, 0, len(names))
		row = append(row,
			r.PresentPrice,
			r.KmsDriven,
			float64(r.Owner),
			float64(referenceYear-r.Year),
		)
		row = fuel.encode(row, r.FuelType)
		row = seller.encode(row, r.SellerType)
		row = trans.encode(row, r.Transmission)
		m.X[i] = row
		m.Y[i] = r.SellingPrice
	}
	return m
}

// dummies is a drop-first one-hot encoding of one column. Categories are
// sorted, and the first one is represented by all flags being zero.
type dummies struct {
	column string
	kept   []string
}

func newDummies(column string, records []Record, value func(Record) string) dummies {
	seen := make(map[string]bool)
	var cats []string
	for _, r := range records {
		v := value(r)
		if !seen[v] {
			seen[v] = true
			cats = append(cats, v)
		}
	}
	sort.Strings(cats)
	d := dummies{column: column}
	if len(cats) > 1 {
		d.kept = cats[1:]
	}
	return d
}

func (d dummies) names() []string {
	out := make([]string, len(d.kept))
	for i, c := range d.kept {
		out[i] = d.column + "_" + c
	}
	return out
}

func (d dummies) encode(row []float64, v string) []float64 {
	for _, c := range d.kept {
		if v == c {
			row = append(row, 1)
		} else {
			row = append(row, 0)
		}
	}
	return row
}

// Summarize reports selling-price statistics and category counts
func Summarize(records []Record) dal.Summary {
	s := dal.Summary{
		Rows:         len(records),
		FuelTypes:    make(map[string]int),
		SellerTypes:  make(map[string]int),
		Transmission: make(map[string]int),
	}
	if len(records) == 0 {
		return s
	}

	prices := make([]float64, len(records))
	for i, r := range records {
		prices[i] = r.SellingPrice
		s.FuelTypes[r.FuelType]++
		s.SellerTypes[r.SellerType]++
		s.Transmission[r.Transmission]++
	}
	sort.Float64s(prices)

	s.Lowest = prices[0]
	s.Median = prices[len(prices)/2]
	s.Highest = prices[len(prices)-1]
	return s
}
