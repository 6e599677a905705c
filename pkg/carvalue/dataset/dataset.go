// Package dataset reads the historical used-car sales file and turns it into a
// training matrix.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

var ErrDatasetMissing = errors.New("dataset not found")

// Column names in the sales file
const (
	ColName         = "Car_Name"
	ColYear         = "Year"
	ColSellingPrice = "Selling_Price"
	ColPresentPrice = "Present_Price"
	ColKmsDriven    = "Kms_Driven"
	ColFuelType     = "Fuel_Type"
	ColSellerType   = "Seller_Type"
	ColTransmission = "Transmission"
	ColOwner        = "Owner"
	ColAge          = "Age"
)

var requiredColumns = []string{
	ColName, ColYear, ColSellingPrice, ColPresentPrice, ColKmsDriven,
	ColFuelType, ColSellerType, ColTransmission, ColOwner,
}

// Record is one historical sale. Prices are in lakhs.
type Record struct {
	Name         string
	Year         int
	SellingPrice float64
	PresentPrice float64
	KmsDriven    float64
	FuelType     string
	SellerType   string
	Transmission string
	Owner        int
}

// Load reads the sales file at path. ErrDatasetMissing is returned, before
// anything else is attempted, when the file does not exist.
func Load(path string) ([]Record, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrDatasetMissing, path)
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file)
}

// Read parses sales records from r. The first row must be a header naming at
// least the required columns, in any order.
func Read(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("dataset is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := index[c]; !ok {
			return nil, fmt.Errorf("dataset is missing column %q", c)
		}
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rec, err := parseRecord(row, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRecord(row []string, index map[string]int) (Record, error) {
	field := func(col string) string {
		return strings.TrimSpace(row[index[col]])
	}

	var rec Record
	var err error
	rec.Name = field(ColName)
	rec.FuelType = field(ColFuelType)
	rec.SellerType = field(ColSellerType)
	rec.Transmission = field(ColTransmission)

	if rec.Year, err = strconv.Atoi(field(ColYear)); err != nil {
		return rec, fmt.Errorf("%s: %w", ColYear, err)
	}
	if rec.Owner, err = strconv.Atoi(field(ColOwner)); err != nil {
		return rec, fmt.Errorf("%s: %w", ColOwner, err)
	}
	if rec.SellingPrice, err = strconv.ParseFloat(field(ColSellingPrice), 64); err != nil {
		return rec, fmt.Errorf("%s: %w", ColSellingPrice, err)
	}
	if rec.PresentPrice, err = strconv.ParseFloat(field(ColPresentPrice), 64); err != nil {
		return rec, fmt.Errorf("%s: %w", ColPresentPrice, err)
	}
	if rec.KmsDriven, err = strconv.ParseFloat(field(ColKmsDriven), 64); err != nil {
		return rec, fmt.Errorf("%s: %w", ColKmsDriven, err)
	}
	return rec, nil
}
