package dal

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownFuelType     = errors.New("unknown fuel type")
	ErrUnknownSellerType   = errors.New("unknown seller type")
	ErrUnknownTransmission = errors.New("unknown transmission")
)

// FuelType is the fuel a vehicle runs on
type FuelType string

const (
	Petrol FuelType = "Petrol"
	Diesel FuelType = "Diesel"
	CNG    FuelType = "CNG"
)

// FuelTypes lists the fuel types in the order they are offered to users
var FuelTypes = []FuelType{Petrol, Diesel, CNG}

// SellerType identifies who is selling the vehicle
type SellerType string

const (
	Dealer     SellerType = "Dealer"
	Individual SellerType = "Individual"
)

var SellerTypes = []SellerType{Dealer, Individual}

// Transmission is the gearbox type
type Transmission string

const (
	Manual    Transmission = "Manual"
	Automatic Transmission = "Automatic"
)

var Transmissions = []Transmission{Manual, Automatic}

// OwnerCounts are the previous-owner counts seen in the training data.
// Other non-negative values are accepted, they were just never observed.
var OwnerCounts = []int{0, 1, 3}

// VehicleAttributes defines the user-facing description of a car to be priced
type VehicleAttributes struct {
	PurchaseYear   int          `json:"purchase_year"`
	ShowroomPrice  float64      `json:"showroom_price"`
	DistanceDriven int          `json:"distance_driven"`
	OwnerCount     int          `json:"owner_count"`
	FuelType       FuelType     `json:"fuel_type"`
	SellerType     SellerType   `json:"seller_type"`
	Transmission   Transmission `json:"transmission"`
}

// DefaultAttributes returns the values the prediction form starts with
func DefaultAttributes() VehicleAttributes {
	return VehicleAttributes{
		PurchaseYear:   2019,
		ShowroomPrice:  25000.0,
		DistanceDriven: 30000,
		OwnerCount:     0,
		FuelType:       Petrol,
		SellerType:     Dealer,
		Transmission:   Manual,
	}
}

// ParseFuelType matches s case-insensitively against the known fuel types
func ParseFuelType(s string) (FuelType, error) {
	for _, f := range FuelTypes {
		if strings.EqualFold(string(f), strings.TrimSpace(s)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFuelType, s)
}

// ParseSellerType matches s case-insensitively against the known seller types
func ParseSellerType(s string) (SellerType, error) {
	for _, st := range SellerTypes {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSellerType, s)
}

// ParseTransmission matches s case-insensitively against the known transmissions
func ParseTransmission(s string) (Transmission, error) {
	for _, t := range Transmissions {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTransmission, s)
}
