// Package encoder turns vehicle attributes into the numeric feature vector the
// price model was fitted on.
package encoder

import (
	"time"

	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/dal"
)

// Width is the number of features in a FeatureVector
const Width = 8

// Schema names the features in vector order. The names match the columns the
// training job derives from the dataset.
var Schema = [Width]string{
	"Present_Price",
	"Kms_Driven",
	"Owner",
	"Age",
	"Fuel_Type_Diesel",
	"Fuel_Type_Petrol",
	"Seller_Type_Individual",
	"Transmission_Manual",
}

// FeatureVector is the fixed-order model input. It is an array so copies never alias.
type FeatureVector [Width]float64

// Slice returns a fresh slice holding the vector
func (v FeatureVector) Slice() []float64 {
	out := make([]float64, Width)
	copy(out, v[:])
	return out
}

func (v FeatureVector) PresentPrice() float64 { return v[0] }
func (v FeatureVector) Age() float64          { return v[3] }

// Encoder maps VehicleAttributes to FeatureVectors
type Encoder struct {
	// ReferenceYear is the year ages are measured from. Zero means the current year
	// at the moment Encode is called.
	ReferenceYear int
	Currency      Currency

	now func() time.Time
}

// New returns an Encoder. referenceYear may be zero to track the wall clock.
func New(referenceYear int, currency Currency) *Encoder {
	return &Encoder{
		ReferenceYear: referenceYear,
		Currency:      currency,
		now:           time.Now,
	}
}

// Year returns the reference year used for age
func (e *Encoder) Year() int {
	if e.ReferenceYear != 0 {
		return e.ReferenceYear
	}
	if e.now == nil {
		return time.Now().Year()
	}
	return e.now().Year()
}

// Encode builds the feature vector for attrs. No validation happens here: a
// purchase year after the reference year simply yields a negative age.
func (e *Encoder) Encode(attrs dal.VehicleAttributes) FeatureVector {
	return FeatureVector{
		e.Currency.ToNative(attrs.ShowroomPrice),
		float64(attrs.DistanceDriven),
		float64(attrs.OwnerCount),
		float64(e.Year() - attrs.PurchaseYear),
		flag(attrs.FuelType == dal.Diesel),
		flag(attrs.FuelType == dal.Petrol),
		flag(attrs.SellerType == dal.Individual),
		flag(attrs.Transmission == dal.Manual),
	}
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
