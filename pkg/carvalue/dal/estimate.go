package dal

// Outcome classifies an estimate for presentation
type Outcome string

const (
	OutcomeSuccess     Outcome = "success"
	OutcomeAdvisory    Outcome = "advisory"
	OutcomeMismatch    Outcome = "mismatch"
	OutcomeUnavailable Outcome = "unavailable"
	OutcomeError       Outcome = "error"
)

// Estimate is the result of pricing one vehicle
type Estimate struct {
	Price       float64   `json:"price"`
	NativePrice float64   `json:"native_price"`
	Features    []float64 `json:"features,omitempty"`
}

// Negative reports whether the model considers the car to have no resale value.
// It is a valid output, not an error.
func (e Estimate) Negative() bool {
	return e.Price < 0
}

// Summary describes a training dataset
type Summary struct {
	Rows         int            `json:"rows"`
	Lowest       float64        `json:"lowest"`
	Median       float64        `json:"median"`
	Highest      float64        `json:"highest"`
	FuelTypes    map[string]int `json:"fuel_types,omitempty"`
	SellerTypes  map[string]int `json:"seller_types,omitempty"`
	Transmission map[string]int `json:"transmission,omitempty"`
}
