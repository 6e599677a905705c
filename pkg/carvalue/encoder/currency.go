package encoder

// DefaultRate is the number of display dollars per model lakh (1 lakh INR ~= $1,190 at ~84 INR/USD).
const DefaultRate = 1190.0

// Currency converts between the display currency and the unit the model was trained in
type Currency struct {
	// Rate is display units per native unit.
	Rate float64
}

// NewCurrency returns a Currency for rate, falling back to DefaultRate when rate is not positive
func NewCurrency(rate float64) Currency {
	if rate <= 0 {
		rate = DefaultRate
	}
	return Currency{Rate: rate}
}

// DisplayToNative is the usd-to-lakhs factor
func (c Currency) DisplayToNative() float64 {
	return 1 / c.Rate
}

// NativeToDisplay is the lakhs-to-usd factor
func (c Currency) NativeToDisplay() float64 {
	return c.Rate
}

func (c Currency) ToNative(display float64) float64 {
	return display * c.DisplayToNative()
}

func (c Currency) ToDisplay(native float64) float64 {
	return native * c.NativeToDisplay()
}
