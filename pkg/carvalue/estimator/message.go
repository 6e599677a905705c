package estimator

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/dal"
)

// Message is the user-facing rendering of an estimate
type Message struct {
	Outcome dal.Outcome
	Text    string
	Hint    string
}

// FormatPrice renders a display-currency amount with thousands separators and cents
func FormatPrice(v float64) string {
	return "$ " + humanize.FormatFloat("#,###.##", v)
}

// Describe turns the result of Estimate into a message. datasetPath is quoted
// in the hint shown when no model has been trained.
func Describe(est dal.Estimate, err error, datasetPath string) Message {
	outcome := Classify(est, err)
	m := Message{Outcome: outcome}
	switch outcome {
	case dal.OutcomeSuccess:
		m.Text = "Estimated Price: " + FormatPrice(est.Price)
	case dal.OutcomeAdvisory:
		m.Text = "The prediction is negative. This car likely has no resale value."
		m.Hint = "Raw estimate: " + FormatPrice(est.Price)
	case dal.OutcomeMismatch:
		m.Text = fmt.Sprintf("Error during prediction. Feature mismatch? %v", err)
		m.Hint = "Please retrain the model to ensure feature alignment."
	case dal.OutcomeUnavailable:
		m.Text = "Model not trained yet!"
		m.Hint = fmt.Sprintf("Please place the sales dataset at %q and run the train command.", datasetPath)
	default:
		m.Text = fmt.Sprintf("Error loading model: %v", err)
		m.Hint = "Please retrain the model to replace the artifact."
	}
	return m
}
