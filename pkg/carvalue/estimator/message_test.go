package estimator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/dal"
	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name    string
		est     dal.Estimate
		err     error
		outcome dal.Outcome
		text    string
		hint    string
	}{
		{
			name:    "Success",
			est:     dal.Estimate{Price: 21008.4},
			outcome: dal.OutcomeSuccess,
			text:    "Estimated Price: $ 21,008.40",
		},
		{
			name:    "Advisory",
			est:     dal.Estimate{Price: -2975},
			outcome: dal.OutcomeAdvisory,
			text:    "The prediction is negative. This car likely has no resale value.",
			hint:    "Raw estimate: $ -2,975.00",
		},
		{
			name:    "Mismatch",
			err:     fmt.Errorf("%w: model expects 7 features, got 8", ErrFeatureMismatch),
			outcome: dal.OutcomeMismatch,
			text:    "Error during prediction. Feature mismatch? feature mismatch: model expects 7 features, got 8",
			hint:    "Please retrain the model to ensure feature alignment.",
		},
		{
			name:    "Unavailable",
			err:     ErrModelUnavailable,
			outcome: dal.OutcomeUnavailable,
			text:    "Model not trained yet!",
			hint:    `Please place the sales dataset at "data/car data.csv" and run the train command.`,
		},
		{
			name:    "Other",
			err:     errors.New("boom"),
			outcome: dal.OutcomeError,
			text:    "Error loading model: boom",
			hint:    "Please retrain the model to replace the artifact.",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := Describe(tc.est, tc.err, "data/car data.csv")
			assert.Equal(t, tc.outcome, m.Outcome)
			assert.Equal(t, tc.text, m.Text)
			assert.Equal(t, tc.hint, m.Hint)
		})
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$ 0.00", FormatPrice(0))
	assert.Equal(t, "$ 1,190.00", FormatPrice(1190))
	assert.Equal(t, "$ 1,234,567.89", FormatPrice(1234567.891))
}
