package report

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"energy_predictor/internal/model"
)

// Metrics holds the evaluation of predictions against actual readings.
type Metrics struct {
	MAE  float64
	RMSE float64
}

// Evaluate computes mean absolute error and root mean squared error.
func Evaluate(actual, predicted []float64) (Metrics, error) {
	if len(actual) == 0 {
		return Metrics{}, fmt.Errorf("%w: no test rows to evaluate", model.ErrInsufficientData)
	}
	if len(actual) != len(predicted) {
		return Metrics{}, fmt.Errorf("%w: %d actual values vs %d predictions",
			model.ErrInsufficientData, len(actual), len(predicted))
	}

	n := float64(len(actual))
	return Metrics{
		MAE:  floats.Distance(actual, predicted, 1) / n,
		RMSE: floats.Distance(actual, predicted, 2) / math.Sqrt(n),
	}, nil
}
