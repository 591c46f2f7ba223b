package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"energy_predictor/internal/model"
)

// PredictionRows zips test datetimes with their actual and predicted values.
func PredictionRows(datetimes []time.Time, actual, predicted []float64) ([]model.PredictionRow, error) {
	if len(datetimes) != len(actual) || len(actual) != len(predicted) {
		return nil, fmt.Errorf("%w: misaligned columns (%d datetimes, %d actual, %d predicted)",
			model.ErrInsufficientData, len(datetimes), len(actual), len(predicted))
	}

	rows := make([]model.PredictionRow, len(datetimes))
	for i := range datetimes {
		rows[i] = model.PredictionRow{
			Datetime:  datetimes[i],
			Actual:    actual[i],
			Predicted: predicted[i],
		}
	}
	return rows, nil
}

// WritePredictions writes rows as a Datetime,Actual,Predicted table.
// Floats use the shortest representation that parses back to the same value.
func WritePredictions(w io.Writer, rows []model.PredictionRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{model.ColumnDatetime, model.ColumnActual, model.ColumnPredicted}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.Datetime.Format(model.DatetimeLayout),
			strconv.FormatFloat(r.Actual, 'g', -1, 64),
			strconv.FormatFloat(r.Predicted, 'g', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
