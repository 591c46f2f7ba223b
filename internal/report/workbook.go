package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"energy_predictor/internal/model"
)

const (
	sheetPredictions = "Predictions"
	sheetHourly      = "Hourly"
)

// WriteWorkbook writes the prediction rows and their hourly breakdown as an xlsx workbook.
func WriteWorkbook(w io.Writer, rows []model.PredictionRow, m Metrics) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetPredictions); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetPredictions, "A1", &[]any{
		model.ColumnDatetime, model.ColumnActual, model.ColumnPredicted, "Error",
	}); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetPredictions, cell, &[]any{
			r.Datetime.Format(model.DatetimeLayout), r.Actual, r.Predicted, r.Predicted - r.Actual,
		}); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(sheetHourly); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetHourly, "A1", &[]any{
		"Hour", "Count", "Mean Actual", "Mean Predicted", "MAE",
	}); err != nil {
		return err
	}
	for _, s := range Hourly(rows) {
		cell, err := excelize.CoordinatesToCellName(1, s.Hour+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetHourly, cell, &[]any{
			s.Hour, s.Count, s.Actual, s.Predicted, s.MAE,
		}); err != nil {
			return err
		}
	}

	// header, 24 hours, one blank row
	summaryRow := 1 + 24 + 2
	if err := f.SetSheetRow(sheetHourly, fmt.Sprintf("A%d", summaryRow), &[]any{"MAE", m.MAE}); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetHourly, fmt.Sprintf("A%d", summaryRow+1), &[]any{"RMSE", m.RMSE}); err != nil {
		return err
	}

	_, err := f.WriteTo(w)
	return err
}
