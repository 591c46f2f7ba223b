package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"energy_predictor/internal/model"
)

// PredictionsParser reads a prediction artifact back into rows.
//
// Expected format:
//
//	Datetime,Actual,Predicted
//	2006-12-16 17:24:00,4.216,3.9871
type PredictionsParser struct{}

func (p *PredictionsParser) Parse(r io.Reader) ([]model.PredictionRow, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading CSV header: %w", model.ErrInputParse, err)
	}
	if err := validatePredictionsHeader(header); err != nil {
		return nil, err
	}

	var rows []model.PredictionRow
	lineNum := 1

	for {
		lineNum++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading CSV line %d: %w", model.ErrInputParse, lineNum, err)
		}

		row, err := parsePredictionRecord(record, lineNum)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func validatePredictionsHeader(header []string) error {
	expected := []string{model.ColumnDatetime, model.ColumnActual, model.ColumnPredicted}
	if len(header) < len(expected) {
		return fmt.Errorf("%w: expected at least %d columns, got %d", model.ErrInputParse, len(expected), len(header))
	}
	for i, col := range expected {
		if headerName(header[i]) != col {
			return fmt.Errorf("%w: expected column %d to be %q, got %q", model.ErrInputParse, i, col, header[i])
		}
	}
	return nil
}

func parsePredictionRecord(record []string, lineNum int) (model.PredictionRow, error) {
	ts, err := time.Parse(model.DatetimeLayout, strings.TrimSpace(record[0]))
	if err != nil {
		return model.PredictionRow{}, fmt.Errorf("%w: line %d: parsing datetime: %w", model.ErrInputParse, lineNum, err)
	}

	actual, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
	if err != nil {
		return model.PredictionRow{}, fmt.Errorf("%w: line %d: parsing actual: %w", model.ErrInputParse, lineNum, err)
	}

	predicted, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil {
		return model.PredictionRow{}, fmt.Errorf("%w: line %d: parsing predicted: %w", model.ErrInputParse, lineNum, err)
	}

	return model.PredictionRow{Datetime: ts, Actual: actual, Predicted: predicted}, nil
}
