package report

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"energy_predictor/internal/ingest"
	"energy_predictor/internal/model"
)

var baseTime = time.Date(2006, 12, 16, 17, 24, 0, 0, time.UTC)

func sampleRows() []model.PredictionRow {
	return []model.PredictionRow{
		{Datetime: baseTime, Actual: 4.216, Predicted: 3.9871},
		{Datetime: baseTime.Add(time.Hour), Actual: 5.36, Predicted: 5.1},
		{Datetime: baseTime.Add(2 * time.Hour), Actual: 0.1 + 0.2, Predicted: 1.0 / 3.0},
	}
}

func TestEvaluate(t *testing.T) {
	m, err := Evaluate([]float64{1, 2, 3}, []float64{1, 2, 4})
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, m.MAE, 1e-12)
	assert.InDelta(t, math.Sqrt(1.0/3.0), m.RMSE, 1e-12)
}

func TestEvaluate_Perfect(t *testing.T) {
	m, err := Evaluate([]float64{2.5}, []float64{2.5})
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.MAE)
	assert.Equal(t, 0.0, m.RMSE)
}

func TestEvaluate_Insufficient(t *testing.T) {
	_, err := Evaluate(nil, nil)
	assert.ErrorIs(t, err, model.ErrInsufficientData)

	_, err = Evaluate([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, model.ErrInsufficientData)
}

func TestPredictionRows(t *testing.T) {
	rows, err := PredictionRows(
		[]time.Time{baseTime, baseTime.Add(time.Minute)},
		[]float64{1, 2},
		[]float64{1.5, 2.5},
	)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, baseTime.Add(time.Minute), rows[1].Datetime)
	assert.Equal(t, 2.5, rows[1].Predicted)

	_, err = PredictionRows([]time.Time{baseTime}, []float64{1, 2}, []float64{1, 2})
	assert.ErrorIs(t, err, model.ErrInsufficientData)
}

func TestWritePredictions_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePredictions(&buf, sampleRows()[:1]))

	assert.Equal(t, "Datetime,Actual,Predicted\n2006-12-16 17:24:00,4.216,3.9871\n", buf.String())
}

func TestWritePredictions_RoundTrip(t *testing.T) {
	rows := sampleRows()

	var buf bytes.Buffer
	require.NoError(t, WritePredictions(&buf, rows))

	parser := &ingest.PredictionsParser{}
	got, err := parser.Parse(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(rows))

	for i := range rows {
		assert.True(t, rows[i].Datetime.Equal(got[i].Datetime), "row %d datetime", i)
		assert.Equal(t, rows[i].Actual, got[i].Actual, "row %d actual", i)
		assert.Equal(t, rows[i].Predicted, got[i].Predicted, "row %d predicted", i)
	}
}

func TestWritePredictions_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePredictions(&buf, nil))
	assert.Equal(t, "Datetime,Actual,Predicted\n", buf.String())
}

func TestArtifacts_Commit(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "predictions.csv")
	second := filepath.Join(dir, "nested", "model.json")

	var a Artifacts
	require.NoError(t, a.Stage(first, func(w io.Writer) error {
		_, err := io.WriteString(w, "one")
		return err
	}))
	require.NoError(t, a.Stage(second, func(w io.Writer) error {
		_, err := io.WriteString(w, "two")
		return err
	}))
	assert.Equal(t, []string{first, second}, a.Paths())

	// not visible before commit
	assert.NoFileExists(t, first)
	assert.NoFileExists(t, second)

	require.NoError(t, a.Commit())

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))
	data, err = os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
	assertNoTemps(t, dir)
}

func TestArtifacts_FailedStageDiscardsAll(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "predictions.csv")
	second := filepath.Join(dir, "model.json")

	var a Artifacts
	require.NoError(t, a.Stage(first, func(w io.Writer) error {
		_, err := io.WriteString(w, "one")
		return err
	}))
	err := a.Stage(second, func(io.Writer) error {
		return errors.New("encoder failed")
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrPersistence)
	assert.Contains(t, err.Error(), "encoder failed")

	require.NoError(t, a.Commit())
	assert.NoFileExists(t, first)
	assert.NoFileExists(t, second)
	assertNoTemps(t, dir)
}

func TestArtifacts_ReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "predictions.csv")
	require.NoError(t, os.WriteFile(path, []byte("old contents that are longer"), 0o644))

	var a Artifacts
	require.NoError(t, a.Stage(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "new")
		return err
	}))
	require.NoError(t, a.Commit())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestArtifacts_FailedCommitRestoresTargets(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "predictions.csv")
	second := filepath.Join(dir, "energy_model.json")
	require.NoError(t, os.WriteFile(first, []byte("old predictions"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("old model"), 0o644))

	var a Artifacts
	a.rename = func(oldpath, newpath string) error {
		if newpath == second && !strings.HasSuffix(oldpath, ".bak") {
			return errors.New("disk full")
		}
		return os.Rename(oldpath, newpath)
	}
	for _, path := range []string{first, second} {
		require.NoError(t, a.Stage(path, func(w io.Writer) error {
			_, err := io.WriteString(w, "new")
			return err
		}))
	}

	err := a.Commit()
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrPersistence)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "old predictions", string(data))
	data, err = os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "old model", string(data))
	assertNoTemps(t, dir)
}

func TestArtifacts_FailedCommitRemovesNewTargets(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "predictions.csv")
	second := filepath.Join(dir, "energy_model.json")

	var a Artifacts
	a.rename = func(oldpath, newpath string) error {
		if newpath == second {
			return errors.New("disk full")
		}
		return os.Rename(oldpath, newpath)
	}
	for _, path := range []string{first, second} {
		require.NoError(t, a.Stage(path, func(w io.Writer) error {
			_, err := io.WriteString(w, "new")
			return err
		}))
	}

	require.Error(t, a.Commit())
	assert.NoFileExists(t, first)
	assert.NoFileExists(t, second)
	assertNoTemps(t, dir)
}

func TestArtifacts_Discard(t *testing.T) {
	dir := t.TempDir()
	var a Artifacts
	require.NoError(t, a.Stage(filepath.Join(dir, "a.csv"), func(w io.Writer) error { return nil }))
	a.Discard()

	assert.Empty(t, a.Paths())
	assertNoTemps(t, dir)
}

func assertNoTemps(t *testing.T, dir string) {
	t.Helper()
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		assert.NotContains(t, d.Name(), ".tmp-", "leftover temp file %s", path)
		return nil
	})
	require.NoError(t, err)
}

func TestPreview(t *testing.T) {
	var buf bytes.Buffer
	header := []string{"Date", "Time", "Global_active_power"}
	rows := [][]string{
		{"16/12/2006", "17:24:00", "4.216"},
		{"16/12/2006", "17:25:00", "?"},
	}
	require.NoError(t, Preview(&buf, header, rows))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Dataset loaded. First 2 rows:\n"))
	assert.Contains(t, out, "Global_active_power")
	assert.Contains(t, out, "4.216")
	assert.Contains(t, out, "17:25:00")
}

func TestPreview_NoRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Preview(&buf, []string{"Date"}, nil))
	assert.Contains(t, buf.String(), "(no rows)")
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	Summary(&buf, Metrics{MAE: 1.0 / 3.0, RMSE: math.Sqrt(1.0 / 3.0)})
	Confirm(&buf,
		Saved{Label: "Predictions", Path: "predictions.csv"},
		Saved{Label: "Model", Path: "energy_model.json"},
	)

	assert.Equal(t, "Mean Absolute Error (MAE): 0.3333\n"+
		"Root Mean Squared Error (RMSE): 0.5774\n"+
		"Predictions saved to predictions.csv\n"+
		"Model saved to energy_model.json\n", buf.String())
}

func TestHourly(t *testing.T) {
	rows := []model.PredictionRow{
		{Datetime: time.Date(2007, 1, 1, 3, 0, 0, 0, time.UTC), Actual: 2, Predicted: 1},
		{Datetime: time.Date(2007, 1, 2, 3, 30, 0, 0, time.UTC), Actual: 4, Predicted: 5},
		{Datetime: time.Date(2007, 1, 1, 23, 59, 0, 0, time.UTC), Actual: 1, Predicted: 1},
	}
	stats := Hourly(rows)

	assert.Equal(t, 3, stats[3].Hour)
	assert.Equal(t, 2, stats[3].Count)
	assert.InDelta(t, 3.0, stats[3].Actual, 1e-12)
	assert.InDelta(t, 3.0, stats[3].Predicted, 1e-12)
	assert.InDelta(t, 1.0, stats[3].MAE, 1e-12)
	assert.Equal(t, 1, stats[23].Count)
	assert.Equal(t, 0, stats[0].Count)
	assert.Equal(t, 0.0, stats[0].Actual)
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, sampleRows(), Metrics{MAE: 0.5, RMSE: 0.7}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetPredictions, sheetHourly}, f.GetSheetList())

	v, err := f.GetCellValue(sheetPredictions, "A2")
	require.NoError(t, err)
	assert.Equal(t, "2006-12-16 17:24:00", v)

	v, err = f.GetCellValue(sheetPredictions, "B2")
	require.NoError(t, err)
	assert.Equal(t, "4.216", v)

	// hour 17 is on row 19
	v, err = f.GetCellValue(sheetHourly, "B19")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	v, err = f.GetCellValue(sheetHourly, "A28")
	require.NoError(t, err)
	assert.Equal(t, "RMSE", v)
}

func TestWriteMetricsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "energy.prom")
	err := WriteMetricsFile(path, "forest", RunStats{
		Rows:      10,
		TrainRows: 8,
		TestRows:  2,
		Missing:   1,
		FillValue: 1.25,
		Metrics:   Metrics{MAE: 0.5, RMSE: 0.75},
		Finished:  1700000000,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, `energy_predictor_rows{partition="train"} 8`)
	assert.Contains(t, out, `energy_predictor_test_error{estimator="forest",metric="rmse"} 0.75`)
	assert.Contains(t, out, "energy_predictor_missing_readings 1")
	assert.Contains(t, out, "energy_predictor_fill_value 1.25")
	assert.Contains(t, out, "energy_predictor_last_run_timestamp_seconds 1.7e+09")
}
