package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"energy_predictor/internal/config"
	"energy_predictor/internal/dataset"
	"energy_predictor/internal/ingest"
	"energy_predictor/internal/logger"
	"energy_predictor/internal/model"
	"energy_predictor/internal/predictor"
	"energy_predictor/internal/report"
)

// Result summarizes a completed run.
type Result struct {
	RunID           string
	Estimator       string
	Rows            int
	TrainSize       int
	TestSize        int
	Missing         int
	FillValue       float64
	Metrics         report.Metrics
	PredictionsPath string
	ModelPath       string
}

// Pipeline runs load, derive, split, fit, predict, evaluate and persist in order.
// Console output goes to out; progress is logged with the run ID.
type Pipeline struct {
	cfg   *config.Config
	out   io.Writer
	runID string
	log   *logrus.Entry
	now   func() time.Time
}

// New returns a pipeline for cfg that writes console output to out.
func New(cfg *config.Config, out io.Writer) *Pipeline {
	runID := uuid.NewString()
	return &Pipeline{
		cfg:   cfg,
		out:   out,
		runID: runID,
		log:   logger.WithRun(runID),
		now:   time.Now,
	}
}

// RunID returns the identifier attached to every log entry of this run.
func (p *Pipeline) RunID() string {
	return p.runID
}

func (p *Pipeline) step(n int, name string) *logrus.Entry {
	return p.log.WithFields(logrus.Fields{"step": n, "name": name})
}

// Run executes the pipeline once. The first failing step aborts the run;
// no artifact is written unless every step up to persistence succeeded.
func (p *Pipeline) Run() (*Result, error) {
	cfg := p.cfg
	res := &Result{RunID: p.runID}
	started := p.now()

	// 1. Load
	parser := &ingest.EnergyParser{
		Delimiter:     cfg.Dataset.DelimiterRune(),
		MissingTokens: cfg.Dataset.MissingTokens,
		PreviewRows:   cfg.Dataset.PreviewRows,
	}
	table, err := ingest.LoadFile(cfg.Dataset.Path, parser)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	p.step(1, "load").WithFields(logrus.Fields{
		"path": cfg.Dataset.Path,
		"rows": len(table.Records),
	}).Info("dataset loaded")

	// 2. Preview
	if err := report.Preview(p.out, table.Header, table.Head); err != nil {
		p.step(2, "preview").Warnf("preview skipped: %v", err)
	}

	// 3. Derive features and fill missing readings
	deriver := &dataset.Deriver{Layouts: cfg.Dataset.DatetimeLayouts}
	ds, err := deriver.Derive(table.Records)
	if err != nil {
		return nil, fmt.Errorf("deriving features: %w", err)
	}
	res.Rows = ds.Len()
	res.Missing = ds.Missing
	res.FillValue = ds.FillValue
	p.step(3, "derive").WithFields(logrus.Fields{
		"rows":       ds.Len(),
		"missing":    ds.Missing,
		"fill_value": ds.FillValue,
	}).Info("features derived")

	// 4. Split
	part := dataset.Split(ds.Len(), cfg.Split.TestRatio, cfg.Split.Seed)
	res.TrainSize = len(part.Train)
	res.TestSize = len(part.Test)
	p.step(4, "split").WithFields(logrus.Fields{
		"train": len(part.Train),
		"test":  len(part.Test),
		"seed":  cfg.Split.Seed,
	}).Info("dataset split")

	// 5. Fit
	est, err := predictor.New(cfg.Estimator.Predictor())
	if err != nil {
		return nil, fmt.Errorf("creating estimator: %w", err)
	}
	fitted, err := est.Fit(ds.Matrix(part.Train), ds.LabelsAt(part.Train))
	if err != nil {
		return nil, fmt.Errorf("fitting estimator: %w", err)
	}
	res.Estimator = fitted.Kind()
	p.step(5, "fit").WithField("estimator", fitted.Kind()).Info("estimator fitted")

	// 6. Predict
	actual := ds.LabelsAt(part.Test)
	predicted := fitted.Predict(ds.Matrix(part.Test))
	p.step(6, "predict").WithField("rows", len(predicted)).Info("test rows predicted")

	// 7. Evaluate
	metrics, err := report.Evaluate(actual, predicted)
	if err != nil {
		return nil, fmt.Errorf("evaluating predictions: %w", err)
	}
	res.Metrics = metrics
	p.step(7, "evaluate").WithFields(logrus.Fields{
		"mae":  metrics.MAE,
		"rmse": metrics.RMSE,
	}).Info("predictions evaluated")
	report.Summary(p.out, metrics)

	// 8. Persist
	rows, err := report.PredictionRows(ds.DatetimesAt(part.Test), actual, predicted)
	if err != nil {
		return nil, fmt.Errorf("assembling predictions: %w", err)
	}
	saved, err := p.persist(rows, fitted, metrics)
	if err != nil {
		return nil, err
	}
	res.PredictionsPath = cfg.Output.Predictions
	res.ModelPath = cfg.Output.Model
	p.step(8, "persist").WithField("artifacts", len(saved)).Info("artifacts written")
	report.Confirm(p.out, saved...)

	// 9. Metrics textfile
	if cfg.Output.MetricsFile != "" {
		if err := report.WriteMetricsFile(cfg.Output.MetricsFile, fitted.Kind(), report.RunStats{
			Rows:      res.Rows,
			TrainRows: res.TrainSize,
			TestRows:  res.TestSize,
			Missing:   res.Missing,
			FillValue: res.FillValue,
			Metrics:   metrics,
			Finished:  float64(p.now().Unix()),
		}); err != nil {
			// Artifacts are already committed; the textfile is best effort.
			p.step(9, "metrics").WithError(err).WithField("path", cfg.Output.MetricsFile).Warn("metrics file not written")
		} else {
			p.step(9, "metrics").WithField("path", cfg.Output.MetricsFile).Info("metrics file written")
		}
	}

	p.log.WithField("duration", p.now().Sub(started).String()).Info("run complete")
	return res, nil
}

// persist stages every artifact and commits them together.
func (p *Pipeline) persist(rows []model.PredictionRow, fitted predictor.Model, metrics report.Metrics) ([]report.Saved, error) {
	out := p.cfg.Output

	modelData, err := predictor.Save(fitted)
	if err != nil {
		return nil, fmt.Errorf("%w: serializing model: %w", model.ErrPersistence, err)
	}

	var artifacts report.Artifacts
	if err := artifacts.Stage(out.Predictions, func(w io.Writer) error {
		return report.WritePredictions(w, rows)
	}); err != nil {
		return nil, err
	}
	if err := artifacts.Stage(out.Model, func(w io.Writer) error {
		_, err := w.Write(modelData)
		return err
	}); err != nil {
		return nil, err
	}

	saved := []report.Saved{
		{Label: "Predictions", Path: out.Predictions},
		{Label: "Model", Path: out.Model},
	}

	if out.Workbook != "" {
		if err := artifacts.Stage(out.Workbook, func(w io.Writer) error {
			return report.WriteWorkbook(w, rows, metrics)
		}); err != nil {
			return nil, err
		}
		saved = append(saved, report.Saved{Label: "Workbook", Path: out.Workbook})
	}

	if err := artifacts.Commit(); err != nil {
		return nil, err
	}
	return saved, nil
}
