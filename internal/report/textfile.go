package report

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RunStats are the figures exported for a textfile collector after a run.
type RunStats struct {
	Rows      int
	TrainRows int
	TestRows  int
	Missing   int
	FillValue float64
	Metrics   Metrics
	Finished  float64 // unix seconds
}

// WriteMetricsFile writes the run figures in the Prometheus text exposition format.
func WriteMetricsFile(path, estimator string, s RunStats) error {
	reg := prometheus.NewRegistry()

	rows := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "energy_predictor",
		Name:      "rows",
		Help:      "Rows per dataset partition.",
	}, []string{"partition"})
	errs := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "energy_predictor",
		Name:      "test_error",
		Help:      "Error of the estimator on the test partition.",
	}, []string{"metric", "estimator"})
	missing := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "energy_predictor",
		Name:      "missing_readings",
		Help:      "Readings replaced by the fill value.",
	})
	fill := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "energy_predictor",
		Name:      "fill_value",
		Help:      "Mean reading substituted for missing readings.",
	})
	finished := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "energy_predictor",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last run finished.",
	})

	reg.MustRegister(rows, errs, missing, fill, finished)

	rows.WithLabelValues("all").Set(float64(s.Rows))
	rows.WithLabelValues("train").Set(float64(s.TrainRows))
	rows.WithLabelValues("test").Set(float64(s.TestRows))
	errs.WithLabelValues("mae", estimator).Set(s.Metrics.MAE)
	errs.WithLabelValues("rmse", estimator).Set(s.Metrics.RMSE)
	missing.Set(float64(s.Missing))
	fill.Set(s.FillValue)
	finished.Set(s.Finished)

	return prometheus.WriteToTextfile(path, reg)
}
