// anomaly-detect reads a prediction artifact and lists the rows whose
// residual (actual minus predicted) lies more than -sigma standard
// deviations from the mean residual.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"sort"

	"gonum.org/v1/gonum/stat"

	"energy_predictor/internal/ingest"
	"energy_predictor/internal/model"
	"energy_predictor/internal/report"
)

type anomaly struct {
	Row      model.PredictionRow
	Residual float64
	Sigmas   float64
	Category string
}

type residualStats struct {
	Mean   float64
	StdDev float64
}

func main() {
	predictionsPath := flag.String("predictions", "predictions.csv", "path to prediction artifact")
	sigma := flag.Float64("sigma", 2.0, "standard deviation threshold for flagging anomalies")
	top := flag.Int("top", 20, "max rows to print (0 = all)")
	flag.Parse()

	f, err := os.Open(*predictionsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening predictions: %v\n", err)
		os.Exit(1)
	}
	rows, err := (&ingest.PredictionsParser{}).Parse(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing predictions: %v\n", err)
		os.Exit(1)
	}

	actual := make([]float64, len(rows))
	predicted := make([]float64, len(rows))
	for i, r := range rows {
		actual[i] = r.Actual
		predicted[i] = r.Predicted
	}
	metrics, err := report.Evaluate(actual, predicted)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	stats, flagged := findAnomalies(rows, *sigma)

	fmt.Println()
	fmt.Println("Prediction Anomaly Detection")
	fmt.Printf("  Rows analyzed: %d | MAE: %.4f | RMSE: %.4f\n", len(rows), metrics.MAE, metrics.RMSE)
	fmt.Printf("  Mean residual: %+.4f | Std deviation: %.4f | Sigma threshold: %.1f\n", stats.Mean, stats.StdDev, *sigma)
	fmt.Printf("  Anomalies found: %d (%.1f%%)\n", len(flagged), 100*float64(len(flagged))/float64(len(rows)))
	fmt.Println()

	if len(flagged) == 0 {
		fmt.Println("  No anomalous rows detected.")
		return
	}

	if *top > 0 && len(flagged) > *top {
		flagged = flagged[:*top]
	}

	fmt.Printf("  %-19s │ %9s │ %9s │ %9s │ %6s │ %s\n", "Datetime", "Actual", "Predict", "Residual", "Sigma", "Type")
	fmt.Printf("  ────────────────────┼───────────┼───────────┼───────────┼────────┼──────\n")
	for _, a := range flagged {
		fmt.Printf("  %-19s │ %9.3f │ %9.3f │ %+9.3f │ %6.1f │ %s\n",
			a.Row.Datetime.Format(model.DatetimeLayout), a.Row.Actual, a.Row.Predicted, a.Residual, a.Sigmas, a.Category)
	}
}

// findAnomalies flags rows whose residual is further than sigma standard
// deviations from the mean residual, largest deviation first.
func findAnomalies(rows []model.PredictionRow, sigma float64) (residualStats, []anomaly) {
	if len(rows) == 0 {
		return residualStats{}, nil
	}

	residuals := make([]float64, len(rows))
	for i, r := range rows {
		residuals[i] = r.Actual - r.Predicted
	}

	var stats residualStats
	stats.Mean, stats.StdDev = stat.PopMeanStdDev(residuals, nil)
	if stats.StdDev == 0 || math.IsNaN(stats.StdDev) {
		return stats, nil
	}

	var flagged []anomaly
	for i, r := range rows {
		dev := (residuals[i] - stats.Mean) / stats.StdDev
		if math.Abs(dev) <= sigma {
			continue
		}
		category := "LOW"
		if dev > 0 {
			category = "HIGH"
		}
		flagged = append(flagged, anomaly{Row: r, Residual: residuals[i], Sigmas: dev, Category: category})
	}

	sort.SliceStable(flagged, func(i, j int) bool {
		return math.Abs(flagged[i].Sigmas) > math.Abs(flagged[j].Sigmas)
	})
	return stats, flagged
}
