// sample-predict loads a model written by train-predictor and prints its
// predicted consumption for the hours following a start time.
//
// Usage:
//
//	sample-predict
//	sample-predict -hours 72 -start "2007-06-01 00:00:00"
//	sample-predict -model out/energy_model.json -csv
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"energy_predictor/internal/dataset"
	"energy_predictor/internal/model"
	"energy_predictor/internal/predictor"
)

func main() {
	modelPath := flag.String("model", "energy_model.json", "path to serialized model")
	hours := flag.Int("hours", 48, "number of hours to predict")
	start := flag.String("start", "", "first hour as \"2006-01-02 15:04:05\" (default: current hour)")
	csvOut := flag.Bool("csv", false, "output as CSV")
	flag.Parse()

	data, err := os.ReadFile(*modelPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading model: %v\n", err)
		os.Exit(1)
	}

	m, err := predictor.Load(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading model: %v\n", err)
		os.Exit(1)
	}

	from := time.Now().Truncate(time.Hour)
	if *start != "" {
		from, err = time.ParseInLocation(model.DatetimeLayout, *start, time.Local)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -start: %v\n", err)
			os.Exit(1)
		}
	}

	times, predicted := predictHours(m, from, *hours)

	if *csvOut {
		fmt.Printf("%s,%s\n", model.ColumnDatetime, model.ColumnPredicted)
		for i, t := range times {
			fmt.Printf("%s,%s\n", t.Format(model.DatetimeLayout), strconv.FormatFloat(predicted[i], 'g', -1, 64))
		}
		return
	}

	fmt.Printf("Model: %s\n", m.Kind())
	fmt.Printf("Generating %d hours of predictions starting from %s\n\n", *hours, from.Format("2006-01-02 15:04"))
	fmt.Printf("%-16s  %7s  %10s\n", "Time", "Weekday", "Power (kW)")
	fmt.Printf("%-16s  %7s  %10s\n", "----------------", "-------", "----------")
	for i, t := range times {
		fmt.Printf("%-16s  %7s  %10.3f\n", t.Format("2006-01-02 15:04"), t.Weekday().String()[:3], predicted[i])
	}
}

// predictHours returns hourly instants from start and the model's prediction for each.
func predictHours(m predictor.Model, start time.Time, hours int) ([]time.Time, []float64) {
	if hours <= 0 {
		return nil, nil
	}

	times := make([]time.Time, hours)
	X := make([][]float64, hours)
	for i := range times {
		times[i] = start.Add(time.Duration(i) * time.Hour)
		X[i] = dataset.FeaturesAt(times[i]).Values()
	}
	return times, m.Predict(X)
}
