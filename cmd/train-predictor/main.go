// train-predictor runs the batch pipeline: it loads the household power
// consumption table, derives calendar features, fits the configured estimator
// on a seeded 80/20 split and writes predictions.csv plus the serialized model.
//
// Usage:
//
//	train-predictor
//	train-predictor -config configs/config.yaml
//	ENERGY_ESTIMATOR_TYPE=linear train-predictor -log-level debug
package main

import (
	"flag"
	"fmt"
	"os"

	"energy_predictor/internal/config"
	"energy_predictor/internal/logger"
	"energy_predictor/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: config.yaml in . or ./configs)")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.App.LogLevel = *logLevel
	}
	logger.Setup(cfg.App.LogLevel, cfg.App.Mode)

	p := pipeline.New(cfg, os.Stdout)
	res, err := p.Run()
	if err != nil {
		logger.WithRun(p.RunID()).WithError(err).Error("run failed")
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger.WithRun(res.RunID).WithFields(map[string]interface{}{
		"estimator": res.Estimator,
		"train":     res.TrainSize,
		"test":      res.TestSize,
		"mae":       res.Metrics.MAE,
		"rmse":      res.Metrics.RMSE,
	}).Info("training finished")
}
