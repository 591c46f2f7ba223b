// dashboard serves a prediction artifact to browser charts over WebSocket.
// Send SIGHUP to reload the artifact after a new training run.
//
// Usage:
//
//	dashboard
//	dashboard -predictions predictions.csv -static-dir web -addr :9090
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"energy_predictor/internal/config"
	"energy_predictor/internal/ingest"
	"energy_predictor/internal/logger"
	"energy_predictor/internal/store"
	"energy_predictor/internal/ws"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: config.yaml in . or ./configs)")
	addr := flag.String("addr", "", "listen address override")
	predictionsPath := flag.String("predictions", "", "prediction artifact override")
	staticDir := flag.String("static-dir", "", "directory of dashboard static files override")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Dashboard.Addr = *addr
	}
	if *predictionsPath != "" {
		cfg.Dashboard.Predictions = *predictionsPath
	}
	if *staticDir != "" {
		cfg.Dashboard.StaticDir = *staticDir
	}
	logger.Setup(cfg.App.LogLevel, cfg.App.Mode)

	dataStore := store.New()
	if err := loadPredictions(cfg.Dashboard.Predictions, dataStore); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	logLoaded(dataStore)

	hub := ws.NewHub()
	handler := ws.NewHandler(hub, dataStore, cfg.Dashboard.MaxPoints)

	go reloadOnHangup(cfg.Dashboard.Predictions, dataStore, handler)

	mux := newMux(handler, cfg.Dashboard.Predictions, cfg.Dashboard.StaticDir)

	logger.Infof("Starting server on %s", cfg.Dashboard.Addr)
	if err := http.ListenAndServe(cfg.Dashboard.Addr, mux); err != nil {
		logger.Errorf("server stopped: %v", err)
		os.Exit(1)
	}
}

func newMux(handler http.Handler, predictionsPath, staticDir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.HandleFunc("GET /predictions.csv", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		http.ServeFile(w, r, predictionsPath)
	})
	mux.Handle("/ws", handler)

	if staticDir != "" {
		if _, err := os.Stat(staticDir); err == nil {
			logger.Infof("Serving dashboard from %s", staticDir)
			mux.Handle("/", http.FileServer(http.Dir(staticDir)))
		} else {
			logger.Warnf("Static directory %s not available: %v", staticDir, err)
		}
	}
	return mux
}

// loadPredictions replaces the store content with the artifact at path.
func loadPredictions(path string, s *store.Store) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening predictions: %w", err)
	}
	defer f.Close()

	rows, err := (&ingest.PredictionsParser{}).Parse(f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	s.Replace(rows)
	return nil
}

func reloadOnHangup(path string, s *store.Store, handler *ws.Handler) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP)
	for range sig {
		if err := loadPredictions(path, s); err != nil {
			logger.Errorf("Reload failed, keeping previous data: %v", err)
			continue
		}
		logLoaded(s)
		handler.Reload()
	}
}

func logLoaded(s *store.Store) {
	tr, ok := s.TimeRange()
	if !ok {
		logger.Warnf("Prediction artifact is empty")
		return
	}
	logger.Infof("Data loaded: %d rows, %s to %s", s.Count(),
		tr.Start.Format("2006-01-02 15:04"), tr.End.Format("2006-01-02 15:04"))
}
