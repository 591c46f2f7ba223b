package predictor

import (
	"encoding/json"
	"fmt"

	"energy_predictor/internal/model"
)

// Estimator kinds accepted by New.
const (
	KindForest = "forest"
	KindLinear = "linear"
	KindMLP    = "mlp"
)

// Estimator learns a mapping from feature rows to labels.
type Estimator interface {
	Fit(X [][]float64, y []float64) (Model, error)
}

// Model is a fitted estimator. Predict returns one value per row of X, in order.
type Model interface {
	Kind() string
	Predict(X [][]float64) []float64
}

// Config selects and parameterizes an estimator.
type Config struct {
	Type   string
	Seed   uint64
	Forest ForestConfig
	MLP    MLPConfig
}

// DefaultConfig returns the reference estimator: a 100-tree random forest seeded with 42.
func DefaultConfig() Config {
	return Config{
		Type:   KindForest,
		Seed:   42,
		Forest: DefaultForestConfig(),
		MLP:    DefaultMLPConfig(),
	}
}

// New returns the estimator named by cfg.Type.
func New(cfg Config) (Estimator, error) {
	switch cfg.Type {
	case KindForest, "":
		return &Forest{Config: cfg.Forest, Seed: cfg.Seed}, nil
	case KindLinear:
		return &Linear{}, nil
	case KindMLP:
		return &MLP{Config: cfg.MLP, Seed: cfg.Seed}, nil
	default:
		return nil, fmt.Errorf("unknown estimator type %q", cfg.Type)
	}
}

// SavedModel is the JSON envelope of a serialized model.
type SavedModel struct {
	Kind     string          `json:"kind"`
	Features []string        `json:"features"`
	Model    json.RawMessage `json:"model"`
}

// Save serializes a fitted model to JSON.
func Save(m Model) ([]byte, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding %s model: %w", m.Kind(), err)
	}
	return json.MarshalIndent(SavedModel{
		Kind:     m.Kind(),
		Features: model.FeatureNames,
		Model:    body,
	}, "", "  ")
}

// Load deserializes a model written by Save.
func Load(data []byte) (Model, error) {
	var saved SavedModel
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("decoding model envelope: %w", err)
	}

	var m Model
	switch saved.Kind {
	case KindForest:
		m = &ForestModel{}
	case KindLinear:
		m = &LinearModel{}
	case KindMLP:
		m = &MLPModel{}
	default:
		return nil, fmt.Errorf("unknown model kind %q", saved.Kind)
	}

	if err := json.Unmarshal(saved.Model, m); err != nil {
		return nil, fmt.Errorf("decoding %s model: %w", saved.Kind, err)
	}
	return m, nil
}

// checkTrainingData validates the shape of a training set.
func checkTrainingData(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return fmt.Errorf("%w: no training rows", model.ErrInsufficientData)
	}
	if len(X) != len(y) {
		return fmt.Errorf("%w: %d feature rows but %d labels", model.ErrInsufficientData, len(X), len(y))
	}
	width := len(X[0])
	if width == 0 {
		return fmt.Errorf("%w: feature rows are empty", model.ErrInsufficientData)
	}
	for i, row := range X {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d features, expected %d", model.ErrInsufficientData, i, len(row), width)
		}
	}
	return nil
}
