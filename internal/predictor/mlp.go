package predictor

import (
	"math"
	"math/rand/v2"
)

// MLPConfig holds the hidden layer sizes and training schedule of an MLP.
type MLPConfig struct {
	Hidden []int
	TrainConfig
}

func DefaultMLPConfig() MLPConfig {
	return MLPConfig{
		Hidden:      []int{32, 16},
		TrainConfig: DefaultTrainConfig(),
	}
}

// MLP trains a Network on z-score normalized features and labels.
type MLP struct {
	Config MLPConfig
	Seed   uint64
}

// Normalization holds z-score parameters for features and label.
type Normalization struct {
	FeatureMean []float64 `json:"feature_mean"`
	FeatureStd  []float64 `json:"feature_std"`
	LabelMean   float64   `json:"label_mean"`
	LabelStd    float64   `json:"label_std"`
}

// MLPModel is a fitted MLP.
type MLPModel struct {
	Network       *Network      `json:"network"`
	Normalization Normalization `json:"normalization"`

	// Losses is the per-epoch validation MSE in normalized units.
	Losses []float64 `json:"-"`
}

// ComputeNormalization computes z-score parameters from training data.
// Constant columns get a unit std.
func ComputeNormalization(X [][]float64, y []float64) Normalization {
	n := float64(len(X))
	width := len(X[0])
	norm := Normalization{
		FeatureMean: make([]float64, width),
		FeatureStd:  make([]float64, width),
	}

	for i, row := range X {
		for j, v := range row {
			norm.FeatureMean[j] += v
		}
		norm.LabelMean += y[i]
	}
	for j := range norm.FeatureMean {
		norm.FeatureMean[j] /= n
	}
	norm.LabelMean /= n

	for i, row := range X {
		for j, v := range row {
			d := v - norm.FeatureMean[j]
			norm.FeatureStd[j] += d * d
		}
		d := y[i] - norm.LabelMean
		norm.LabelStd += d * d
	}
	for j := range norm.FeatureStd {
		norm.FeatureStd[j] = guardStd(math.Sqrt(norm.FeatureStd[j] / n))
	}
	norm.LabelStd = guardStd(math.Sqrt(norm.LabelStd / n))

	return norm
}

func guardStd(s float64) float64 {
	if s < 1e-10 {
		return 1
	}
	return s
}

func (n Normalization) features(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - n.FeatureMean[j]) / n.FeatureStd[j]
	}
	return out
}

func (m *MLP) Fit(X [][]float64, y []float64) (Model, error) {
	if err := checkTrainingData(X, y); err != nil {
		return nil, err
	}

	cfg := m.Config
	if cfg.Epochs <= 0 {
		cfg.TrainConfig = DefaultTrainConfig()
	}
	if len(cfg.Hidden) == 0 {
		cfg.Hidden = DefaultMLPConfig().Hidden
	}

	rng := rand.New(rand.NewPCG(m.Seed, 0))
	norm := ComputeNormalization(X, y)

	nx := make([][]float64, len(X))
	ny := make([]float64, len(y))
	for i := range X {
		nx[i] = norm.features(X[i])
		ny[i] = (y[i] - norm.LabelMean) / norm.LabelStd
	}

	sizes := append([]int{len(X[0])}, cfg.Hidden...)
	sizes = append(sizes, 1)
	net := NewNetwork(sizes, rng)

	trainX, trainY, valX, valY := holdout(nx, ny, rng)
	losses := net.Train(trainX, trainY, valX, valY, cfg.TrainConfig, rng)

	return &MLPModel{Network: net, Normalization: norm, Losses: losses}, nil
}

// holdout shuffles the rows and keeps a tenth (at least one row) for validation.
// With a single row the same row serves both roles.
func holdout(X [][]float64, y []float64, rng *rand.Rand) (trainX [][]float64, trainY []float64, valX [][]float64, valY []float64) {
	n := len(X)
	if n < 2 {
		return X, y, X, y
	}
	nVal := max(n/10, 1)

	order := rng.Perm(n)
	for k, i := range order {
		if k < n-nVal {
			trainX = append(trainX, X[i])
			trainY = append(trainY, y[i])
		} else {
			valX = append(valX, X[i])
			valY = append(valY, y[i])
		}
	}
	return
}

func (m *MLPModel) Kind() string { return KindMLP }

func (m *MLPModel) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, x := range X {
		out[i] = m.Network.Infer(m.Normalization.features(x))*m.Normalization.LabelStd + m.Normalization.LabelMean
	}
	return out
}
