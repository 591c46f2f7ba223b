package predictor

import (
	"encoding/json"
	"math"
	"math/rand/v2"
)

// Layer is a fully-connected layer.
type Layer struct {
	Weights [][]float64 `json:"weights"` // [out][in]
	Biases  []float64   `json:"biases"`

	// Adam moments and gradient accumulators, rebuilt on load.
	mW, vW, dW [][]float64
	mB, vB, dB []float64

	// Activations cached by Forward for Backward.
	input  []float64
	output []float64
}

// Network is a feedforward network with ReLU hidden layers and one linear output.
type Network struct {
	Layers []Layer `json:"layers"`
}

// TrainConfig holds Adam mini-batch hyperparameters.
type TrainConfig struct {
	LearningRate float64
	Beta1        float64
	Beta2        float64
	Epsilon      float64
	BatchSize    int
	Epochs       int
}

func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		LearningRate: 0.005,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
		BatchSize:    64,
		Epochs:       200,
	}
}

// NewNetwork creates a He-initialized network.
// sizes lists the neurons per layer, input first, e.g. [4, 32, 16, 1].
func NewNetwork(sizes []int, rng *rand.Rand) *Network {
	n := &Network{Layers: make([]Layer, len(sizes)-1)}
	for i := range n.Layers {
		in, out := sizes[i], sizes[i+1]
		stddev := math.Sqrt(2.0 / float64(in))
		l := Layer{
			Weights: makeMatrix(out, in),
			Biases:  make([]float64, out),
		}
		for j := range l.Weights {
			for k := range l.Weights[j] {
				l.Weights[j][k] = rng.NormFloat64() * stddev
			}
		}
		n.Layers[i] = l
	}
	n.resetOptimizer()
	return n
}

func (n *Network) resetOptimizer() {
	for i := range n.Layers {
		l := &n.Layers[i]
		out, in := len(l.Weights), len(l.Weights[0])
		l.mW, l.vW, l.dW = makeMatrix(out, in), makeMatrix(out, in), makeMatrix(out, in)
		l.mB, l.vB, l.dB = make([]float64, out), make([]float64, out), make([]float64, out)
	}
}

// Infer computes the scalar output for x without touching training caches.
func (n *Network) Infer(x []float64) float64 {
	for i := range n.Layers {
		x = n.Layers[i].apply(x, i < len(n.Layers)-1)
	}
	return x[0]
}

// Forward computes the output for x and caches activations for Backward.
func (n *Network) Forward(x []float64) float64 {
	for i := range n.Layers {
		l := &n.Layers[i]
		l.input = x
		x = l.apply(x, i < len(n.Layers)-1)
		l.output = x
	}
	return x[0]
}

func (l *Layer) apply(x []float64, relu bool) []float64 {
	y := make([]float64, len(l.Weights))
	for j, row := range l.Weights {
		sum := l.Biases[j]
		for k, w := range row {
			sum += w * x[k]
		}
		if relu && sum < 0 {
			sum = 0
		}
		y[j] = sum
	}
	return y
}

// Backward accumulates gradients for the output gradient dOut.
// Must follow Forward on the same input.
func (n *Network) Backward(dOut float64) {
	dx := []float64{dOut}
	for i := len(n.Layers) - 1; i >= 0; i-- {
		l := &n.Layers[i]
		if i < len(n.Layers)-1 {
			for j, o := range l.output {
				if o <= 0 {
					dx[j] = 0
				}
			}
		}

		for j := range l.Weights {
			l.dB[j] += dx[j]
			for k, in := range l.input {
				l.dW[j][k] += dx[j] * in
			}
		}

		if i == 0 {
			return
		}
		dIn := make([]float64, len(l.input))
		for j, row := range l.Weights {
			for k, w := range row {
				dIn[k] += dx[j] * w
			}
		}
		dx = dIn
	}
}

func (n *Network) zeroGrad() {
	for i := range n.Layers {
		l := &n.Layers[i]
		for j := range l.dW {
			clear(l.dW[j])
		}
		clear(l.dB)
	}
}

// step applies one Adam update. t is the 1-based global step.
func (n *Network) step(cfg TrainConfig, t int) {
	c1 := 1 - math.Pow(cfg.Beta1, float64(t))
	c2 := 1 - math.Pow(cfg.Beta2, float64(t))
	update := func(w, m, v *float64, g float64) {
		*m = cfg.Beta1*(*m) + (1-cfg.Beta1)*g
		*v = cfg.Beta2*(*v) + (1-cfg.Beta2)*g*g
		*w -= cfg.LearningRate * (*m / c1) / (math.Sqrt(*v/c2) + cfg.Epsilon)
	}
	for i := range n.Layers {
		l := &n.Layers[i]
		for j := range l.Weights {
			for k := range l.Weights[j] {
				update(&l.Weights[j][k], &l.mW[j][k], &l.vW[j][k], l.dW[j][k])
			}
			update(&l.Biases[j], &l.mB[j], &l.vB[j], l.dB[j])
		}
	}
}

// Train runs mini-batch Adam on squared error and returns the validation MSE after each epoch.
func (n *Network) Train(trainX [][]float64, trainY []float64, valX [][]float64, valY []float64, cfg TrainConfig, rng *rand.Rand) []float64 {
	order := make([]int, len(trainX))
	for i := range order {
		order[i] = i
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = len(trainX)
	}

	t := 0
	losses := make([]float64, cfg.Epochs)
	for epoch := range losses {
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})

		for start := 0; start < len(order); start += batch {
			end := min(start+batch, len(order))
			n.zeroGrad()
			for _, idx := range order[start:end] {
				out := n.Forward(trainX[idx])
				n.Backward(2 * (out - trainY[idx]) / float64(end-start))
			}
			t++
			n.step(cfg, t)
		}

		losses[epoch] = n.MSE(valX, valY)
	}
	return losses
}

// MSE returns the mean squared error of the network over X, y.
func (n *Network) MSE(X [][]float64, y []float64) float64 {
	if len(X) == 0 {
		return 0
	}
	var sum float64
	for i, x := range X {
		d := n.Infer(x) - y[i]
		sum += d * d
	}
	return sum / float64(len(X))
}

type layerJSON struct {
	Weights [][]float64 `json:"weights"`
	Biases  []float64   `json:"biases"`
}

// UnmarshalJSON restores weights and rebuilds optimizer state.
func (n *Network) UnmarshalJSON(data []byte) error {
	var raw struct {
		Layers []layerJSON `json:"layers"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.Layers = make([]Layer, len(raw.Layers))
	for i, l := range raw.Layers {
		n.Layers[i] = Layer{Weights: l.Weights, Biases: l.Biases}
	}
	if len(n.Layers) > 0 {
		n.resetOptimizer()
	}
	return nil
}

func makeMatrix(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}
