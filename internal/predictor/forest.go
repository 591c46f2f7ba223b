package predictor

import (
	"math/rand/v2"
	"sort"
)

// ForestConfig holds random forest hyperparameters.
type ForestConfig struct {
	Trees          int
	MaxDepth       int // 0 means grow until leaves are pure or too small
	MinSamplesLeaf int
}

func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		Trees:          100,
		MaxDepth:       0,
		MinSamplesLeaf: 1,
	}
}

// Forest is a random forest regressor: bootstrap-sampled regression trees
// split on squared error, averaged at prediction time.
type Forest struct {
	Config ForestConfig
	Seed   uint64
}

// TreeNode is one node of a flattened regression tree. Leaves have Feature == -1.
type TreeNode struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t,omitempty"`
	Left      int     `json:"l,omitempty"`
	Right     int     `json:"r,omitempty"`
	Value     float64 `json:"v"`
}

// Tree is a regression tree rooted at Nodes[0].
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// ForestModel is a fitted Forest.
type ForestModel struct {
	Trees []Tree `json:"trees"`
}

func (f *Forest) Fit(X [][]float64, y []float64) (Model, error) {
	if err := checkTrainingData(X, y); err != nil {
		return nil, err
	}

	cfg := f.Config
	if cfg.Trees <= 0 {
		cfg.Trees = DefaultForestConfig().Trees
	}
	if cfg.MinSamplesLeaf <= 0 {
		cfg.MinSamplesLeaf = 1
	}

	rng := rand.New(rand.NewPCG(f.Seed, 0))
	n := len(X)
	m := &ForestModel{Trees: make([]Tree, cfg.Trees)}

	for t := range m.Trees {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.IntN(n)
		}
		b := &treeBuilder{X: X, y: y, maxDepth: cfg.MaxDepth, minLeaf: cfg.MinSamplesLeaf}
		b.grow(sample, 0)
		m.Trees[t] = Tree{Nodes: b.nodes}
	}
	return m, nil
}

func (m *ForestModel) Kind() string { return KindForest }

func (m *ForestModel) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	if len(m.Trees) == 0 {
		return out
	}
	for i, x := range X {
		var sum float64
		for _, t := range m.Trees {
			sum += t.predict(x)
		}
		out[i] = sum / float64(len(m.Trees))
	}
	return out
}

func (t Tree) predict(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Feature < 0 {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

type treeBuilder struct {
	X        [][]float64
	y        []float64
	maxDepth int
	minLeaf  int
	nodes    []TreeNode
}

// grow appends the subtree for rows idx and returns its node index.
// idx is reordered in place.
func (b *treeBuilder) grow(idx []int, depth int) int {
	var sum float64
	for _, i := range idx {
		sum += b.y[i]
	}
	id := len(b.nodes)
	b.nodes = append(b.nodes, TreeNode{Feature: -1, Value: sum / float64(len(idx))})

	if len(idx) < 2*b.minLeaf || (b.maxDepth > 0 && depth >= b.maxDepth) {
		return id
	}

	feature, threshold, ok := b.bestSplit(idx, sum)
	if !ok {
		return id
	}

	// Partition idx: rows with x <= threshold first.
	lo, hi := 0, len(idx)-1
	for lo <= hi {
		if b.X[idx[lo]][feature] <= threshold {
			lo++
		} else {
			idx[lo], idx[hi] = idx[hi], idx[lo]
			hi--
		}
	}

	if lo == 0 || lo == len(idx) {
		return id
	}

	left := b.grow(idx[:lo], depth+1)
	right := b.grow(idx[lo:], depth+1)
	b.nodes[id].Feature = feature
	b.nodes[id].Threshold = threshold
	b.nodes[id].Left = left
	b.nodes[id].Right = right
	return id
}

// bestSplit finds the split that most reduces the squared error of idx.
// Minimizing SSE(left)+SSE(right) is maximizing sumL²/nL + sumR²/nR.
func (b *treeBuilder) bestSplit(idx []int, total float64) (int, float64, bool) {
	n := len(idx)
	parentScore := total * total / float64(n)
	bestScore := parentScore
	bestFeature, bestThreshold := -1, 0.0

	sorted := make([]int, n)
	for f := range b.X[idx[0]] {
		copy(sorted, idx)
		sort.Slice(sorted, func(i, j int) bool {
			return b.X[sorted[i]][f] < b.X[sorted[j]][f]
		})

		var sumLeft float64
		for k := 1; k < n; k++ {
			sumLeft += b.y[sorted[k-1]]
			if k < b.minLeaf || n-k < b.minLeaf {
				continue
			}
			lv, rv := b.X[sorted[k-1]][f], b.X[sorted[k]][f]
			if lv == rv {
				continue
			}
			sumRight := total - sumLeft
			score := sumLeft*sumLeft/float64(k) + sumRight*sumRight/float64(n-k)
			if score > bestScore+1e-12*(1+bestScore) {
				bestScore = score
				bestFeature = f
				bestThreshold = lv + (rv-lv)/2
				if bestThreshold >= rv {
					bestThreshold = lv
				}
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}
