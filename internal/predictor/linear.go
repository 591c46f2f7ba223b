package predictor

import (
	"errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// rankTolerance is the relative singular value cutoff for the least squares solve.
const rankTolerance = 1e-10

// Linear is an ordinary least squares regressor with an intercept.
type Linear struct{}

// LinearModel is a fitted Linear: y = Intercept + Coef·x.
type LinearModel struct {
	Intercept float64   `json:"intercept"`
	Coef      []float64 `json:"coef"`
}

// Fit solves the least squares problem through an SVD of the design matrix,
// which yields the minimum-norm solution when features are collinear or constant.
func (l *Linear) Fit(X [][]float64, y []float64) (Model, error) {
	if err := checkTrainingData(X, y); err != nil {
		return nil, err
	}

	n, p := len(X), len(X[0])
	design := mat.NewDense(n, p+1, nil)
	for i, row := range X {
		design.Set(i, 0, 1)
		for j, v := range row {
			design.Set(i, j+1, v)
		}
	}
	target := mat.NewVecDense(n, append([]float64(nil), y...))

	var svd mat.SVD
	if ok := svd.Factorize(design, mat.SVDThin); !ok {
		return nil, errors.New("linear: SVD factorization failed")
	}

	var beta mat.VecDense
	svd.SolveVecTo(&beta, target, svd.Rank(rankTolerance))

	coef := make([]float64, p)
	for j := range coef {
		coef[j] = beta.AtVec(j + 1)
	}
	return &LinearModel{Intercept: beta.AtVec(0), Coef: coef}, nil
}

func (m *LinearModel) Kind() string { return KindLinear }

func (m *LinearModel) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, x := range X {
		out[i] = m.Intercept + floats.Dot(m.Coef, x)
	}
	return out
}
