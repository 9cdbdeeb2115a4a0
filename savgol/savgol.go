// Package savgol implements a Savitzky-Golay smoothing filter. Edges are
// handled by fitting the polynomial to the first and last full window.
package savgol

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

type Filter struct {
	Window int
	Order  int

	// row i weights a window to estimate its i-th sample
	hat *mat.Dense
}

func New(window, order int) (*Filter, error) {
	if window <= 0 || window%2 == 0 {
		return nil, errors.Errorf("savgol window must be a positive odd number, got %d", window)
	}
	if order < 0 || order >= window {
		return nil, errors.Errorf("savgol order must be in [0, %d), got %d", window, order)
	}

	half := window / 2
	design := mat.NewDense(window, order+1, nil)
	for i := 0; i < window; i++ {
		t := float64(i - half)
		for p := 0; p <= order; p++ {
			design.Set(i, p, math.Pow(t, float64(p)))
		}
	}

	// least squares fit: (AᵀA)⁻¹Aᵀ
	var normal mat.Dense
	normal.Mul(design.T(), design)
	var fit mat.Dense
	if err := fit.Solve(&normal, design.T()); err != nil {
		return nil, errors.Wrap(err, "savgol design matrix is singular")
	}

	hat := mat.NewDense(window, window, nil)
	hat.Mul(design, &fit)
	return &Filter{Window: window, Order: order, hat: hat}, nil
}

// Apply returns a smoothed copy of x. Inputs shorter than the window are
// copied unchanged.
func (f *Filter) Apply(x []float64) []float64 {
	res := make([]float64, len(x))
	copy(res, x)
	n := len(x)
	if n < f.Window {
		return res
	}

	half := f.Window / 2
	for i := half; i < n-half; i++ {
		res[i] = f.weigh(half, x[i-half:i+half+1])
	}
	for i := 0; i < half; i++ {
		res[i] = f.weigh(i, x[:f.Window])
		res[n-half+i] = f.weigh(half+1+i, x[n-f.Window:])
	}
	return res
}

func (f *Filter) weigh(row int, window []float64) float64 {
	var sum float64
	for j, v := range window {
		sum += f.hat.At(row, j) * v
	}
	return sum
}
