// Package oracle solves a model in floating point with gonum's simplex. It
// is used to cross-check exact results, never to produce them.
package oracle

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"q.log/ratsimplex/model"
)

// Tol is the reduced cost tolerance passed to lp.Simplex.
const Tol = 1e-10

type Status int

const (
	Optimal Status = iota
	Unbounded
	Infeasible
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "optimal"
	case Unbounded:
		return "unbounded"
	case Infeasible:
		return "infeasible"
	}
	return "unknown"
}

// Result is a floating point answer. Value and X are set for Optimal only.
type Result struct {
	Status Status
	Value  float64
	X      []float64
}

// Solve converts m to equality form min -cᵀx, [A | I](x, s) = b and runs
// lp.Simplex on it. Columns of A that are entirely zero are removed first,
// since lp rejects them; one with a positive objective coefficient makes a
// feasible program unbounded.
func Solve(m *model.Model) (Result, error) {
	if err := m.Validate(); err != nil {
		return Result{}, err
	}
	rows, cols := m.NumRows, m.NumCols

	// keep maps the columns of reduced back to m.
	reduced := m.Clone()
	var keep []int
	ray := false
	for j := cols - 1; j >= 0; j-- {
		if zeroColumn(m, j) {
			if m.C[j].IsPositive() {
				ray = true
			}
			if err := reduced.RemoveCol(j); err != nil {
				return Result{}, errors.Wrap(err, "oracle")
			}
			continue
		}
		keep = append([]int{j}, keep...)
	}

	if rows == 0 {
		if ray {
			return Result{Status: Unbounded}, nil
		}
		return Result{Status: Optimal, X: make([]float64, cols)}, nil
	}

	n := reduced.NumCols + rows
	c := make([]float64, n)
	a := mat.NewDense(rows, n, nil)
	for k := 0; k < reduced.NumCols; k++ {
		c[k] = -reduced.C[k].Float64()
		for i := 0; i < rows; i++ {
			a.Set(i, k, reduced.A[i][k].Float64())
		}
	}
	for i := 0; i < rows; i++ {
		a.Set(i, reduced.NumCols+i, 1)
	}
	b := m.B.Floats()

	f, x, err := lp.Simplex(c, a, b, Tol, nil)
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return Result{Status: Infeasible}, nil
	case errors.Is(err, lp.ErrUnbounded):
		return Result{Status: Unbounded}, nil
	case err != nil:
		return Result{}, errors.Wrap(err, "oracle")
	}
	if ray {
		return Result{Status: Unbounded}, nil
	}

	res := Result{Status: Optimal, Value: -f, X: make([]float64, cols)}
	for k, j := range keep {
		res.X[j] = x[k]
	}
	if math.IsNaN(res.Value) {
		return Result{}, errors.New("oracle: objective is NaN")
	}
	return res, nil
}

func zeroColumn(m *model.Model, j int) bool {
	for i := 0; i < m.NumRows; i++ {
		if !m.A[i][j].IsZero() {
			return false
		}
	}
	return true
}
