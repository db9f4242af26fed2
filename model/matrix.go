package model

import (
	"gonum.org/v1/gonum/mat"

	"q.log/ratsimplex/fraction"
)

// Vector is a fixed-length sequence of exact values.
type Vector []fraction.Fraction

// NewVector returns a zero vector of length n.
func NewVector(n int) Vector {
	return make(Vector, n)
}

// VectorOf builds a vector from integers.
func VectorOf(xs ...int64) Vector {
	v := make(Vector, len(xs))
	for i, x := range xs {
		v[i] = fraction.FromInt(x)
	}
	return v
}

func (v Vector) Clone() Vector {
	return append(Vector(nil), v...)
}

// Dot returns v·w. The vectors must have equal length.
func (v Vector) Dot(w Vector) fraction.Fraction {
	var sum fraction.Fraction
	for i := range v {
		sum = sum.Add(v[i].Mul(w[i]))
	}
	return sum
}

// Scale returns k·v as a new vector.
func (v Vector) Scale(k fraction.Fraction) Vector {
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i].Mul(k)
	}
	return out
}

// SubScaled sets v = v - k·w in place.
func (v Vector) SubScaled(w Vector, k fraction.Fraction) {
	if k.IsZero() {
		return
	}
	for i := range v {
		if !w[i].IsZero() {
			v[i] = v[i].Sub(w[i].Mul(k))
		}
	}
}

// IsNonNegative reports whether every entry is >= 0.
func (v Vector) IsNonNegative() bool {
	for _, x := range v {
		if x.IsNegative() {
			return false
		}
	}
	return true
}

func (v Vector) Equal(w Vector) bool {
	if len(v) != len(w) {
		return false
	}
	for i := range v {
		if !v[i].Equal(w[i]) {
			return false
		}
	}
	return true
}

// Floats returns the float64 approximation of v, for display.
func (v Vector) Floats() []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x.Float64()
	}
	return out
}

// Strings returns the exact text of every entry.
func (v Vector) Strings() []string {
	out := make([]string, len(v))
	for i, x := range v {
		out[i] = x.String()
	}
	return out
}

// Matrix is a sequence of rows of equal length.
type Matrix []Vector

// NewMatrix copies rows into a Matrix, checking that all rows have the same
// length.
func NewMatrix(rows [][]fraction.Fraction) (Matrix, error) {
	m := make(Matrix, len(rows))
	for i, r := range rows {
		if i > 0 && len(r) != len(rows[0]) {
			return nil, &ShapeError{Op: "NewMatrix", What: "row length", Want: len(rows[0]), Got: len(r)}
		}
		m[i] = Vector(r).Clone()
	}
	return m, nil
}

// MatrixOf builds a matrix from integer rows. It panics on ragged input.
func MatrixOf(rows ...[]int64) Matrix {
	m := make(Matrix, len(rows))
	for i, r := range rows {
		if len(r) != len(rows[0]) {
			panic(&ShapeError{Op: "MatrixOf", What: "row length", Want: len(rows[0]), Got: len(r)})
		}
		m[i] = VectorOf(r...)
	}
	return m
}

// Identity returns the n×n identity matrix.
func Identity(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = NewVector(n)
		m[i][i] = fraction.FromInt(1)
	}
	return m
}

// Dims returns the number of rows and columns.
func (m Matrix) Dims() (int, int) {
	if len(m) == 0 {
		return 0, 0
	}
	return len(m), len(m[0])
}

func (m Matrix) Row(i int) Vector {
	return m[i]
}

func (m Matrix) Col(j int) Vector {
	col := make(Vector, len(m))
	for i := range m {
		col[i] = m[i][j]
	}
	return col
}

func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i := range m {
		out[i] = m[i].Clone()
	}
	return out
}

// MulVec returns m·x.
func (m Matrix) MulVec(x Vector) Vector {
	out := make(Vector, len(m))
	for i := range m {
		out[i] = m[i].Dot(x)
	}
	return out
}

// VecMul returns yᵀ·m.
func (m Matrix) VecMul(y Vector) Vector {
	_, cols := m.Dims()
	out := NewVector(cols)
	for i := range m {
		if y[i].IsZero() {
			continue
		}
		out.SubScaled(m[i], y[i].Neg())
	}
	return out
}

// Dense returns a float64 approximation of m for display. An empty matrix
// has no gonum representation and yields nil.
func (m Matrix) Dense() *mat.Dense {
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil
	}
	d := mat.NewDense(r, c, nil)
	for i := range m {
		d.SetRow(i, m[i].Floats())
	}
	return d
}
