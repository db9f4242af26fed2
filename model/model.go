// Package model holds the exact linear algebra types and the linear program
// in standard form: maximize cᵀx subject to Ax <= b, x >= 0.
package model

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"q.log/ratsimplex/fraction"
)

// Sense is the relation of a constraint row to its right-hand side.
type Sense int

const (
	LE Sense = iota
	GE
	EQ
)

func (s Sense) String() string {
	switch s {
	case LE:
		return "<="
	case GE:
		return ">="
	case EQ:
		return "="
	}
	return fmt.Sprintf("Sense(%d)", int(s))
}

// ParseSense accepts "<=", ">=" and "=" (also "==").
func ParseSense(s string) (Sense, error) {
	switch s {
	case "<=", "":
		return LE, nil
	case ">=":
		return GE, nil
	case "=", "==":
		return EQ, nil
	}
	return LE, errors.Errorf("unknown constraint sense %q", s)
}

// Model is a linear program in standard form.
type Model struct {
	//Names labels each variable; it does not take part in computation
	Names []string

	//C objective function coefficients
	C Vector

	//A constraints matrix
	A Matrix

	//B constraints rhs
	B Vector

	NumRows int
	NumCols int
}

func NewModel(numRows, numCols int) *Model {
	a := make(Matrix, numRows)
	for i := range a {
		a[i] = NewVector(numCols)
	}
	names := make([]string, numCols)
	for j := range names {
		names[j] = fmt.Sprintf("x%d", j+1)
	}
	return &Model{
		Names:   names,
		C:       NewVector(numCols),
		A:       a,
		B:       NewVector(numRows),
		NumRows: numRows,
		NumCols: numCols,
	}
}

// New builds a model from A, b and c, checking that their shapes agree.
func New(a Matrix, b, c Vector) (*Model, error) {
	m := NewModel(len(b), len(c))
	if err := m.SetA(a); err != nil {
		return nil, err
	}
	if err := m.SetB(b); err != nil {
		return nil, err
	}
	if err := m.SetC(c); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) SetC(c Vector) error {
	if len(c) != m.NumCols {
		return &ShapeError{Op: "SetC", What: "number of variables", Want: m.NumCols, Got: len(c)}
	}
	m.C = c.Clone()
	return nil
}

func (m *Model) SetA(a Matrix) error {
	if len(a) != m.NumRows {
		return &ShapeError{Op: "SetA", What: "number of constraints", Want: m.NumRows, Got: len(a)}
	}
	for _, row := range a {
		if len(row) != m.NumCols {
			return &ShapeError{Op: "SetA", What: "number of variables", Want: m.NumCols, Got: len(row)}
		}
	}
	m.A = a.Clone()
	return nil
}

func (m *Model) SetB(b Vector) error {
	if len(b) != m.NumRows {
		return &ShapeError{Op: "SetB", What: "number of constraints", Want: m.NumRows, Got: len(b)}
	}
	m.B = b.Clone()
	return nil
}

func (m *Model) SetNames(names []string) error {
	if len(names) != m.NumCols {
		return &ShapeError{Op: "SetNames", What: "number of variables", Want: m.NumCols, Got: len(names)}
	}
	m.Names = append([]string(nil), names...)
	return nil
}

// AddRow appends a constraint. GE rows are stored negated and EQ rows as a
// LE/GE pair so the model stays in standard form.
func (m *Model) AddRow(row Vector, sense Sense, rhs fraction.Fraction) error {
	if len(row) != m.NumCols {
		return &ShapeError{Op: "AddRow", What: "number of variables", Want: m.NumCols, Got: len(row)}
	}
	switch sense {
	case LE:
		m.appendRow(row.Clone(), rhs)
	case GE:
		m.appendRow(row.Clone(), rhs)
		return m.MultiplyConstraint(m.NumRows-1, fraction.FromInt(-1))
	case EQ:
		m.appendRow(row.Clone(), rhs)
		m.appendRow(row.Clone(), rhs)
		return m.MultiplyConstraint(m.NumRows-1, fraction.FromInt(-1))
	default:
		return errors.Errorf("AddRow: unknown sense %v", sense)
	}
	return nil
}

// MultiplyConstraint scales row r and its rhs by mul. A negative mul flips
// the sense of the row, so callers keep the model in standard form.
func (m *Model) MultiplyConstraint(r int, mul fraction.Fraction) error {
	if r < 0 || r >= m.NumRows {
		return errors.Wrapf(ErrRowOutOfRange, "MultiplyConstraint %d", r)
	}
	m.A[r] = m.A[r].Scale(mul)
	m.B[r] = m.B[r].Mul(mul)
	return nil
}

func (m *Model) appendRow(row Vector, rhs fraction.Fraction) {
	m.A = append(m.A, row)
	m.B = append(m.B, rhs)
	m.NumRows++
}

// AddCol appends a variable with constraint column col and objective
// coefficient coef.
func (m *Model) AddCol(name string, col Vector, coef fraction.Fraction) error {
	if len(col) != m.NumRows {
		return &ShapeError{Op: "AddCol", What: "number of constraints", Want: m.NumRows, Got: len(col)}
	}
	for i := range m.A {
		m.A[i] = append(m.A[i], col[i])
	}
	m.C = append(m.C, coef)
	m.Names = append(m.Names, name)
	m.NumCols++
	return nil
}

// RemoveCol deletes the variable in column c with its objective
// coefficient and name.
func (m *Model) RemoveCol(c int) error {
	if c < 0 || c >= m.NumCols {
		return errors.Wrapf(ErrColumnOutOfRange, "RemoveCol %d", c)
	}
	for i, row := range m.A {
		m.A[i] = append(row[:c:c], row[c+1:]...)
	}
	m.C = append(m.C[:c:c], m.C[c+1:]...)
	m.Names = append(m.Names[:c:c], m.Names[c+1:]...)
	m.NumCols--
	return nil
}

// Clone returns a deep copy of m.
func (m *Model) Clone() *Model {
	return &Model{
		Names:   append([]string(nil), m.Names...),
		C:       m.C.Clone(),
		A:       m.A.Clone(),
		B:       m.B.Clone(),
		NumRows: m.NumRows,
		NumCols: m.NumCols,
	}
}

// SplitFree replaces the unrestricted variable x in column c by xp - xn with
// xp, xn >= 0. Column c is renamed xp and xn is appended.
func (m *Model) SplitFree(c int) error {
	if c < 0 || c >= m.NumCols {
		return errors.Wrapf(ErrColumnOutOfRange, "SplitFree %d", c)
	}
	name := m.Names[c]
	neg := m.A.Col(c).Scale(fraction.FromInt(-1))
	m.Names[c] = name + "p"
	return m.AddCol(name+"n", neg, m.C[c].Neg())
}

// Column returns the index of the variable called name.
func (m *Model) Column(name string) (int, bool) {
	for j, n := range m.Names {
		if n == name {
			return j, true
		}
	}
	return -1, false
}

// Lookup returns the value of the variable called name in x. A variable
// that was split into name+"p" and name+"n" is reported as their
// difference.
func (m *Model) Lookup(name string, x Vector) (fraction.Fraction, error) {
	if len(x) != m.NumCols {
		return fraction.Fraction{}, &ShapeError{Op: "Lookup", What: "solution length", Want: m.NumCols, Got: len(x)}
	}
	if j, ok := m.Column(name); ok {
		return x[j], nil
	}
	p, okP := m.Column(name + "p")
	n, okN := m.Column(name + "n")
	if okP && okN {
		return x[p].Sub(x[n]), nil
	}
	return fraction.Fraction{}, errors.Wrap(ErrUnknownVariable, name)
}

// Validate checks that every dimension agrees.
func (m *Model) Validate() error {
	if len(m.C) != m.NumCols {
		return &ShapeError{Op: "Validate", What: "objective length", Want: m.NumCols, Got: len(m.C)}
	}
	if len(m.B) != m.NumRows {
		return &ShapeError{Op: "Validate", What: "rhs length", Want: m.NumRows, Got: len(m.B)}
	}
	if len(m.A) != m.NumRows {
		return &ShapeError{Op: "Validate", What: "number of constraints", Want: m.NumRows, Got: len(m.A)}
	}
	for _, row := range m.A {
		if len(row) != m.NumCols {
			return &ShapeError{Op: "Validate", What: "row length", Want: m.NumCols, Got: len(row)}
		}
	}
	if len(m.Names) != m.NumCols {
		return &ShapeError{Op: "Validate", What: "number of names", Want: m.NumCols, Got: len(m.Names)}
	}
	return nil
}

func (m *Model) PrintC(w io.Writer) {
	printDense(w, "c", Matrix{m.C}.Dense())
	fmt.Fprintln(w, m.NumCols)
}

func (m *Model) PrintB(w io.Writer) {
	col := make(Matrix, len(m.B))
	for i, b := range m.B {
		col[i] = Vector{b}
	}
	printDense(w, "b", col.Dense())
	fmt.Fprintln(w, m.NumRows)
}

func (m *Model) PrintA(w io.Writer) {
	printDense(w, "A", m.A.Dense())
	fmt.Fprintln(w, m.NumRows, m.NumCols)
}

func printDense(w io.Writer, name string, d *mat.Dense) {
	if d == nil {
		fmt.Fprintf(w, "%s = []\n", name)
		return
	}
	fa := mat.Formatted(d, mat.Prefix("    "), mat.Squeeze())
	fmt.Fprintf(w, "%s = %v\n", name, fa)
}
