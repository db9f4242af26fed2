package simplex

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"q.log/ratsimplex/fraction"
	"q.log/ratsimplex/model"
)

// VarKind tells original, slack and artificial columns apart.
type VarKind int

const (
	Original VarKind = iota
	Slack
	Artificial
)

// Variable is the bookkeeping for one tableau column.
type Variable struct {
	Name    string
	Kind    VarKind
	IsBasic bool
}

// Tableau is the dictionary of a standard form LP with slack columns, plus a
// certificate block recording the combination of original rows that
// produced every current row.
//
// For every constraint row r, (A[r], b[r]) equals CertMatrix[r] applied to
// the original ([A | I], b); the objective row (c, v) equals (-cost, 0) plus
// Cert applied to the same system. Pivot keeps both blocks in step.
type Tableau struct {
	vars []*Variable

	a model.Matrix
	b model.Vector

	// c holds the reduced costs of a maximization, v the current objective
	// value.
	c model.Vector
	v fraction.Fraction

	certMatrix model.Matrix
	cert       model.Vector

	// base[r] is the column basic in row r.
	base []int

	numOriginal int
}

// NewTableau builds the initial tableau of m: [A | I] with the slack
// variables basic, objective row (-c, 0), identity certificate block and a
// zero certificate vector.
func NewTableau(m *model.Model) *Tableau {
	rows, cols := m.NumRows, m.NumCols
	t := &Tableau{
		vars:        make([]*Variable, 0, cols+rows),
		a:           make(model.Matrix, rows),
		b:           m.B.Clone(),
		c:           model.NewVector(cols + rows),
		certMatrix:  model.Identity(rows),
		cert:        model.NewVector(rows),
		base:        make([]int, rows),
		numOriginal: cols,
	}
	for j := 0; j < cols; j++ {
		t.vars = append(t.vars, &Variable{Name: m.Names[j], Kind: Original})
		t.c[j] = m.C[j].Neg()
	}
	for i := 0; i < rows; i++ {
		t.vars = append(t.vars, &Variable{Name: fmt.Sprintf("s%d", i+1), Kind: Slack, IsBasic: true})
		t.a[i] = model.NewVector(cols + rows)
		copy(t.a[i], m.A[i])
		t.a[i][cols+i] = fraction.FromInt(1)
		t.base[i] = cols + i
	}
	return t
}

// Pivot makes column col basic in row. The pivot row is divided by the
// pivot element and col is eliminated from every other row and from the
// objective row; each step is applied to the certificate block as well.
// The pivot element must be non-zero.
func (t *Tableau) Pivot(row, col int) {
	inv := t.a[row][col].Reciprocal()
	t.a[row] = t.a[row].Scale(inv)
	t.b[row] = t.b[row].Mul(inv)
	t.certMatrix[row] = t.certMatrix[row].Scale(inv)

	for i := range t.a {
		if i == row {
			continue
		}
		k := t.a[i][col]
		if k.IsZero() {
			continue
		}
		t.a[i].SubScaled(t.a[row], k)
		t.b[i] = t.b[i].Sub(t.b[row].Mul(k))
		t.certMatrix[i].SubScaled(t.certMatrix[row], k)
	}
	t.eliminateObjective(row, t.c[col])

	t.vars[t.base[row]].IsBasic = false
	t.base[row] = col
	t.vars[col].IsBasic = true
}

// eliminateObjective subtracts k times constraint row from the objective row.
func (t *Tableau) eliminateObjective(row int, k fraction.Fraction) {
	if k.IsZero() {
		return
	}
	t.c.SubScaled(t.a[row], k)
	t.v = t.v.Sub(t.b[row].Mul(k))
	t.cert.SubScaled(t.certMatrix[row], k)
}

// negateRow multiplies constraint row by -1 in both blocks.
func (t *Tableau) negateRow(row int) {
	minusOne := fraction.FromInt(-1)
	t.a[row] = t.a[row].Scale(minusOne)
	t.b[row] = t.b[row].Neg()
	t.certMatrix[row] = t.certMatrix[row].Scale(minusOne)
}

// addArtificial appends an artificial column that is the unit vector of row
// and makes it basic there.
func (t *Tableau) addArtificial(row int) {
	col := len(t.vars)
	t.vars = append(t.vars, &Variable{Name: fmt.Sprintf("a%d", row+1), Kind: Artificial, IsBasic: true})
	for i := range t.a {
		var e fraction.Fraction
		if i == row {
			e = fraction.FromInt(1)
		}
		t.a[i] = append(t.a[i], e)
	}
	t.c = append(t.c, fraction.Fraction{})
	t.vars[t.base[row]].IsBasic = false
	t.base[row] = col
}

// dropArtificials removes every artificial column. None may be basic.
func (t *Tableau) dropArtificials() {
	keep := 0
	for _, v := range t.vars {
		if v.Kind != Artificial {
			keep++
		}
	}
	// Artificial columns are always appended after original and slack ones.
	t.vars = t.vars[:keep]
	for i := range t.a {
		t.a[i] = t.a[i][:keep]
	}
	t.c = t.c[:keep]
}

// setObjective replaces the objective row with (-cost, 0), resets the
// certificate vector and prices out the basic columns.
func (t *Tableau) setObjective(cost model.Vector) {
	for j := range t.c {
		t.c[j] = cost[j].Neg()
	}
	t.v = fraction.Fraction{}
	t.cert = model.NewVector(len(t.cert))
	for r, col := range t.base {
		t.eliminateObjective(r, t.c[col])
	}
}

// IsOptimal reports whether no reduced cost is negative.
func (t *Tableau) IsOptimal() bool {
	return t.c.IsNonNegative()
}

// ChooseEnteringColumn returns the smallest column index with a negative
// reduced cost.
func (t *Tableau) ChooseEnteringColumn() (int, bool) {
	for j, rc := range t.c {
		if rc.IsNegative() {
			return j, true
		}
	}
	return -1, false
}

// ChooseLeavingRow runs the ratio test on column col: among rows with a
// strictly positive coefficient it returns the one minimizing b[r]/a[r][col].
// Ties go to the row whose basic variable has the smallest index, which
// together with ChooseEnteringColumn is Bland's rule. ok is false when no
// coefficient is positive, i.e. the objective is unbounded along col.
func (t *Tableau) ChooseLeavingRow(col int) (row int, ok bool) {
	row = -1
	var best fraction.Fraction
	for r := range t.a {
		coef := t.a[r][col]
		if !coef.IsPositive() {
			continue
		}
		ratio := t.b[r].Div(coef)
		if row == -1 {
			row, best = r, ratio
			continue
		}
		switch ratio.Cmp(best) {
		case -1:
			row, best = r, ratio
		case 0:
			if t.base[r] < t.base[row] {
				row = r
			}
		}
	}
	return row, row != -1
}

// ObjectiveRow returns a copy of the reduced costs.
func (t *Tableau) ObjectiveRow() model.Vector {
	return t.c.Clone()
}

// RHSColumn returns a copy of the right-hand side.
func (t *Tableau) RHSColumn() model.Vector {
	return t.b.Clone()
}

// Value returns the objective value of the current basic solution.
func (t *Tableau) Value() fraction.Fraction {
	return t.v
}

// Certificate returns a copy of the objective row's certificate vector.
func (t *Tableau) Certificate() model.Vector {
	return t.cert.Clone()
}

// CertificateMatrix returns a copy of the certificate block.
func (t *Tableau) CertificateMatrix() model.Matrix {
	return t.certMatrix.Clone()
}

// Coefficients returns a copy of the constraint block.
func (t *Tableau) Coefficients() model.Matrix {
	return t.a.Clone()
}

// Basis returns a copy of the row to basic column mapping.
func (t *Tableau) Basis() []int {
	return append([]int(nil), t.base...)
}

// Variables returns the column bookkeeping. The result must not be modified.
func (t *Tableau) Variables() []*Variable {
	return t.vars
}

// solution reads the original variables off the right-hand side.
func (t *Tableau) solution() model.Vector {
	x := model.NewVector(t.numOriginal)
	for r, col := range t.base {
		if col < t.numOriginal {
			x[col] = t.b[r]
		}
	}
	return x
}

// direction is the ray obtained by increasing col from zero while the basic
// variables absorb the change, restricted to the original variables.
func (t *Tableau) direction(col int) model.Vector {
	d := model.NewVector(t.numOriginal)
	if col < t.numOriginal {
		d[col] = fraction.FromInt(1)
	}
	for r, bc := range t.base {
		if bc < t.numOriginal {
			d[bc] = t.a[r][col].Neg()
		}
	}
	return d
}

// String renders the tableau with exact entries, for diagnostics.
func (t *Tableau) String() string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(w, "\t")
	for _, v := range t.vars {
		fmt.Fprintf(w, "%s\t", v.Name)
	}
	fmt.Fprint(w, "|\trhs\t|\t")
	for i := range t.cert {
		fmt.Fprintf(w, "y%d\t", i+1)
	}
	fmt.Fprintln(w)
	writeRow(w, "z", t.c, t.v, t.cert)
	for r := range t.a {
		writeRow(w, t.vars[t.base[r]].Name, t.a[r], t.b[r], t.certMatrix[r])
	}
	w.Flush()
	return sb.String()
}

func writeRow(w *tabwriter.Writer, label string, coef model.Vector, rhs fraction.Fraction, cert model.Vector) {
	fmt.Fprintf(w, "%s\t", label)
	for _, x := range coef {
		fmt.Fprintf(w, "%s\t", x)
	}
	fmt.Fprintf(w, "|\t%s\t|\t", rhs)
	for _, x := range cert {
		fmt.Fprintf(w, "%s\t", x)
	}
	fmt.Fprintln(w)
}
