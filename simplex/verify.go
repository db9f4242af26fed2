package simplex

import (
	"github.com/pkg/errors"

	"q.log/ratsimplex/model"
)

// ErrInvalidCertificate is the cause of every Verify failure.
var ErrInvalidCertificate = errors.New("invalid certificate")

// Verify checks res against m in exact arithmetic, independently of how
// res was computed:
//
//   - Optimal: Ax <= b, x >= 0, y >= 0, yᵀA >= c and yᵀb = cᵀx = Value.
//   - Unbounded: the point is feasible, d >= 0, Ad <= 0 and cᵀd > 0.
//   - Infeasible: y >= 0, yᵀA >= 0 and yᵀb < 0.
func Verify(m *model.Model, res Result) error {
	if err := m.Validate(); err != nil {
		return err
	}
	switch r := res.(type) {
	case *Optimal:
		if err := checkFeasible(m, r.Solution); err != nil {
			return err
		}
		if err := checkDual(m, r.Certificate); err != nil {
			return err
		}
		if by := r.Certificate.Dot(m.B); !by.Equal(r.Value) {
			return errors.Wrapf(ErrInvalidCertificate, "yᵀb = %s, value %s", by, r.Value)
		}
		if cx := m.C.Dot(r.Solution); !cx.Equal(r.Value) {
			return errors.Wrapf(ErrInvalidCertificate, "cᵀx = %s, value %s", cx, r.Value)
		}
	case *Unbounded:
		if err := checkFeasible(m, r.Solution); err != nil {
			return err
		}
		d := r.Direction
		if len(d) != m.NumCols {
			return errors.Wrapf(ErrInvalidCertificate, "direction has %d entries, want %d", len(d), m.NumCols)
		}
		if !d.IsNonNegative() {
			return errors.Wrap(ErrInvalidCertificate, "direction has a negative entry")
		}
		for i, ad := range m.A.MulVec(d) {
			if ad.IsPositive() {
				return errors.Wrapf(ErrInvalidCertificate, "row %d: (Ad) = %s > 0", i, ad)
			}
		}
		if cd := m.C.Dot(d); !cd.IsPositive() {
			return errors.Wrapf(ErrInvalidCertificate, "cᵀd = %s <= 0", cd)
		}
	case *Infeasible:
		y := r.Certificate
		if err := checkMultipliers(m, y); err != nil {
			return err
		}
		for j, ya := range dualRow(m, y) {
			if ya.IsNegative() {
				return errors.Wrapf(ErrInvalidCertificate, "column %d: (yᵀA) = %s < 0", j, ya)
			}
		}
		if yb := y.Dot(m.B); !yb.IsNegative() {
			return errors.Wrapf(ErrInvalidCertificate, "yᵀb = %s >= 0", yb)
		}
	default:
		return errors.Errorf("unknown result %T", res)
	}
	return nil
}

func checkFeasible(m *model.Model, x model.Vector) error {
	if len(x) != m.NumCols {
		return errors.Wrapf(ErrInvalidCertificate, "solution has %d entries, want %d", len(x), m.NumCols)
	}
	if !x.IsNonNegative() {
		return errors.Wrap(ErrInvalidCertificate, "solution has a negative entry")
	}
	for i, ax := range m.A.MulVec(x) {
		if ax.Cmp(m.B[i]) > 0 {
			return errors.Wrapf(ErrInvalidCertificate, "row %d: %s > %s", i, ax, m.B[i])
		}
	}
	return nil
}

func checkMultipliers(m *model.Model, y model.Vector) error {
	if len(y) != m.NumRows {
		return errors.Wrapf(ErrInvalidCertificate, "certificate has %d entries, want %d", len(y), m.NumRows)
	}
	if !y.IsNonNegative() {
		return errors.Wrap(ErrInvalidCertificate, "certificate has a negative entry")
	}
	return nil
}

func checkDual(m *model.Model, y model.Vector) error {
	if err := checkMultipliers(m, y); err != nil {
		return err
	}
	for j, ya := range dualRow(m, y) {
		if ya.Cmp(m.C[j]) < 0 {
			return errors.Wrapf(ErrInvalidCertificate, "column %d: (yᵀA) = %s < c = %s", j, ya, m.C[j])
		}
	}
	return nil
}

// dualRow returns yᵀA, which has NumCols entries even when A has no rows.
func dualRow(m *model.Model, y model.Vector) model.Vector {
	if m.NumRows == 0 {
		return model.NewVector(m.NumCols)
	}
	return m.A.VecMul(y)
}
