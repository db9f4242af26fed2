// Package simplex solves linear programs in standard form,
//
//	maximize cᵀx subject to Ax <= b, x >= 0,
//
// with the two-phase tableau simplex method over exact rationals. Every
// result carries a certificate that can be checked without re-running the
// algorithm, see Verify.
//
// Pivots follow Bland's rule, so the method terminates on degenerate
// problems. A solve is single threaded and owns its Tableau; independent
// solves may run concurrently.
package simplex

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"q.log/ratsimplex/bigint"
	"q.log/ratsimplex/fraction"
	"q.log/ratsimplex/model"
)

// ErrArtificialStuck is returned if an artificial variable cannot be driven
// out of a feasible Phase 1 basis. It indicates a bug, not a property of the
// input.
var ErrArtificialStuck = errors.New("artificial variable cannot leave the basis")

// Stats counts the pivots of one solve.
type Stats struct {
	Phase1Pivots int
	Phase2Pivots int
}

// Pivots returns the total number of pivots.
func (s Stats) Pivots() int {
	return s.Phase1Pivots + s.Phase2Pivots
}

type phase int

const (
	phase1 phase = iota + 1
	phase2
)

func (p phase) String() string {
	if p == phase1 {
		return "phase1"
	}
	return "phase2"
}

type solver struct {
	m     *model.Model
	t     *Tableau
	opts  options
	stats Stats
}

// Solve runs the two-phase simplex method on m. Unbounded and infeasible
// programs are reported as results; an error means the input was malformed
// or exact arithmetic failed.
func Solve(m *model.Model, opts ...Option) (res Result, err error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	s := &solver{m: m, opts: defaultOptions()}
	for _, o := range opts {
		o(&s.opts)
	}

	defer func() {
		if r := recover(); r != nil {
			ae, ok := r.(*bigint.ArithmeticError)
			if !ok {
				panic(r)
			}
			res, err = nil, errors.Wrap(ae, "simplex")
		}
		if s.opts.stats != nil {
			*s.opts.stats = s.stats
		}
	}()

	return s.run()
}

func (s *solver) run() (Result, error) {
	s.t = NewTableau(s.m)
	log := s.opts.log.WithFields(logrus.Fields{"rows": s.m.NumRows, "cols": s.m.NumCols})

	if s.needsPhase1() {
		log.Debug("negative right-hand side, starting phase 1")
		infeasible, err := s.phase1()
		if err != nil {
			return nil, err
		}
		if infeasible != nil {
			log.WithField("pivots", s.stats.Pivots()).Debug("infeasible")
			return infeasible, nil
		}
	}

	res := s.phase2()
	log.WithFields(logrus.Fields{"outcome": res.Outcome(), "pivots": s.stats.Pivots()}).Debug("done")
	return res, nil
}

func (s *solver) needsPhase1() bool {
	for _, b := range s.m.B {
		if b.IsNegative() {
			return true
		}
	}
	return false
}

// phase1 finds a feasible basis by maximizing minus the sum of artificial
// variables. It returns an Infeasible result if the optimum is negative.
func (s *solver) phase1() (*Infeasible, error) {
	t := s.t
	for r := range t.b {
		if t.b[r].IsNegative() {
			t.negateRow(r)
			t.addArtificial(r)
		}
	}

	cost := model.NewVector(len(t.vars))
	for j, v := range t.vars {
		if v.Kind == Artificial {
			cost[j] = fraction.FromInt(-1)
		}
	}
	t.setObjective(cost)

	s.iterate(phase1)

	if t.v.IsNegative() {
		// The objective row reads (y·A, y) >= 0 with y·b < 0.
		return &Infeasible{Certificate: t.Certificate()}, nil
	}

	// The optimum is zero, so basic artificials sit at level zero and can be
	// swapped for any non-artificial column with a non-zero entry.
	for r, col := range t.base {
		if t.vars[col].Kind != Artificial {
			continue
		}
		j := -1
		for k, v := range t.vars {
			if v.Kind != Artificial && !t.a[r][k].IsZero() {
				j = k
				break
			}
		}
		if j == -1 {
			return nil, errors.Wrapf(ErrArtificialStuck, "row %d", r)
		}
		s.pivot(phase1, r, j)
	}
	t.dropArtificials()
	return nil, nil
}

// phase2 optimizes the original objective from a feasible basis.
func (s *solver) phase2() Result {
	t := s.t
	cost := model.NewVector(len(t.vars))
	copy(cost, s.m.C)
	t.setObjective(cost)

	if col, ok := s.iterate(phase2); ok {
		return &Unbounded{Solution: t.solution(), Direction: t.direction(col)}
	}
	return &Optimal{Value: t.Value(), Solution: t.solution(), Certificate: t.Certificate()}
}

// iterate pivots until the tableau is optimal. If some entering column has
// no leaving row it stops and returns that column with ok set.
func (s *solver) iterate(p phase) (unboundedCol int, ok bool) {
	for {
		col, found := s.t.ChooseEnteringColumn()
		if !found {
			return -1, false
		}
		row, found := s.t.ChooseLeavingRow(col)
		if !found {
			s.opts.log.WithFields(logrus.Fields{"phase": p, "column": s.t.vars[col].Name}).Debug("unbounded direction")
			return col, true
		}
		s.pivot(p, row, col)
	}
}

func (s *solver) pivot(p phase, row, col int) {
	t := s.t
	s.opts.log.WithFields(logrus.Fields{
		"phase":    p,
		"leaving":  t.vars[t.base[row]].Name,
		"entering": t.vars[col].Name,
	}).Debug("base change")

	t.Pivot(row, col)

	if p == phase1 {
		s.stats.Phase1Pivots++
	} else {
		s.stats.Phase2Pivots++
	}
	if s.opts.trace != nil {
		s.opts.trace(t)
	}
}
