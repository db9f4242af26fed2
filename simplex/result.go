package simplex

import (
	"q.log/ratsimplex/fraction"
	"q.log/ratsimplex/model"
)

// Outcome names the terminal state of a solve.
type Outcome int

const (
	OutcomeOptimal Outcome = iota
	OutcomeUnbounded
	OutcomeInfeasible
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOptimal:
		return "optimal"
	case OutcomeUnbounded:
		return "unbounded"
	case OutcomeInfeasible:
		return "infeasible"
	}
	return "unknown"
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Result is one of *Optimal, *Unbounded or *Infeasible.
type Result interface {
	Outcome() Outcome
	isResult()
}

// Optimal is a bounded optimum. Certificate holds one dual multiplier y_i per
// constraint with y >= 0, yᵀA >= c and yᵀb = Value = cᵀSolution.
type Optimal struct {
	Value       fraction.Fraction
	Solution    model.Vector
	Certificate model.Vector
}

// Unbounded carries a feasible point and a ray d >= 0 with Ad <= 0 and
// cᵀd > 0, so Solution + t·d is feasible for every t >= 0 while the
// objective grows without bound.
type Unbounded struct {
	Solution  model.Vector
	Direction model.Vector
}

// Infeasible carries a Farkas certificate y >= 0 with yᵀA >= 0 and yᵀb < 0.
type Infeasible struct {
	Certificate model.Vector
}

func (*Optimal) Outcome() Outcome    { return OutcomeOptimal }
func (*Unbounded) Outcome() Outcome  { return OutcomeUnbounded }
func (*Infeasible) Outcome() Outcome { return OutcomeInfeasible }

func (*Optimal) isResult()    {}
func (*Unbounded) isResult()  {}
func (*Infeasible) isResult() {}
