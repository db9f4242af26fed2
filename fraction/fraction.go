// Package fraction implements exact rational numbers over bigint.Int.
//
// A Fraction is always kept in lowest terms with a positive denominator and
// an explicit sign; zero has sign Zero and numerator 0. Fractions are
// immutable values: every operation returns a new, already reduced value.
// Ordering and equality are decided by cross multiplication, never through
// floating point.
package fraction

import (
	"math/big"

	"q.log/ratsimplex/bigint"
)

// Sign of a Fraction.
type Sign int8

const (
	Negative Sign = -1
	Zero     Sign = 0
	Positive Sign = 1
)

// Fraction is an exact rational number. The zero value is 0.
type Fraction struct {
	num  bigint.Int // magnitude of the numerator
	den  bigint.Int // > 0 unless sign == Zero
	sign Sign
}

var one = bigint.New(1)

// FromInt returns x/1.
func FromInt(x int64) Fraction {
	return FromInteger(bigint.New(x))
}

// FromInteger returns x/1.
func FromInteger(x bigint.Int) Fraction {
	switch x.Sign() {
	case 0:
		return Fraction{}
	case -1:
		return Fraction{num: x.Abs(), den: one, sign: Negative}
	default:
		return Fraction{num: x, den: one, sign: Positive}
	}
}

// New returns n/d in lowest terms. It fails if d is zero.
func New(n, d int64) (Fraction, error) {
	return FromInts(bigint.New(n), bigint.New(d))
}

// MustNew is like New but panics on a zero denominator.
func MustNew(n, d int64) Fraction {
	return reduce(bigint.New(n), bigint.New(d))
}

// FromInts returns n/d in lowest terms. It fails if d is zero.
func FromInts(n, d bigint.Int) (Fraction, error) {
	if d.IsZero() {
		return Fraction{}, &bigint.ArithmeticError{Op: "fraction.New", Err: bigint.ErrDivisionByZero}
	}
	return reduce(n, d), nil
}

// reduce normalizes the sign onto the sign field and divides out the gcd.
func reduce(n, d bigint.Int) Fraction {
	if d.IsZero() {
		panic(&bigint.ArithmeticError{Op: "fraction.reduce", Err: bigint.ErrDivisionByZero})
	}
	if n.IsZero() {
		return Fraction{}
	}
	s := Positive
	if n.Sign() != d.Sign() {
		s = Negative
	}
	n, d = n.Abs(), d.Abs()
	if g := n.GCD(d); !g.IsOne() {
		n, d = n.Quo(g), d.Quo(g)
	}
	return Fraction{num: n, den: d, sign: s}
}

// Num returns the signed numerator.
func (f Fraction) Num() bigint.Int {
	if f.sign == Negative {
		return f.num.Neg()
	}
	return f.num
}

// Den returns the positive denominator.
func (f Fraction) Den() bigint.Int {
	if f.sign == Zero {
		return one
	}
	return f.den
}

// Sign returns the sign of f.
func (f Fraction) Sign() Sign {
	return f.sign
}

func (f Fraction) IsZero() bool     { return f.sign == Zero }
func (f Fraction) IsPositive() bool { return f.sign == Positive }
func (f Fraction) IsNegative() bool { return f.sign == Negative }

// IsInteger reports whether the denominator is 1.
func (f Fraction) IsInteger() bool {
	return f.Den().IsOne()
}

// Add returns f + g.
func (f Fraction) Add(g Fraction) Fraction {
	if f.IsZero() {
		return g
	}
	if g.IsZero() {
		return f
	}
	if f.Den().Equal(g.Den()) {
		return reduce(f.Num().Add(g.Num()), f.Den())
	}
	n := f.Num().Mul(g.Den()).Add(g.Num().Mul(f.Den()))
	return reduce(n, f.Den().Mul(g.Den()))
}

// Sub returns f - g.
func (f Fraction) Sub(g Fraction) Fraction {
	return f.Add(g.Neg())
}

// Mul returns f * g.
func (f Fraction) Mul(g Fraction) Fraction {
	if f.IsZero() || g.IsZero() {
		return Fraction{}
	}
	return reduce(f.Num().Mul(g.Num()), f.Den().Mul(g.Den()))
}

// Div returns f / g. It panics with a *bigint.ArithmeticError if g is zero.
func (f Fraction) Div(g Fraction) Fraction {
	if g.IsZero() {
		panic(&bigint.ArithmeticError{Op: "fraction.Div", Err: bigint.ErrDivisionByZero})
	}
	if f.IsZero() {
		return Fraction{}
	}
	return reduce(f.Num().Mul(g.Den()), f.Den().Mul(g.Num()))
}

// Neg returns -f.
func (f Fraction) Neg() Fraction {
	f.sign = -f.sign
	return f
}

// Abs returns |f|.
func (f Fraction) Abs() Fraction {
	if f.sign == Negative {
		f.sign = Positive
	}
	return f
}

// Reciprocal returns 1/f. It panics with a *bigint.ArithmeticError if f is
// zero.
func (f Fraction) Reciprocal() Fraction {
	if f.IsZero() {
		panic(&bigint.ArithmeticError{Op: "fraction.Reciprocal", Err: bigint.ErrDivisionByZero})
	}
	return Fraction{num: f.den, den: f.num, sign: f.sign}
}

// Cmp compares f and g and returns -1, 0 or +1.
func (f Fraction) Cmp(g Fraction) int {
	if f.sign != g.sign {
		if f.sign < g.sign {
			return -1
		}
		return 1
	}
	if f.sign == Zero {
		return 0
	}
	return f.Num().Mul(g.Den()).Cmp(g.Num().Mul(f.Den()))
}

// Equal reports whether f == g.
func (f Fraction) Equal(g Fraction) bool {
	// Reduced form makes the representation canonical.
	return f.sign == g.sign && f.num.Equal(g.num) && f.Den().Equal(g.Den())
}

// Less reports whether f < g.
func (f Fraction) Less(g Fraction) bool {
	return f.Cmp(g) < 0
}

// Float64 returns the nearest float64 to f. The result is for display only.
func (f Fraction) Float64() float64 {
	v, _ := new(big.Rat).SetFrac(f.Num().Big(), f.Den().Big()).Float64()
	return v
}
