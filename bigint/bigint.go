// Package bigint provides an immutable arbitrary-precision signed integer.
//
// Int wraps math/big but never mutates a receiver or an argument, so values
// can be copied and shared freely between goroutines.
package bigint

import (
	"math/big"
	"strings"
)

// Int is an immutable arbitrary-precision integer. The zero value is 0.
type Int struct {
	v *big.Int
}

var bigZero = new(big.Int)

// New returns x as an Int.
func New(x int64) Int {
	if x == 0 {
		return Int{}
	}
	return Int{v: big.NewInt(x)}
}

// FromBig returns a copy of x as an Int.
func FromBig(x *big.Int) Int {
	if x == nil || x.Sign() == 0 {
		return Int{}
	}
	return Int{v: new(big.Int).Set(x)}
}

// Parse reads a base-10 integer with an optional leading sign.
func Parse(s string) (Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Int{}, &SyntaxError{Input: s}
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Int{}, &SyntaxError{Input: s}
	}
	return wrap(v), nil
}

// FromDigits builds an Int from base-10 digits, most significant first.
func FromDigits(neg bool, digits []byte) (Int, error) {
	v := new(big.Int)
	ten := big.NewInt(10)
	for _, d := range digits {
		if d > 9 {
			return Int{}, &SyntaxError{Input: string(digits)}
		}
		v.Mul(v, ten)
		v.Add(v, big.NewInt(int64(d)))
	}
	if neg {
		v.Neg(v)
	}
	return wrap(v), nil
}

// wrap takes ownership of v, which must not be used by the caller afterwards.
func wrap(v *big.Int) Int {
	if v.Sign() == 0 {
		return Int{}
	}
	return Int{v: v}
}

func (x Int) big() *big.Int {
	if x.v == nil {
		return bigZero
	}
	return x.v
}

// Add returns x + y.
func (x Int) Add(y Int) Int {
	return wrap(new(big.Int).Add(x.big(), y.big()))
}

// Sub returns x - y.
func (x Int) Sub(y Int) Int {
	return wrap(new(big.Int).Sub(x.big(), y.big()))
}

// Mul returns x * y.
func (x Int) Mul(y Int) Int {
	if x.IsZero() || y.IsZero() {
		return Int{}
	}
	return wrap(new(big.Int).Mul(x.big(), y.big()))
}

// QuoRem returns the quotient truncated towards zero and the remainder,
// which has the sign of x. It panics with an *ArithmeticError if y is zero.
func (x Int) QuoRem(y Int) (Int, Int) {
	if y.IsZero() {
		panic(&ArithmeticError{Op: "bigint.QuoRem", Err: ErrDivisionByZero})
	}
	q, r := new(big.Int).QuoRem(x.big(), y.big(), new(big.Int))
	return wrap(q), wrap(r)
}

// Quo returns x / y truncated towards zero.
func (x Int) Quo(y Int) Int {
	q, _ := x.QuoRem(y)
	return q
}

// Neg returns -x.
func (x Int) Neg() Int {
	return wrap(new(big.Int).Neg(x.big()))
}

// Abs returns |x|.
func (x Int) Abs() Int {
	if x.Sign() >= 0 {
		return x
	}
	return x.Neg()
}

// GCD returns the non-negative greatest common divisor of x and y.
// GCD(0, 0) is 0.
func (x Int) GCD(y Int) Int {
	// big.Int.GCD requires non-negative operands for the plain form.
	a, b := new(big.Int).Abs(x.big()), new(big.Int).Abs(y.big())
	return wrap(new(big.Int).GCD(nil, nil, a, b))
}

// Cmp compares x and y and returns -1, 0 or +1.
func (x Int) Cmp(y Int) int {
	return x.big().Cmp(y.big())
}

// Equal reports whether x == y.
func (x Int) Equal(y Int) bool {
	return x.Cmp(y) == 0
}

// Sign returns -1, 0 or +1.
func (x Int) Sign() int {
	return x.big().Sign()
}

// IsZero reports whether x == 0.
func (x Int) IsZero() bool {
	return x.Sign() == 0
}

// IsOne reports whether x == 1.
func (x Int) IsOne() bool {
	return x.v != nil && x.v.IsInt64() && x.v.Int64() == 1
}

// Int64 returns x as an int64 and whether it fits.
func (x Int) Int64() (int64, bool) {
	b := x.big()
	if !b.IsInt64() {
		return 0, false
	}
	return b.Int64(), true
}

// Big returns a copy of x as a *big.Int.
func (x Int) Big() *big.Int {
	return new(big.Int).Set(x.big())
}

// String returns the base-10 representation of x.
func (x Int) String() string {
	return x.big().String()
}
