package fraction

import (
	"strings"

	"q.log/ratsimplex/bigint"
)

// String returns "n" for integers and "n/d" otherwise.
func (f Fraction) String() string {
	if f.IsInteger() {
		return f.Num().String()
	}
	return f.Num().String() + "/" + f.Den().String()
}

// Parse reads "n", "n/d" or an exact decimal such as "-1.25".
func Parse(s string) (Fraction, error) {
	s = strings.TrimSpace(s)
	if n, d, ok := strings.Cut(s, "/"); ok {
		num, err := bigint.Parse(n)
		if err != nil {
			return Fraction{}, &SyntaxError{Input: s}
		}
		den, err := bigint.Parse(d)
		if err != nil {
			return Fraction{}, &SyntaxError{Input: s}
		}
		return FromInts(num, den)
	}
	if whole, frac, ok := strings.Cut(s, "."); ok {
		return parseDecimal(s, whole, frac)
	}
	num, err := bigint.Parse(s)
	if err != nil {
		return Fraction{}, &SyntaxError{Input: s}
	}
	return FromInteger(num), nil
}

// parseDecimal reads whole.frac as whole + frac/10^len(frac).
func parseDecimal(s, whole, frac string) (Fraction, error) {
	if frac == "" || strings.ContainsAny(frac, "+-") {
		return Fraction{}, &SyntaxError{Input: s}
	}
	whole, neg := strings.CutPrefix(whole, "-")
	if !neg {
		whole, _ = strings.CutPrefix(whole, "+")
	}
	if strings.ContainsAny(whole, "+-") {
		return Fraction{}, &SyntaxError{Input: s}
	}
	if whole == "" {
		whole = "0"
	}
	num, err := bigint.Parse(whole + frac)
	if err != nil {
		return Fraction{}, &SyntaxError{Input: s}
	}
	den, _ := bigint.Parse("1" + strings.Repeat("0", len(frac)))
	if neg {
		num = num.Neg()
	}
	return FromInts(num, den)
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Fraction {
	f, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return f
}

func (f Fraction) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Fraction) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// SyntaxError reports text that is not a rational number.
type SyntaxError struct {
	Input string
}

func (e *SyntaxError) Error() string {
	return `fraction: invalid rational "` + e.Input + `"`
}
