// Package instance reads problem documents and writes solver results.
//
// A document is YAML or JSON:
//
//	vars: [x1, x2]
//	a: [["1", "1"]]
//	b: ["4"]
//	c: ["3", "2"]
//	senses: ["<="]
//	free: [x2]
//
// Coefficients are strings ("3/4", "-2", "0.25"), integers, or
// {numerator, denominator} objects. Floating point literals are rejected
// since they do not denote an exact value.
package instance

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"

	"q.log/ratsimplex/bigint"
	"q.log/ratsimplex/fraction"
	"q.log/ratsimplex/model"
)

var (
	ErrNotExact     = errors.New("coefficient is not exact")
	ErrUnknownSense = errors.New("unknown constraint sense")
)

// Coefficient is an exact number in a problem document.
type Coefficient struct {
	fraction.Fraction
}

func (c *Coefficient) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.Wrap(ErrNotExact, "empty coefficient")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := fraction.Parse(s)
		if err != nil {
			return err
		}
		c.Fraction = f
		return nil
	case '{':
		var obj struct {
			Numerator   json.RawMessage `json:"numerator"`
			Denominator json.RawMessage `json:"denominator"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		if obj.Numerator == nil {
			return errors.Wrap(ErrNotExact, "missing numerator")
		}
		n, err := integer(obj.Numerator)
		if err != nil {
			return err
		}
		d := bigint.New(1)
		if obj.Denominator != nil {
			if d, err = integer(obj.Denominator); err != nil {
				return err
			}
		}
		f, err := fraction.FromInts(n, d)
		if err != nil {
			return err
		}
		c.Fraction = f
		return nil
	}
	n, err := integer(data)
	if err != nil {
		return err
	}
	c.Fraction = fraction.FromInteger(n)
	return nil
}

// integer parses a JSON integer literal or a string holding one.
func integer(data json.RawMessage) (bigint.Int, error) {
	text := string(bytes.TrimSpace(data))
	if len(text) > 0 && text[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return bigint.Int{}, err
		}
	}
	if bytes.ContainsAny([]byte(text), ".eE") {
		return bigint.Int{}, errors.Wrapf(ErrNotExact, "%s", text)
	}
	return bigint.Parse(text)
}

// Problem is a decoded document. Rows may carry a sense and variables may be
// free; Model brings both into standard form.
type Problem struct {
	Vars   []string        `json:"vars,omitempty"`
	A      [][]Coefficient `json:"a"`
	B      []Coefficient   `json:"b"`
	C      []Coefficient   `json:"c"`
	Senses []string        `json:"senses,omitempty"`
	Free   []string        `json:"free,omitempty"`
}

// Reader reads a problem file.
type Reader struct {
	filename string
}

func NewReader(filename string) *Reader {
	return &Reader{
		filename: filename,
	}
}

// Read decodes the file.
func (r *Reader) Read() (*Problem, error) {
	data, err := os.ReadFile(r.filename)
	if err != nil {
		return nil, err
	}
	p, err := Decode(data)
	if err != nil {
		return nil, errors.Wrap(err, r.filename)
	}
	return p, nil
}

// ConstructModelFromFile returns the *Model in standard form
func (r *Reader) ConstructModelFromFile() (*model.Model, error) {
	p, err := r.Read()
	if err != nil {
		return nil, err
	}
	m, err := p.Model()
	if err != nil {
		return nil, errors.Wrap(err, r.filename)
	}
	return m, nil
}

// Decode parses a YAML or JSON document. Unknown and duplicate fields are an
// error.
func Decode(data []byte) (*Problem, error) {
	j, err := yaml.YAMLToJSONStrict(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode problem")
	}
	dec := json.NewDecoder(bytes.NewReader(j))
	dec.DisallowUnknownFields()
	var p Problem
	if err := dec.Decode(&p); err != nil {
		return nil, errors.Wrap(err, "decode problem")
	}
	return &p, nil
}

// Model checks the shape of p and returns it in standard form. GE rows are
// negated, EQ rows become a pair and free variables are split, so the model
// may have more rows and columns than the document.
func (p *Problem) Model() (*model.Model, error) {
	n := len(p.C)
	if len(p.Vars) != 0 && len(p.Vars) != n {
		return nil, &model.ShapeError{Op: "Decode", What: "number of vars", Want: n, Got: len(p.Vars)}
	}
	if len(p.A) != len(p.B) {
		return nil, &model.ShapeError{Op: "Decode", What: "number of constraints", Want: len(p.B), Got: len(p.A)}
	}
	if len(p.Senses) != 0 && len(p.Senses) != len(p.B) {
		return nil, &model.ShapeError{Op: "Decode", What: "number of senses", Want: len(p.B), Got: len(p.Senses)}
	}

	m := model.NewModel(0, n)
	if len(p.Vars) != 0 {
		if err := m.SetNames(p.Vars); err != nil {
			return nil, err
		}
	}
	if err := m.SetC(values(p.C)); err != nil {
		return nil, err
	}

	//populate constraints
	for i, row := range p.A {
		if len(row) != n {
			return nil, &model.ShapeError{Op: "Decode", What: "row length", Want: n, Got: len(row)}
		}
		sense := model.LE
		if len(p.Senses) != 0 {
			s, err := model.ParseSense(p.Senses[i])
			if err != nil {
				return nil, errors.Wrapf(ErrUnknownSense, "row %d: %q", i+1, p.Senses[i])
			}
			sense = s
		}
		if err := m.AddRow(values(row), sense, p.B[i].Fraction); err != nil {
			return nil, err
		}
	}

	for _, name := range p.Free {
		j, ok := m.Column(name)
		if !ok {
			return nil, errors.Wrapf(model.ErrUnknownVariable, "free %q", name)
		}
		if err := m.SplitFree(j); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func values(cs []Coefficient) model.Vector {
	v := make(model.Vector, len(cs))
	for i, c := range cs {
		v[i] = c.Fraction
	}
	return v
}
