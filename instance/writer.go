package instance

import (
	"encoding/json"
	"io"
	"math"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"

	"q.log/ratsimplex/model"
	"q.log/ratsimplex/simplex"
)

var ErrUnknownFormat = errors.New("unknown output format")

// Output is the document written for one solve. Certificate holds the dual
// multipliers of an optimal or infeasible result and the direction of an
// unbounded one. Solution and Certificate follow the model columns and rows,
// which may differ from the document's when rows or variables were expanded.
type Output struct {
	File        string    `json:"file,omitempty"`
	Result      string    `json:"result"`
	Value       *float64  `json:"value,omitempty"`
	Solution    []float64 `json:"solution,omitempty"`
	Certificate []float64 `json:"certificate"`
	Vars        []string  `json:"vars"`
	Pivots      int       `json:"pivots"`
	Exact       *Exact    `json:"exact,omitempty"`
	Verified    *bool     `json:"verified,omitempty"`
	Oracle      string    `json:"oracle,omitempty"`
}

// Exact repeats the numeric fields of Output as exact fractions.
type Exact struct {
	Value       string   `json:"value,omitempty"`
	Solution    []string `json:"solution,omitempty"`
	Certificate []string `json:"certificate"`
}

// NewOutput describes res, a result for m. With exact set the fractions are
// included as text.
func NewOutput(m *model.Model, res simplex.Result, exact bool) *Output {
	o := &Output{
		Result: res.Outcome().String(),
		Vars:   append([]string(nil), m.Names...),
	}
	var sol, cert model.Vector
	var ex Exact
	switch r := res.(type) {
	case *simplex.Optimal:
		v := r.Value.Float64()
		o.Value = &v
		ex.Value = r.Value.String()
		sol, cert = r.Solution, r.Certificate
	case *simplex.Unbounded:
		sol, cert = r.Solution, r.Direction
	case *simplex.Infeasible:
		cert = r.Certificate
	}
	if sol != nil {
		o.Solution = sol.Floats()
		ex.Solution = sol.Strings()
	}
	o.Certificate = cert.Floats()
	ex.Certificate = cert.Strings()
	if exact {
		o.Exact = &ex
	}
	return o
}

// Encode writes o as "yaml" or "json".
func (o *Output) Encode(w io.Writer, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "yaml", "":
		data, err = yaml.Marshal(o)
	case "json":
		data, err = json.MarshalIndent(o, "", "  ")
		data = append(data, '\n')
	default:
		return errors.Wrap(ErrUnknownFormat, format)
	}
	if err != nil {
		return errors.Wrap(err, "encode output")
	}
	_, err = w.Write(data)
	return err
}

// FindSolution returns the value of the variable called name, or NaN if there
// is none. A free variable split into name+"p" and name+"n" is reported as
// their difference. Mismatched solution and vars yield NaN.
func FindSolution(name string, solution []float64, vars []string) float64 {
	if len(solution) != len(vars) {
		return math.NaN()
	}
	idx := func(s string) int {
		for i, v := range vars {
			if v == s {
				return i
			}
		}
		return -1
	}
	if i := idx(name); i >= 0 {
		return solution[i]
	}
	p, n := idx(name+"p"), idx(name+"n")
	if p >= 0 && n >= 0 {
		return solution[p] - solution[n]
	}
	return math.NaN()
}
