package simplex

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"q.log/ratsimplex/bigint"
	"q.log/ratsimplex/fraction"
	"q.log/ratsimplex/model"
	"q.log/ratsimplex/oracle"
)

func vec(xs ...string) model.Vector {
	v := make(model.Vector, len(xs))
	for i, x := range xs {
		v[i] = fraction.MustParse(x)
	}
	return v
}

func mustModel(t *testing.T, a model.Matrix, b, c model.Vector) *model.Model {
	t.Helper()
	m, err := model.New(a, b, c)
	require.NoError(t, err)
	return m
}

// solveChecked solves m, checking the tableau invariant after every pivot
// and the certificate of the result.
func solveChecked(t *testing.T, m *model.Model, opts ...Option) Result {
	t.Helper()
	opts = append(opts, WithTrace(func(tab *Tableau) { checkInvariant(t, m, tab) }))
	res, err := Solve(m, opts...)
	require.NoError(t, err)
	require.NoError(t, Verify(m, res))
	return res
}

// checkInvariant asserts that every constraint row is its certificate row
// applied to the original ([A | I], b), and that the objective row is
// (-cost, 0) plus the certificate vector applied to the same system.
func checkInvariant(t *testing.T, m *model.Model, tab *Tableau) {
	t.Helper()
	n, rows := m.NumCols, m.NumRows
	orig := func(i, j int) fraction.Fraction {
		if j < n {
			return m.A[i][j]
		}
		if j-n == i {
			return fraction.FromInt(1)
		}
		return fraction.Fraction{}
	}
	combine := func(w model.Vector, j int) fraction.Fraction {
		var sum fraction.Fraction
		for i := 0; i < rows; i++ {
			sum = sum.Add(w[i].Mul(orig(i, j)))
		}
		return sum
	}

	coef, rhs, cm := tab.Coefficients(), tab.RHSColumn(), tab.CertificateMatrix()
	for r := 0; r < rows; r++ {
		for j := 0; j < n+rows; j++ {
			require.True(t, coef[r][j].Equal(combine(cm[r], j)), "row %d column %d\n%s", r, j, tab)
		}
		require.True(t, rhs[r].Equal(cm[r].Dot(m.B)), "row %d rhs\n%s", r, tab)
	}

	phase1 := len(tab.Variables()) > n+rows
	y, obj := tab.Certificate(), tab.ObjectiveRow()
	for j := 0; j < n+rows; j++ {
		want := combine(y, j)
		if !phase1 && j < n {
			want = want.Sub(m.C[j])
		}
		require.True(t, obj[j].Equal(want), "objective column %d\n%s", j, tab)
	}
	require.True(t, tab.Value().Equal(y.Dot(m.B)), "objective value\n%s", tab)
}

func TestSolveOptimal(t *testing.T) {
	m := mustModel(t, model.MatrixOf([]int64{1, 1}), model.VectorOf(4), model.VectorOf(3, 2))
	var stats Stats
	res := solveChecked(t, m, WithStats(&stats))

	opt, ok := res.(*Optimal)
	require.True(t, ok, "got %T", res)
	assert.Equal(t, OutcomeOptimal, res.Outcome())
	assert.Equal(t, "12", opt.Value.String())
	assert.Equal(t, []string{"4", "0"}, opt.Solution.Strings())
	assert.Equal(t, []string{"3"}, opt.Certificate.Strings())
	assert.Equal(t, Stats{Phase1Pivots: 0, Phase2Pivots: 1}, stats)
}

func TestSolveUnbounded(t *testing.T) {
	m := mustModel(t, model.MatrixOf([]int64{1, -1}), model.VectorOf(1), model.VectorOf(1, 0))
	res := solveChecked(t, m)

	unb, ok := res.(*Unbounded)
	require.True(t, ok, "got %T", res)
	assert.Equal(t, []string{"1", "0"}, unb.Solution.Strings())
	assert.Equal(t, []string{"1", "1"}, unb.Direction.Strings())
}

func TestSolveInfeasible(t *testing.T) {
	m := mustModel(t, model.MatrixOf([]int64{1, 0}, []int64{-1, 0}), model.VectorOf(-1, -1), model.VectorOf(0, 0))
	res := solveChecked(t, m)

	inf, ok := res.(*Infeasible)
	require.True(t, ok, "got %T", res)
	assert.Equal(t, []string{"1", "1"}, inf.Certificate.Strings())
}

func TestSolveZeroObjective(t *testing.T) {
	m := mustModel(t, model.MatrixOf([]int64{1, 1}), model.VectorOf(4), model.VectorOf(0, 0))
	var stats Stats
	res := solveChecked(t, m, WithStats(&stats))

	opt, ok := res.(*Optimal)
	require.True(t, ok, "got %T", res)
	assert.True(t, opt.Value.IsZero())
	assert.Equal(t, []string{"0", "0"}, opt.Solution.Strings())
	assert.Equal(t, []string{"0"}, opt.Certificate.Strings())
	assert.Zero(t, stats.Pivots())
}

func TestSolveDrivesOutArtificial(t *testing.T) {
	// x >= 1 and x <= 1 leave the artificial of the first row basic at
	// level zero after Phase 1.
	m := mustModel(t, model.MatrixOf([]int64{-1}, []int64{1}), model.VectorOf(-1, 1), model.VectorOf(1))
	var stats Stats
	res := solveChecked(t, m, WithStats(&stats))

	opt, ok := res.(*Optimal)
	require.True(t, ok, "got %T", res)
	assert.Equal(t, "1", opt.Value.String())
	assert.Equal(t, []string{"1"}, opt.Solution.Strings())
	assert.Equal(t, []string{"0", "1"}, opt.Certificate.Strings())
	assert.Equal(t, 2, stats.Phase1Pivots)
}

func TestSolveNoConstraints(t *testing.T) {
	m := mustModel(t, model.Matrix{}, model.Vector{}, model.VectorOf(1))
	res := solveChecked(t, m)
	unb, ok := res.(*Unbounded)
	require.True(t, ok, "got %T", res)
	assert.Equal(t, []string{"1"}, unb.Direction.Strings())

	m = mustModel(t, model.Matrix{}, model.Vector{}, model.VectorOf(-1))
	res = solveChecked(t, m)
	opt, ok := res.(*Optimal)
	require.True(t, ok, "got %T", res)
	assert.True(t, opt.Value.IsZero())
	assert.Empty(t, opt.Certificate)
}

func TestSolveEquality(t *testing.T) {
	m := model.NewModel(0, 2)
	require.NoError(t, m.SetC(model.VectorOf(1, 2)))
	require.NoError(t, m.AddRow(model.VectorOf(1, 1), model.EQ, fraction.FromInt(2)))
	require.NoError(t, m.AddRow(model.VectorOf(1, -1), model.EQ, fraction.FromInt(0)))

	res := solveChecked(t, m)
	opt, ok := res.(*Optimal)
	require.True(t, ok, "got %T", res)
	assert.Equal(t, "3", opt.Value.String())
	assert.Equal(t, []string{"1", "1"}, opt.Solution.Strings())
}

// The classical problem on which the largest-coefficient rule cycles.
func TestSolveBealeTerminates(t *testing.T) {
	a := model.Matrix{
		vec("1/4", "-8", "-1", "9"),
		vec("1/2", "-12", "-1/2", "3"),
		vec("0", "0", "1", "0"),
	}
	m := mustModel(t, a, vec("0", "0", "1"), vec("3/4", "-20", "1/2", "-6"))
	var stats Stats
	res := solveChecked(t, m, WithStats(&stats))

	opt, ok := res.(*Optimal)
	require.True(t, ok, "got %T", res)
	assert.Equal(t, "5/4", opt.Value.String())
	assert.Equal(t, []string{"1", "0", "1", "0"}, opt.Solution.Strings())
	assert.Equal(t, []string{"0", "3/2", "5/4"}, opt.Certificate.Strings())
	assert.Equal(t, 6, stats.Phase2Pivots)
}

func TestSolveScaledProblems(t *testing.T) {
	rows := [][]string{
		{"1", "1", "0", "0"},
		{"-1", "0", "-5", "5"},
		{"2", "1", "1", "-1"},
		{"-2", "-1", "-1", "1"},
	}
	scaled := func(k string) model.Matrix {
		f := fraction.MustParse(k)
		a := make(model.Matrix, len(rows))
		for i, r := range rows {
			a[i] = vec(r...).Scale(f)
		}
		return a
	}

	for _, tc := range []struct {
		name  string
		scale string
		b     model.Vector
		c     model.Vector
		value string
		cert  []string
	}{
		{"unit", "1", vec("5", "-10", "10", "-10"), vec("-3", "-4", "5", "-5"), "50", []string{"0", "0", "5", "0"}},
		{"times ten", "10", vec("50", "-100", "100", "-100"), vec("-30", "-40", "50", "-50"), "500", []string{"0", "0", "5", "0"}},
		{"hundredths", "1/100", vec("1/20", "-1/10", "1/10", "-1/10"), vec("3", "-4", "5", "-5"), "50", []string{"0", "0", "500", "0"}},
		{"hundredths objective", "1/100", vec("0.05", "-0.1", "0.1", "-0.1"), vec("0.03", "-0.04", "0.05", "-0.05"), "1/2", []string{"0", "0", "5", "0"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m := mustModel(t, scaled(tc.scale), tc.b, tc.c)
			res := solveChecked(t, m)
			opt, ok := res.(*Optimal)
			require.True(t, ok, "got %T", res)
			assert.Equal(t, tc.value, opt.Value.String())
			assert.Equal(t, []string{"0", "0", "10", "0"}, opt.Solution.Strings())
			assert.Equal(t, tc.cert, opt.Certificate.Strings())
		})
	}

	t.Run("unbounded", func(t *testing.T) {
		a := scaled("1")
		a[2][2] = fraction.MustParse("0.1")
		m := mustModel(t, a, vec("5", "-10", "10", "-10"), vec("-3", "-4", "5", "-5"))
		res := solveChecked(t, m)
		unb, ok := res.(*Unbounded)
		require.True(t, ok, "got %T", res)
		assert.Equal(t, []string{"0", "0", "100", "0"}, unb.Solution.Strings())
		assert.Equal(t, []string{"0", "0", "10", "1"}, unb.Direction.Strings())
	})
}

func TestSolveLargeValuesStayExact(t *testing.T) {
	big := fraction.MustParse("100000000000000000001")
	m := mustModel(t, model.Matrix{model.VectorOf(3)}, model.Vector{big}, model.VectorOf(1))
	res := solveChecked(t, m)
	opt, ok := res.(*Optimal)
	require.True(t, ok, "got %T", res)
	assert.Equal(t, "100000000000000000001/3", opt.Value.String())
	assert.Equal(t, []string{"1/3"}, opt.Certificate.Strings())
}

func TestSolveIsDeterministic(t *testing.T) {
	a := model.Matrix{vec("1/4", "-8", "-1", "9"), vec("1/2", "-12", "-1/2", "3"), vec("0", "0", "1", "0")}
	m := mustModel(t, a, vec("0", "0", "1"), vec("3/4", "-20", "1/2", "-6"))
	before := &model.Model{Names: m.Names, C: m.C.Clone(), A: m.A.Clone(), B: m.B.Clone(), NumRows: m.NumRows, NumCols: m.NumCols}

	first, err := Solve(m)
	require.NoError(t, err)
	second, err := Solve(m)
	require.NoError(t, err)

	eq := cmp.Comparer(func(x, y fraction.Fraction) bool { return x.Equal(y) })
	assert.Empty(t, cmp.Diff(first, second, eq))
	assert.Empty(t, cmp.Diff(before, m, eq), "input was modified")
}

func TestSolveRandomAgainstOracle(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	counts := map[Outcome]int{}
	for k := 0; k < 300; k++ {
		rows, cols := 1+rng.Intn(4), 1+rng.Intn(4)
		a := make(model.Matrix, rows)
		for i := range a {
			a[i] = model.NewVector(cols)
			for j := range a[i] {
				a[i][j] = fraction.FromInt(int64(rng.Intn(9) - 4))
			}
		}
		b := model.NewVector(rows)
		for i := range b {
			b[i] = fraction.FromInt(int64(rng.Intn(12) - 3))
		}
		c := model.NewVector(cols)
		for j := range c {
			c[j] = fraction.FromInt(int64(rng.Intn(9) - 3))
		}
		m := mustModel(t, a, b, c)

		res := solveChecked(t, m)
		counts[res.Outcome()]++

		want, err := oracle.Solve(m)
		if err != nil {
			t.Logf("problem %d: oracle failed: %v", k, err)
			continue
		}
		require.Equal(t, want.Status.String(), res.Outcome().String(), "problem %d", k)
		if opt, ok := res.(*Optimal); ok {
			assert.InDelta(t, want.Value, opt.Value.Float64(), 1e-6, "problem %d", k)
		}
	}
	t.Logf("outcomes: %v", counts)
	assert.NotZero(t, counts[OutcomeOptimal])
}

func TestSolveArithmeticFailure(t *testing.T) {
	m := mustModel(t, model.MatrixOf([]int64{1, 1}), model.VectorOf(4), model.VectorOf(3, 2))
	var stats Stats
	res, err := Solve(m, WithStats(&stats), WithTrace(func(*Tableau) {
		fraction.FromInt(1).Div(fraction.Fraction{})
	}))
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, bigint.ErrDivisionByZero))
	var ae *bigint.ArithmeticError
	assert.True(t, errors.As(err, &ae))
	assert.Equal(t, 1, stats.Pivots())
}

func TestSolveRepanicsOtherFailures(t *testing.T) {
	m := mustModel(t, model.MatrixOf([]int64{1, 1}), model.VectorOf(4), model.VectorOf(3, 2))
	assert.PanicsWithValue(t, "boom", func() {
		_, _ = Solve(m, WithTrace(func(*Tableau) { panic("boom") }))
	})
}

func TestSolveRejectsMalformedModel(t *testing.T) {
	m := model.NewModel(1, 2)
	m.B = nil
	_, err := Solve(m)
	var se *model.ShapeError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, "Validate", se.Op)
}

func TestSolveLogsBaseChanges(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	m := mustModel(t, model.MatrixOf([]int64{-1}, []int64{1}), model.VectorOf(-1, 1), model.VectorOf(1))
	_, err := Solve(m, WithLogger(logger))
	require.NoError(t, err)

	var changes []logrus.Fields
	for _, e := range hook.AllEntries() {
		if e.Message == "base change" {
			changes = append(changes, e.Data)
		}
	}
	require.Len(t, changes, 2)
	assert.Equal(t, phase1, changes[0]["phase"])
	assert.Equal(t, "x1", changes[0]["entering"])
	assert.Equal(t, "s2", changes[0]["leaving"])
	assert.Equal(t, "a1", changes[1]["leaving"])
	assert.Equal(t, "done", hook.LastEntry().Message)
}

func TestVerifyRejectsBadCertificates(t *testing.T) {
	m := mustModel(t, model.MatrixOf([]int64{1, 1}), model.VectorOf(4), model.VectorOf(3, 2))

	for _, tc := range []struct {
		name string
		res  Result
	}{
		{"infeasible point", &Optimal{Value: fraction.FromInt(15), Solution: vec("5", "0"), Certificate: vec("3")}},
		{"dual too small", &Optimal{Value: fraction.FromInt(8), Solution: vec("0", "4"), Certificate: vec("2")}},
		{"gap", &Optimal{Value: fraction.FromInt(12), Solution: vec("0", "4"), Certificate: vec("3")}},
		{"negative multiplier", &Infeasible{Certificate: vec("-1")}},
		{"not a Farkas ray", &Infeasible{Certificate: vec("1")}},
		{"bounded ray", &Unbounded{Solution: vec("0", "0"), Direction: vec("1", "0")}},
		{"short direction", &Unbounded{Solution: vec("0", "0"), Direction: vec("1")}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := Verify(m, tc.res)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidCertificate), "got %v", err)
		})
	}
}

func TestStatsPivots(t *testing.T) {
	assert.Equal(t, 5, Stats{Phase1Pivots: 2, Phase2Pivots: 3}.Pivots())
	assert.Equal(t, "phase1", phase1.String())
	assert.Equal(t, "phase2", phase2.String())
}

func TestOutcomeText(t *testing.T) {
	for o, want := range map[Outcome]string{
		OutcomeOptimal:    "optimal",
		OutcomeUnbounded:  "unbounded",
		OutcomeInfeasible: "infeasible",
		Outcome(9):        "unknown",
	} {
		text, err := o.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, want, string(text))
	}
}
