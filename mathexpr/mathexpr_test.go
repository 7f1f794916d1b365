package mathexpr

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testVars = []string{"A", "B", "FLOW", "depth_1"}

func lookup(name string) int {
	for i, v := range testVars {
		if strings.EqualFold(v, name) {
			return i
		}
	}
	return -1
}

func eval(t *testing.T, formula string, vals ...float64) float64 {
	p, err := Build(formula, lookup)
	assert.NoError(t, err, formula)
	return p.Eval(func(ivar int) float64 {
		if ivar < len(vals) {
			return vals[ivar]
		}
		return 0
	})
}

func TestEval(t *testing.T) {
	// precedence, parentheses, unary signs
	{
		assert.InDelta(t, 5.0, eval(t, "1 + 2*3 - 4/2"), 1.0e-15)
		assert.InDelta(t, 21.0, eval(t, "(1+2)*(3+4)"), 1.0e-15)
		assert.InDelta(t, 2.0, eval(t, "-3 + 5"), 1.0e-15)
		assert.InDelta(t, -6.0, eval(t, "-(1+2)*2"), 1.0e-15)
		assert.InDelta(t, 64.0, eval(t, "2^3^2"), 1.0e-12)
		assert.InDelta(t, 0.125, eval(t, "2^(-3)"), 1.0e-15)
		assert.InDelta(t, 200.0, eval(t, "2E2"), 1.0e-15)
		assert.InDelta(t, 1.5, eval(t, "1.5e-1*10"), 1.0e-12)
	}
	// variables through the value callback
	{
		assert.InDelta(t, 127.0, eval(t, "2*(A+3)^2 - STEP(A)", 5), 1.0e-12)
		assert.InDelta(t, 7.0, eval(t, "a + B", 3, 4), 1.0e-15)
		assert.InDelta(t, 12.0, eval(t, "FLOW * depth_1", 0, 0, 3, 4), 1.0e-15)
	}
	// math functions
	{
		assert.InDelta(t, 7.0, eval(t, "SQRT(16) + LOG10(1000)"), 1.0e-12)
		assert.InDelta(t, 1.0, eval(t, "SIN(0)^2 + COS(0)^2"), 1.0e-12)
		assert.InDelta(t, 1.0, eval(t, "EXP(LOG(1))"), 1.0e-15)
		assert.InDelta(t, -1.0, eval(t, "SGN(0 - 42)"), 1.0e-15)
		assert.InDelta(t, 0.0, eval(t, "STEP(0)"), 1.0e-15)
		assert.InDelta(t, math.Tanh(1), eval(t, "TANH(1)"), 1.0e-12)
	}
	// domain errors clip to zero
	{
		assert.Equal(t, 0.0, eval(t, "SQRT(0-4)"))
		assert.Equal(t, 0.0, eval(t, "LOG(0-5)"))
		assert.Equal(t, 0.0, eval(t, "LOG10(0)"))
		assert.Equal(t, 0.0, eval(t, "COT(0)"))
		assert.Equal(t, 0.0, eval(t, "COTH(0)"))
		assert.Equal(t, 0.0, eval(t, "(0-2)^2")) // non-positive base clips
		assert.Equal(t, 0.0, eval(t, "0/0"))     // NaN result coerced
	}
	// a nil value callback reads every variable as zero
	{
		p, err := Build("A + 3", lookup)
		assert.NoError(t, err)
		assert.InDelta(t, 3.0, p.Eval(nil), 1.0e-15)
	}
}

func TestCommutativity(t *testing.T) {
	var (
		vals = [][2]float64{{2, 3}, {-1.5, 4.25}, {1e6, 1e-6}, {0.1, 0.7}}
	)
	for _, v := range vals {
		assert.Equal(t, eval(t, "A + B", v[0], v[1]), eval(t, "B + A", v[0], v[1]))
		assert.Equal(t, eval(t, "A * B", v[0], v[1]), eval(t, "B * A", v[0], v[1]))
	}
}

func TestFormatRoundTrip(t *testing.T) {
	var (
		formulas = []string{
			"2*(A+3)^2 - STEP(A)",
			"-B + A/2 - 0.5",
			"SQRT(A^2 + B^2)",
			"1.5e-1 * A - COS(B)",
			"A^(-2) + TANH(B)",
			"-(A + B)*3",
		}
		varName = func(ivar int) string { return testVars[ivar] }
		points  = []float64{0.25, 1, 3.5}
	)
	for _, f := range formulas {
		p, err := Build(f, lookup)
		assert.NoError(t, err, f)
		p2, err := Build(p.Format(varName), lookup)
		assert.NoError(t, err, p.Format(varName))
		for _, a := range points {
			for _, b := range points {
				getVar := func(ivar int) float64 {
					if ivar == 0 {
						return a
					}
					return b
				}
				assert.InDelta(t, p.Eval(getVar), p2.Eval(getVar), 1.0e-12, f)
			}
		}
	}
}

func TestBuildErrors(t *testing.T) {
	var (
		bad = []string{
			"2*(3",        // unbalanced parentheses
			"(1+2))",      // too many closers
			"SIN 3",       // function without (
			"2 +",         // operator missing operand
			"2 ^ A",       // exponent not a numeric literal
			"2 * unknown", // unresolvable variable name
			"3E+",         // malformed exponent
			"2 $ 3",       // stray character
		}
	)
	for _, f := range bad {
		_, err := Build(f, lookup)
		assert.Error(t, err, f)
	}
}
