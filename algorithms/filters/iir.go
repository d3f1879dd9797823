package filters

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-syllable/algorithms/common"
)

// Coefficients describe a rational transfer function
//
//	H(z) = (B[0] + B[1]z^-1 + ... + B[n]z^-n) / (A[0] + A[1]z^-1 + ... + A[n]z^-n)
//
// A denominator of [1] makes the filter FIR. Use NewCoefficients to get the
// normalized form (A[0] == 1, len(B) == len(A)) every function here expects.
type Coefficients struct {
	B []float64 `json:"b"`
	A []float64 `json:"a"`
}

// NewCoefficients copies b and a, pads the shorter one with zeros and scales both so
// that A[0] == 1.
func NewCoefficients(b, a []float64) (Coefficients, error) {
	if len(b) == 0 || len(a) == 0 {
		return Coefficients{}, fmt.Errorf("numerator and denominator must be non-empty")
	}
	if a[0] == 0 {
		return Coefficients{}, fmt.Errorf("leading denominator coefficient must be non-zero")
	}

	n := max(len(b), len(a))
	c := Coefficients{
		B: make([]float64, n),
		A: make([]float64, n),
	}
	for i, v := range b {
		c.B[i] = v / a[0]
	}
	for i, v := range a {
		c.A[i] = v / a[0]
	}
	return c, nil
}

// MustCoefficients is NewCoefficients for fixed tables; it panics on invalid input.
func MustCoefficients(b, a []float64) Coefficients {
	c, err := NewCoefficients(b, a)
	if err != nil {
		panic(err)
	}
	return c
}

// Order returns the filter order (number of delay elements)
func (c Coefficients) Order() int {
	return max(len(c.B), len(c.A)) - 1
}

// DCGain returns H(1), the gain applied to a constant signal
func (c Coefficients) DCGain() float64 {
	den := common.Sum(c.A)
	if den == 0 {
		return 0
	}
	return common.Sum(c.B) / den
}

// Filter runs x through the difference equation starting from a zero state.
func Filter(c Coefficients, x []float64) []float64 {
	return FilterWithState(c, x, nil)
}

// FilterWithState runs x through the filter using the transposed direct form II
// structure:
//
//	y[n]   = b0*x[n] + z0[n-1]
//	zi[n]  = b(i+1)*x[n] + z(i+1)[n-1] - a(i+1)*y[n]
//
// zi seeds the delay line and may be nil for a zero initial state.
func FilterWithState(c Coefficients, x []float64, zi []float64) []float64 {
	n := c.Order() + 1
	out := make([]float64, len(x))
	if n == 0 {
		return out
	}

	b, a := c.B, c.A
	z := make([]float64, n-1)
	copy(z, zi)

	for k, sample := range x {
		if n == 1 {
			out[k] = b[0] * sample
			continue
		}

		y := b[0]*sample + z[0]
		for i := 0; i < n-2; i++ {
			z[i] = b[i+1]*sample + z[i+1] - a[i+1]*y
		}
		z[n-2] = b[n-1]*sample - a[n-1]*y
		out[k] = y
	}

	return out
}

// SteadyState returns the delay-line state that corresponds to the filter's steady
// response to a unit step. Scaling it by a signal's first sample removes the start-up
// transient. It is the solution of (I - C^T) zi = b[1:] - a[1:]*b[0], where C is the
// companion matrix of the denominator. Filters without state return nil, as do
// filters with a pole at z = 1.
func SteadyState(c Coefficients) []float64 {
	order := c.Order()
	if order <= 0 {
		return nil
	}

	m := mat.NewDense(order, order, nil)
	for i := 0; i < order; i++ {
		m.Set(i, i, 1)
		m.Set(i, 0, m.At(i, 0)+c.A[i+1])
		if i+1 < order {
			m.Set(i, i+1, -1)
		}
	}

	rhs := mat.NewVecDense(order, nil)
	for i := 0; i < order; i++ {
		rhs.SetVec(i, c.B[i+1]-c.A[i+1]*c.B[0])
	}

	var zi mat.VecDense
	if err := zi.SolveVec(m, rhs); err != nil {
		return nil
	}

	out := make([]float64, order)
	for i := range out {
		out[i] = zi.AtVec(i)
	}
	return out
}

// ZeroPhase filters x backward and then forward (reverse, filter, reverse, filter),
// which cancels the phase delay and squares the magnitude response. Each pass starts
// from the steady state for its first sample, so a unit-DC-gain filter leaves a
// constant signal unchanged.
func ZeroPhase(c Coefficients, x []float64) []float64 {
	if len(x) == 0 {
		return []float64{}
	}

	zi := SteadyState(c)

	reversed := common.Reverse(x)
	y := FilterWithState(c, reversed, scaled(zi, reversed[0]))

	y = common.Reverse(y)
	return FilterWithState(c, y, scaled(zi, y[0]))
}

func scaled(v []float64, s float64) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x * s
	}
	return out
}
