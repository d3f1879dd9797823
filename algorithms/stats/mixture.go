package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultVarianceFloor is the smallest variance used when evaluating a likelihood,
// (1 ms)² for time-valued components.
const DefaultVarianceFloor = 1e-6

// Component is one 1-D Gaussian of a mixture
type Component struct {
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	Weight   float64 `json:"weight"` // normalized mixture coefficient
	N        float64 `json:"n"`      // unnormalized responsibility mass
	Silent   bool    `json:"silent"`
}

// StdDev returns the standard deviation of the component
func (c *Component) StdDev() float64 {
	return math.Sqrt(max(c.Variance, 0))
}

// Mass returns the absolute mass of the component (Weight × N)
func (c *Component) Mass() float64 {
	return c.Weight * c.N
}

// Likelihood evaluates the Gaussian density at x, with the variance floored at
// DefaultVarianceFloor.
func (c *Component) Likelihood(x float64) float64 {
	return c.likelihood(x, DefaultVarianceFloor)
}

func (c *Component) likelihood(x, floor float64) float64 {
	normal := distuv.Normal{Mu: c.Mean, Sigma: math.Sqrt(max(c.Variance, floor))}
	return normal.Prob(x)
}

// MixtureParams controls EM fitting
type MixtureParams struct {
	Tolerance     float64 `json:"tolerance"`      // stop when |ΔLL| falls below this
	MaxIterations int     `json:"max_iterations"` // hard bound on EM iterations
	VarianceFloor float64 `json:"variance_floor"` // applied only in likelihoods
}

// DefaultMixtureParams returns tolerance 1e-4, 1000 iterations and a (1 ms)² floor
func DefaultMixtureParams() MixtureParams {
	return MixtureParams{
		Tolerance:     1e-4,
		MaxIterations: 1000,
		VarianceFloor: DefaultVarianceFloor,
	}
}

// FitResult reports how an EM run ended
type FitResult struct {
	Iterations    int     `json:"iterations"`
	Converged     bool    `json:"converged"`
	LogLikelihood float64 `json:"log_likelihood"`
}

// Mixture is a 1-D Gaussian mixture fitted with weighted EM. Components are kept
// ordered by mean.
type Mixture struct {
	Components []*Component
	params     MixtureParams
}

// NewMixture wraps components in a mixture, ordering them by mean
func NewMixture(components []*Component, params MixtureParams) *Mixture {
	if params.VarianceFloor <= 0 {
		params.VarianceFloor = DefaultVarianceFloor
	}
	if params.MaxIterations <= 0 {
		params.MaxIterations = DefaultMixtureParams().MaxIterations
	}
	m := &Mixture{
		Components: components,
		params:     params,
	}
	m.SortByMean()
	return m
}

// SeedComponents places one component every spacing seconds over duration, centred in
// its step, with the given standard deviation and a uniform weight.
func SeedComponents(duration, spacing, stddev float64) []*Component {
	if duration <= 0 || spacing <= 0 {
		return nil
	}
	k := max(int(math.Floor(duration/spacing+1e-9)), 1)

	components := make([]*Component, k)
	for i := 0; i < k; i++ {
		components[i] = &Component{
			Mean:     (float64(i) + 0.5) * spacing,
			Variance: stddev * stddev,
			Weight:   1.0 / float64(k),
		}
	}
	return components
}

// SortByMean orders the components by ascending mean
func (m *Mixture) SortByMean() {
	sort.SliceStable(m.Components, func(i, j int) bool {
		return m.Components[i].Mean < m.Components[j].Mean
	})
}

// Len returns the number of components
func (m *Mixture) Len() int {
	return len(m.Components)
}

// Fit runs EM over the samples xs weighted by ws until the log-likelihood changes by
// less than the tolerance or the iteration bound is reached.
func (m *Mixture) Fit(xs, ws []float64) FitResult {
	result := FitResult{LogLikelihood: math.Inf(-1)}
	if len(m.Components) == 0 || len(xs) == 0 {
		return result
	}

	prev := math.Inf(-1)
	for result.Iterations < m.params.MaxIterations {
		resp := m.Expectation(xs, ws)
		m.Maximization(xs, resp)
		result.Iterations++

		ll := m.LogLikelihood(xs, ws)
		result.LogLikelihood = ll
		if math.Abs(ll-prev) < m.params.Tolerance {
			result.Converged = true
			break
		}
		prev = ll
	}

	m.SortByMean()
	return result
}

// Expectation returns resp[k][i], the responsibility of component k for sample i:
// likelihood × weight normalized across components, scaled by the sample weight.
func (m *Mixture) Expectation(xs, ws []float64) [][]float64 {
	resp := make([][]float64, len(m.Components))
	for k := range resp {
		resp[k] = make([]float64, len(xs))
	}

	for i, x := range xs {
		total := 0.0
		for k, c := range m.Components {
			p := c.likelihood(x, m.params.VarianceFloor) * c.Weight
			resp[k][i] = p
			total += p
		}

		for k := range resp {
			if total > 0 {
				resp[k][i] = resp[k][i] / total * ws[i]
			} else {
				resp[k][i] = 0
			}
		}
	}

	return resp
}

// Maximization re-estimates every component from the responsibilities. A component
// with no responsibility gets mean and variance 0. Weights are normalized to sum to 1,
// falling back to uniform weights when the mixture explains nothing.
func (m *Mixture) Maximization(xs []float64, resp [][]float64) {
	masses := make([]float64, len(m.Components))

	for k, c := range m.Components {
		n := floats.Sum(resp[k])
		masses[k] = n
		c.N = n

		if n <= 0 {
			c.Mean = 0
			c.Variance = 0
			continue
		}
		c.Mean, c.Variance = stat.PopMeanVariance(xs, resp[k])
		c.Variance = max(c.Variance, 0)
	}

	total := floats.Sum(masses)
	for k, c := range m.Components {
		if total > 0 {
			c.Weight = masses[k] / total
		} else {
			c.Weight = 1.0 / float64(len(m.Components))
		}
	}
}

// LogLikelihood is the sample-weighted log-likelihood of xs under the mixture. Samples
// with zero density contribute nothing.
func (m *Mixture) LogLikelihood(xs, ws []float64) float64 {
	ll := 0.0
	for i, x := range xs {
		p := 0.0
		for _, c := range m.Components {
			p += c.likelihood(x, m.params.VarianceFloor) * c.Weight
		}
		if p > 0 {
			ll += ws[i] * math.Log(p)
		}
	}
	return ll
}

// TotalWeight sums the mixture weights
func (m *Mixture) TotalWeight() float64 {
	total := 0.0
	for _, c := range m.Components {
		total += c.Weight
	}
	return total
}
