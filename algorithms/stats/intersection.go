package stats

import (
	"math"
)

// Gaussian is a weighted 1-D normal density w·N(x; Mean, Variance)
type Gaussian struct {
	Mean     float64
	Variance float64
	Weight   float64
}

// Intersect returns the x between the two means where the weighted densities of a and
// b are equal. ok is false when no such point exists: both roots of the quadratic fall
// outside the open interval between the means, a weight is not positive, or the means
// coincide without the Gaussians being identical.
func Intersect(a, b Gaussian) (x float64, ok bool) {
	if a.Weight <= 0 || b.Weight <= 0 || a.Variance <= 0 || b.Variance <= 0 {
		return 0, false
	}

	lo, hi := math.Min(a.Mean, b.Mean), math.Max(a.Mean, b.Mean)
	between := func(v float64) bool { return v > lo && v < hi }

	if a.Variance == b.Variance {
		if a.Weight == b.Weight {
			return (a.Mean + b.Mean) / 2, true
		}
		if a.Mean == b.Mean {
			return 0, false
		}
		// equal variances cancel the quadratic term
		x = (a.Mean+b.Mean)/2 + a.Variance*math.Log(b.Weight/a.Weight)/(a.Mean-b.Mean)
		return x, between(x)
	}

	// (x-μa)²/va - (x-μb)²/vb = 2·ln(wa/wb) - ln(va/vb)
	k := 2*math.Log(a.Weight/b.Weight) - math.Log(a.Variance/b.Variance)
	qa := 1/a.Variance - 1/b.Variance
	qb := 2 * (b.Mean/b.Variance - a.Mean/a.Variance)
	qc := a.Mean*a.Mean/a.Variance - b.Mean*b.Mean/b.Variance - k

	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	r1 := (-qb + sq) / (2 * qa)
	r2 := (-qb - sq) / (2 * qa)

	in1, in2 := between(r1), between(r2)
	switch {
	case in1 && in2:
		mid := (a.Mean + b.Mean) / 2
		if math.Abs(r1-mid) <= math.Abs(r2-mid) {
			return r1, true
		}
		return r2, true
	case in1:
		return r1, true
	case in2:
		return r2, true
	}
	return 0, false
}

// gaussian views a component as a density weighted by its absolute mass
func (m *Mixture) gaussian(c *Component) Gaussian {
	return Gaussian{
		Mean:     c.Mean,
		Variance: max(c.Variance, m.params.VarianceFloor),
		Weight:   c.Mass(),
	}
}

// Intersection returns the mass-weighted intersection of two components
func (m *Mixture) Intersection(a, b *Component) (float64, bool) {
	return Intersect(m.gaussian(a), m.gaussian(b))
}

// Boundary returns the intersection of two components, or the midpoint of their means
// when the intersection is undefined.
func (m *Mixture) Boundary(a, b *Component) float64 {
	if x, ok := m.Intersection(a, b); ok {
		return x
	}
	return (a.Mean + b.Mean) / 2
}

// Overlapping reports whether two adjacent components cannot be separated: their
// intersection is undefined or lies within margin standard deviations of either mean.
func (m *Mixture) Overlapping(a, b *Component, margin float64) bool {
	x, ok := m.Intersection(a, b)
	if !ok {
		return true
	}
	ga, gb := m.gaussian(a), m.gaussian(b)
	if math.Abs(x-ga.Mean) < margin*math.Sqrt(ga.Variance) {
		return true
	}
	return math.Abs(x-gb.Mean) < margin*math.Sqrt(gb.Variance)
}

// Prune removes the lighter component of every overlapping adjacent pair until no
// adjacent pair overlaps. Each pass rebuilds the component list; the list never grows.
// Returns the number of components removed.
func (m *Mixture) Prune(margin float64) int {
	m.SortByMean()
	removed := 0

	for {
		kept := make([]*Component, 0, len(m.Components))
		for _, c := range m.Components {
			if len(kept) == 0 {
				kept = append(kept, c)
				continue
			}
			last := kept[len(kept)-1]
			if !m.Overlapping(last, c, margin) {
				kept = append(kept, c)
				continue
			}
			if c.Mass() > last.Mass() {
				kept[len(kept)-1] = c
			}
		}

		if len(kept) == len(m.Components) {
			return removed
		}
		removed += len(m.Components) - len(kept)
		m.Components = kept
	}
}

// MarkSilence flags every component whose mass is at most ratio × the largest mass.
// Components with no mass are always silent. Returns the number flagged.
func (m *Mixture) MarkSilence(ratio float64) int {
	maxMass := 0.0
	for _, c := range m.Components {
		maxMass = max(maxMass, c.Mass())
	}

	flagged := 0
	for _, c := range m.Components {
		mass := c.Mass()
		if mass <= ratio*maxMass {
			c.Silent = true
		}
		if c.Silent {
			flagged++
		}
	}
	return flagged
}
