package syllable

import (
	"fmt"
	"math"
)

// Region is a half-open time interval [Start, End) in seconds
type Region struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns End - Start
func (r Region) Duration() float64 {
	return r.End - r.Start
}

// Overlap returns how many seconds r shares with other
func (r Region) Overlap(other Region) float64 {
	return math.Max(0, math.Min(r.End, other.End)-math.Max(r.Start, other.Start))
}

// Contains reports whether t falls inside the region
func (r Region) Contains(t float64) bool {
	return t >= r.Start && t < r.End
}

func (r Region) String() string {
	return fmt.Sprintf("[%.3f, %.3f)", r.Start, r.End)
}

// RegionsFromBoundaries turns an ascending boundary sequence into consecutive regions,
// skipping any pair that does not strictly increase.
func RegionsFromBoundaries(boundaries []float64) []Region {
	regions := make([]Region, 0, max(len(boundaries)-1, 0))
	for i := 1; i < len(boundaries); i++ {
		if boundaries[i] > boundaries[i-1] {
			regions = append(regions, Region{Start: boundaries[i-1], End: boundaries[i]})
		}
	}
	return regions
}

// Ordered reports whether regions are non-empty, strictly ascending and pairwise
// non-overlapping.
func Ordered(regions []Region) bool {
	for i, r := range regions {
		if r.End <= r.Start {
			return false
		}
		if i > 0 && r.Start < regions[i-1].End {
			return false
		}
	}
	return true
}
