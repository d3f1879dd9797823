package temporal

import (
	"math"
)

// Contour is a time series sampled every Step seconds starting at Start. Individual
// samples may be empty (unset) and are skipped by Points and ContentSize.
type Contour struct {
	start  float64
	step   float64
	values []float64
	empty  []bool
}

// Point is one non-empty (time, value) pair of a contour
type Point struct {
	Time  float64
	Value float64
}

// NewContour creates a contour holding a copy of values, all of them set
func NewContour(start, step float64, values []float64) *Contour {
	c := &Contour{
		start:  start,
		step:   step,
		values: make([]float64, len(values)),
		empty:  make([]bool, len(values)),
	}
	copy(c.values, values)
	return c
}

// NewEmptyContour creates a contour of n samples that are all empty
func NewEmptyContour(start, step float64, n int) *Contour {
	c := &Contour{
		start:  start,
		step:   step,
		values: make([]float64, n),
		empty:  make([]bool, n),
	}
	for i := range c.empty {
		c.empty[i] = true
	}
	return c
}

// Len returns the number of samples, empty ones included
func (c *Contour) Len() int {
	return len(c.values)
}

// Start returns the time of the first sample in seconds
func (c *Contour) Start() float64 {
	return c.start
}

// Step returns the sample spacing in seconds
func (c *Contour) Step() float64 {
	return c.step
}

// TimeAt converts a sample index into seconds
func (c *Contour) TimeAt(i int) float64 {
	return c.start + float64(i)*c.step
}

// IndexAt converts a time into the nearest sample index. The result may fall outside
// [0, Len()).
func (c *Contour) IndexAt(t float64) int {
	if c.step == 0 {
		return 0
	}
	return int(math.Round((t - c.start) / c.step))
}

// Get returns the value at i and whether it is set
func (c *Contour) Get(i int) (float64, bool) {
	if i < 0 || i >= len(c.values) || c.empty[i] {
		return 0, false
	}
	return c.values[i], true
}

// Set stores v at i and marks the sample as set
func (c *Contour) Set(i int, v float64) {
	if i < 0 || i >= len(c.values) {
		return
	}
	c.values[i] = v
	c.empty[i] = false
}

// SetEmpty marks the sample at i as unset
func (c *Contour) SetEmpty(i int) {
	if i < 0 || i >= len(c.values) {
		return
	}
	c.values[i] = 0
	c.empty[i] = true
}

// IsEmpty reports whether the sample at i is unset. Out-of-range indices are empty.
func (c *Contour) IsEmpty(i int) bool {
	return i < 0 || i >= len(c.values) || c.empty[i]
}

// ContentSize counts the non-empty samples
func (c *Contour) ContentSize() int {
	n := 0
	for _, e := range c.empty {
		if !e {
			n++
		}
	}
	return n
}

// Points returns the non-empty samples as (time, value) pairs in time order
func (c *Contour) Points() []Point {
	points := make([]Point, 0, c.ContentSize())
	for i, v := range c.values {
		if c.empty[i] {
			continue
		}
		points = append(points, Point{Time: c.TimeAt(i), Value: v})
	}
	return points
}

// Map returns a new contour with fn applied to every set value; empty samples stay
// empty.
func (c *Contour) Map(fn func(float64) float64) *Contour {
	out := NewEmptyContour(c.start, c.step, len(c.values))
	for i, v := range c.values {
		if !c.empty[i] {
			out.Set(i, fn(v))
		}
	}
	return out
}
