package common

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic numeric helpers shared by the filters, temporal and stats packages.
// They lean on gonum where a robust implementation already exists.

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// Sum returns the sum of data
func Sum(data []float64) float64 {
	return floats.Sum(data)
}

// Clamp constrains a value to a range
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ScoreRange maps value onto [0, 1] by linear interpolation between low and high,
// clamping outside the range. A degenerate range scores 1 at or above high and 0 below.
func ScoreRange(value, low, high float64) float64 {
	if high == low {
		if value >= high {
			return 1.0
		}
		return 0.0
	}
	return Clamp((value-low)/(high-low), 0.0, 1.0)
}
