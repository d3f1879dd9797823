package temporal

import (
	"github.com/RyanBlaney/sonido-syllable/algorithms/common"
)

// OnsetRun is a maximal stretch of non-zero onset velocity
type OnsetRun struct {
	Start     int     // first non-zero index
	Peak      int     // index of the largest velocity inside the run
	End       int     // first zero index after the run, or the last index
	PeakValue float64 // velocity at Peak
}

// OnsetVelocity is the half-wave rectified first difference of an envelope, so only
// energy increases survive. out[0] is always zero.
func OnsetVelocity(envelope []float64) []float64 {
	return common.HalfWaveRectify(common.Diff(envelope))
}

// DetectOnsetRuns scans velocity for runs of non-zero values. A run starts at a
// non-zero sample, tracks its running maximum, and ends at the next zero sample. A run
// still open at the end of the sequence is closed at the final index.
func DetectOnsetRuns(velocity []float64) []OnsetRun {
	var runs []OnsetRun
	inRun := false
	var current OnsetRun

	for i, v := range velocity {
		if !inRun {
			if v != 0 {
				inRun = true
				current = OnsetRun{Start: i, Peak: i, PeakValue: v}
			}
			continue
		}

		if v == 0 {
			current.End = i
			runs = append(runs, current)
			inRun = false
			continue
		}
		if v > current.PeakValue {
			current.Peak = i
			current.PeakValue = v
		}
	}

	if inRun {
		current.End = len(velocity) - 1
		runs = append(runs, current)
	}

	return runs
}
