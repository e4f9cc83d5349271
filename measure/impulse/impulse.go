// Package impulse locates an acoustic impulse event (clap, balloon pop,
// starter pistol) within a raw recording, for measurement runs that skip
// the exponential sweep entirely.
package impulse

import (
	"errors"
	"math"
)

// ErrNoImpulseDetected is returned when the buffer's peak absolute value
// never reaches the detection threshold. The caller may still choose to
// fall back to treating the raw buffer as the impulse response.
var ErrNoImpulseDetected = errors.New("impulse: no impulse detected")

// DefaultThreshold is the peak absolute value (of a [-1, 1]-normalized
// buffer) below which no impulse is considered present.
const DefaultThreshold = 0.3

// startThresholdRatio is the fraction of the peak value used to find
// where the impulse rises out of the noise floor, walking backward from
// the peak.
const startThresholdRatio = 0.1

// maxDurationSeconds caps the returned window's length, since an acoustic
// impulse's usable decay rarely exceeds a few seconds.
const maxDurationSeconds = 5.0

// Window is a half-open sample range [Start, End) within the source buffer.
type Window struct {
	Start int
	End   int
}

// Locate finds the impulse event in samples and returns the window
// containing it. threshold is the minimum peak absolute value (as a
// fraction of full scale) required to consider an impulse present; pass
// DefaultThreshold for the usual 0.3.
//
// Algorithm:
//  1. p = argmax |samples[n]|; P = |samples[p]|. If P < threshold,
//     ErrNoImpulseDetected is returned.
//  2. Walk backward from p until |samples[i]| drops below 0.1*P; that i
//     is the impulse start.
//  3. The window runs from start to the end of the buffer, capped at
//     5 seconds of audio.
func Locate(samples []float64, sampleRate, threshold float64) (Window, error) {
	if len(samples) == 0 {
		return Window{}, ErrNoImpulseDetected
	}

	peakIdx, peakVal := findPeak(samples)
	if peakVal < threshold {
		return Window{}, ErrNoImpulseDetected
	}

	startThreshold := startThresholdRatio * peakVal

	start := 0
	for i := peakIdx; i >= 0; i-- {
		if math.Abs(samples[i]) < startThreshold {
			start = i
			break
		}
	}

	end := len(samples)

	maxEnd := start + int(maxDurationSeconds*sampleRate)
	if end > maxEnd {
		end = maxEnd
	}

	return Window{Start: start, End: end}, nil
}

// findPeak returns the index and absolute value of the sample with the
// largest magnitude.
func findPeak(samples []float64) (index int, value float64) {
	for i, v := range samples {
		if av := math.Abs(v); av > value {
			value = av
			index = i
		}
	}

	return index, value
}
