package schroeder

import (
	"errors"

	"github.com/cwbudde/algo-room/dsp/core"
)

// ErrEmptyIR is returned when the input impulse response has no samples.
var ErrEmptyIR = errors.New("schroeder: impulse response is empty")

// ErrInvalidSampleRate is returned for a non-positive sample rate.
var ErrInvalidSampleRate = errors.New("schroeder: sample rate must be positive")

// floorDB is the numerical floor below which decay-curve entries are
// dropped; −80 dB is well past where a real measurement's noise floor
// would already have truncated useful decay.
const floorDB = -80.0

// maxPoints bounds the number of (time, level) pairs the curve retains:
// longer inputs are decimated so downstream regression stays cheap.
const maxPoints = 1000

// Curve is a normalized decay curve: ascending sample times in seconds and
// the corresponding Schroeder level in dB, normalized so Level[0] == 0.
// Level is monotonically non-increasing up to the numerical floor.
type Curve struct {
	Time  []float64
	Level []float64
}

// Len returns the number of points in the curve.
func (c Curve) Len() int {
	return len(c.Time)
}

// Integrate computes the Schroeder backward integral of the band-filtered
// impulse response b, sampled at sampleRate Hz:
//
//  1. e[n] = b[n]^2
//  2. S[n] = sum_{k=n..N-1} e[k], via a single reverse running total
//  3. normalize by S[0]; if S[0] <= 0 the curve is empty (the estimator
//     will fail InsufficientData downstream)
//  4. L[n] = 10*log10(S[n]/S[0]), L[0] = 0
//  5. entries with L[n] < -80 dB are dropped
//  6. decimated to at most maxPoints points
func Integrate(b []float64, sampleRate float64) (Curve, error) {
	if len(b) == 0 {
		return Curve{}, ErrEmptyIR
	}

	if sampleRate <= 0 {
		return Curve{}, ErrInvalidSampleRate
	}

	n := len(b)
	energy := make([]float64, n)

	var cumSum float64
	for i := n - 1; i >= 0; i-- {
		cumSum += b[i] * b[i]
		energy[i] = cumSum
	}

	total := energy[0]
	if total <= 0 {
		return Curve{}, nil
	}

	time := make([]float64, 0, n)
	level := make([]float64, 0, n)

	for i, s := range energy {
		// LinearPowerToDB is -Inf for a zero tail, which the floor check
		// below treats the same as any sub-floor level.
		db := core.LinearPowerToDB(s / total)
		if db < floorDB {
			break
		}

		time = append(time, float64(i)/sampleRate)
		level = append(level, db)
	}

	if len(level) > 0 {
		level[0] = 0
	}

	return decimate(Curve{Time: time, Level: level}, maxPoints), nil
}

// decimate returns c unchanged if it already has at most maxPts points;
// otherwise it keeps every stride-th point, with the last kept point
// replaced by the curve's final point, preserving
// the curve's start (0 dB), end, and monotonic shape.
func decimate(c Curve, maxPts int) Curve {
	n := c.Len()
	if n <= maxPts {
		return c
	}

	stride := (n + maxPts - 1) / maxPts

	time := make([]float64, 0, maxPts)
	level := make([]float64, 0, maxPts)

	for i := 0; i < n; i += stride {
		time = append(time, c.Time[i])
		level = append(level, c.Level[i])
	}

	// Pin the final kept point to the curve's true endpoint so the
	// decimated curve spans the same time range as the original.
	last := n - 1

	end := len(time) - 1
	if time[end] != c.Time[last] {
		time[end] = c.Time[last]
		level[end] = c.Level[last]
	}

	return Curve{Time: time, Level: level}
}
