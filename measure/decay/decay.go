// Package decay estimates reverberation decay times (EDT, T20, T30, and a
// direct RT60) from a Schroeder decay curve, using least-squares linear
// regression over a configured dB window with a correlation quality gate.
package decay

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-room/dsp/core"
	"github.com/cwbudde/algo-room/measure/schroeder"
)

// Errors returned by decay-time estimation. All are band-local: a caller
// composing a full analysis treats any of these as "this estimator is
// unavailable for this band," not a run-level failure.
var (
	ErrInsufficientData  = errors.New("decay: curve has too few points to fit")
	ErrInvalidDecayRange = errors.New("decay: curve never crosses the required dB thresholds")
	ErrLowCorrelation    = errors.New("decay: regression correlation below the quality gate")
	ErrImplausibleResult = errors.New("decay: computed decay time outside the plausible range")
)

// correlationGate is the minimum |Pearson r| a regression fit must reach;
// below this the slope estimate is considered unreliable noise, not decay.
const correlationGate = 0.9

// Plausible decay-time bounds; anything outside this range indicates a
// degenerate fit (near-zero or runaway slope) rather than a real decay.
const (
	minPlausibleSeconds = 0.05
	maxPlausibleSeconds = 15.0
)

// noiseFloorClamp bounds PeakDB and NoiseFloorDB away from -Inf for
// all-silent input.
const noiseFloorClamp = -120.0

// noiseFloorTailFraction is the fraction of the buffer's tail used to
// estimate the noise floor via RMS.
const noiseFloorTailFraction = 0.1

// Pair brackets a regression window by its start and end dB levels,
// both <= 0 with StartDB > EndDB.
type Pair struct {
	StartDB float64
	EndDB   float64
}

// The four standard decay-time windows: EDT over the first 10 dB, T20
// and T30 over progressively wider late-decay windows, and the direct
// RT60 path spanning the full 60 dB. The direct path is rarely reachable
// above the noise floor in practice; T30 is the expected primary
// estimator.
var (
	EDTPair    = Pair{StartDB: 0, EndDB: -10}
	T20Pair    = Pair{StartDB: -5, EndDB: -25}
	T30Pair    = Pair{StartDB: -5, EndDB: -35}
	DirectPair = Pair{StartDB: -5, EndDB: -65}
)

// Options selects which decay-time estimators ComputeTimes attempts,
// mirroring the analyze package's compute_edt/t20/t30/rt60_direct flags.
type Options struct {
	EDT        bool
	T20        bool
	T30        bool
	RT60Direct bool
}

// AllEstimators enables every decay-time estimator.
func AllEstimators() Options {
	return Options{EDT: true, T20: true, T30: true, RT60Direct: true}
}

// Times holds the four decay-time estimates for one band, each optional:
// a nil field means that estimator's quality gate was not met or its
// dB window was unreachable, never a sentinel zero.
type Times struct {
	EDT        *float64
	T20        *float64
	T30        *float64
	RT60Direct *float64
}

// Measured returns the single "measured RT60" per the priority rule
// direct > T30 > T20 > EDT, or nil if every estimator failed.
func (t Times) Measured() *float64 {
	switch {
	case t.RT60Direct != nil:
		return t.RT60Direct
	case t.T30 != nil:
		return t.T30
	case t.T20 != nil:
		return t.T20
	case t.EDT != nil:
		return t.EDT
	default:
		return nil
	}
}

// ComputeTimes attempts each estimator opts enables against curve,
// silently leaving a field nil when its regression fails any gate.
func ComputeTimes(curve schroeder.Curve, opts Options) Times {
	var t Times

	if opts.EDT {
		if v, err := Estimate(curve, EDTPair); err == nil {
			t.EDT = &v
		}
	}

	if opts.T20 {
		if v, err := Estimate(curve, T20Pair); err == nil {
			t.T20 = &v
		}
	}

	if opts.T30 {
		if v, err := Estimate(curve, T30Pair); err == nil {
			t.T30 = &v
		}
	}

	if opts.RT60Direct {
		if v, err := Estimate(curve, DirectPair); err == nil {
			t.RT60Direct = &v
		}
	}

	return t
}

// Estimate fits a least-squares line to curve over the index range
// bracketed by pair's dB thresholds and extrapolates it to a full 60 dB
// decay:
//
//  1. find i_s = first index with Level[i] <= StartDB, and i_e = first
//     index after i_s with Level[i] <= EndDB; ErrInvalidDecayRange if
//     either is missing.
//  2. least-squares regression of Level against Time over [i_s, i_e],
//     yielding slope (dB/s) and Pearson correlation rho.
//  3. reject if |rho| < 0.9 (ErrLowCorrelation).
//  4. RT = 60 / |slope|.
//  5. reject if RT falls outside [0.05, 15] seconds (ErrImplausibleResult).
func Estimate(curve schroeder.Curve, pair Pair) (float64, error) {
	n := curve.Len()
	if n < 2 {
		return 0, ErrInsufficientData
	}

	startIdx, endIdx := bracket(curve.Level, pair)
	if startIdx < 0 || endIdx < 0 {
		return 0, ErrInvalidDecayRange
	}

	slope, r, err := linearRegression(curve.Time[startIdx:endIdx+1], curve.Level[startIdx:endIdx+1])
	if err != nil {
		return 0, err
	}

	if math.Abs(r) < correlationGate {
		return 0, ErrLowCorrelation
	}

	if slope >= 0 {
		return 0, ErrInvalidDecayRange
	}

	rt := 60.0 / math.Abs(slope)
	if rt < minPlausibleSeconds || rt > maxPlausibleSeconds {
		return 0, ErrImplausibleResult
	}

	return rt, nil
}

// bracket locates the inclusive [startIdx, endIdx] index range spanning
// pair's dB thresholds, or (-1, -1) if either threshold is never crossed.
func bracket(level []float64, pair Pair) (startIdx, endIdx int) {
	startIdx, endIdx = -1, -1

	for i, v := range level {
		if startIdx < 0 && v <= pair.StartDB {
			startIdx = i
		}

		if startIdx >= 0 && i > startIdx && v <= pair.EndDB {
			endIdx = i
			break
		}
	}

	if endIdx <= startIdx {
		return -1, -1
	}

	return startIdx, endIdx
}

// linearRegression fits y = slope*x + intercept by ordinary least squares
// and returns the slope and the Pearson correlation coefficient r.
func linearRegression(x, y []float64) (slope, r float64, err error) {
	n := len(x)
	if n < 2 {
		return 0, 0, ErrInsufficientData
	}

	var sumX, sumY, sumXX, sumXY, sumYY float64

	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXX += x[i] * x[i]
		sumXY += x[i] * y[i]
		sumYY += y[i] * y[i]
	}

	nf := float64(n)

	denom := nf*sumXX - sumX*sumX
	if denom == 0 {
		return 0, 0, ErrInvalidDecayRange
	}

	slope = (nf*sumXY - sumX*sumY) / denom

	denX := math.Sqrt(nf*sumXX - sumX*sumX)
	denY := math.Sqrt(nf*sumYY - sumY*sumY)

	if denX == 0 || denY == 0 {
		return slope, 0, nil
	}

	r = (nf*sumXY - sumX*sumY) / (denX * denY)

	return slope, r, nil
}

// PeakDB returns 20*log10(max|b[n]|), clamped to >= -120 dB to avoid
// log(0) for silent input.
func PeakDB(b []float64) float64 {
	var peak float64

	for _, v := range b {
		if av := math.Abs(v); av > peak {
			peak = av
		}
	}

	return math.Max(core.LinearToDB(peak), noiseFloorClamp)
}

// NoiseFloorDB returns 20*log10(RMS) over the final 10% of b, clamped to
// >= -120 dB. Used to judge whether a measurement's decay reached the
// room's actual noise floor before the estimator's dB window runs out.
func NoiseFloorDB(b []float64) float64 {
	n := len(b)
	if n == 0 {
		return noiseFloorClamp
	}

	start := n - int(float64(n)*noiseFloorTailFraction)
	if start < 0 || start >= n {
		start = 0
	}

	tail := b[start:]

	var sumSq float64
	for _, v := range tail {
		sumSq += v * v
	}

	rms := math.Sqrt(sumSq / float64(len(tail)))

	return math.Max(core.LinearToDB(rms), noiseFloorClamp)
}
