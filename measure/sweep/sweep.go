package sweep

import (
	"errors"
	"math"
)

// Errors returned by sweep functions.
var (
	ErrInvalidFrequency  = errors.New("sweep: frequency must be positive")
	ErrInvalidDuration   = errors.New("sweep: duration must be positive")
	ErrInvalidSampleRate = errors.New("sweep: sample rate must be positive")
	ErrFrequencyOrder    = errors.New("sweep: start frequency must be less than end frequency")
)

// peakAmplitude is the sweep's amplitude envelope ceiling A(t) reaches
// outside the fade regions.
const peakAmplitude = 0.8

// fadeFraction is the fraction of the sweep duration given to each of the
// fade-in and fade-out ramps.
const fadeFraction = 0.05

// LogSweep generates an exponential sine sweep (ESS) and its matched
// inverse filter for impulse response measurement.
//
// A logarithmic sweep has the property that each octave takes the same
// amount of time, making it ideal for room acoustic measurements. The
// corresponding inverse filter, when convolved with the recorded response,
// yields the room's impulse response.
type LogSweep struct {
	StartFreq  float64 // start frequency in Hz
	EndFreq    float64 // end frequency in Hz
	Duration   float64 // sweep duration in seconds
	SampleRate float64 // sample rate in Hz
}

// Validate checks that the LogSweep parameters are valid.
func (s *LogSweep) Validate() error {
	if s.StartFreq <= 0 || s.EndFreq <= 0 {
		return ErrInvalidFrequency
	}

	if s.StartFreq >= s.EndFreq {
		return ErrFrequencyOrder
	}

	if s.Duration <= 0 {
		return ErrInvalidDuration
	}

	if s.SampleRate <= 0 {
		return ErrInvalidSampleRate
	}

	return nil
}

// samples returns the total number of samples for the sweep.
func (s *LogSweep) samples() int {
	return int(math.Round(s.Duration * s.SampleRate))
}

// envelope returns the amplitude A(t) at time t: a linear fade-in and
// fade-out over fadeFraction of the duration at each end, peakAmplitude
// in between. Avoids the spectral splatter a hard-edged sweep would emit.
func (s *LogSweep) envelope(t float64) float64 {
	fadeDur := fadeFraction * s.Duration
	if fadeDur <= 0 {
		return peakAmplitude
	}

	switch {
	case t < fadeDur:
		return peakAmplitude * (t / fadeDur)
	case t > s.Duration-fadeDur:
		return peakAmplitude * ((s.Duration - t) / fadeDur)
	default:
		return peakAmplitude
	}
}

// Generate creates the logarithmic sine sweep signal x(t) = A(t)*sin(φ(t)).
//
// The instantaneous frequency increases exponentially from StartFreq to EndFreq:
//
//	f(t) = f1 * exp(R*t), R = ln(f2/f1) / D
//
// The phase integral gives:
//
//	φ(t) = 2π * f1/R * (exp(R*t) - 1)
func (s *LogSweep) Generate() ([]float64, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	n := s.samples()
	out := make([]float64, n)

	lnRatio := math.Log(s.EndFreq / s.StartFreq)
	r := lnRatio / s.Duration

	for i := range out {
		t := float64(i) / s.SampleRate
		phase := 2 * math.Pi * s.StartFreq / r * (math.Exp(r*t) - 1)
		out[i] = s.envelope(t) * math.Sin(phase)
	}

	return out, nil
}

// InverseFilter creates the matched inverse filter for deconvolution.
//
// For a log sweep, the inverse filter is the time-reversed sweep with
// amplitude compensation that decreases at 6 dB/octave (to compensate for
// the sweep's increasing energy per frequency band, i.e. the ESS's
// -3 dB/octave energy slope):
//
//	h_inv(t) = x(T-t) * (f1/f(T-t))
//
// This ensures that convolution of the sweep with its inverse yields an
// impulse (Dirac delta) at the tail of the kernel. The result is normalized
// so its peak absolute value is 1.
func (s *LogSweep) InverseFilter() ([]float64, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	n := s.samples()

	sweep, err := s.Generate()
	if err != nil {
		return nil, err
	}

	T := s.Duration
	lnRatio := math.Log(s.EndFreq / s.StartFreq)
	r := lnRatio / T

	inv := make([]float64, n)

	var peak float64

	for i := range inv {
		// Reverse index into the original sweep.
		j := n - 1 - i

		// Time in the original sweep for sample j, and the instantaneous
		// frequency there.
		t := float64(j) / s.SampleRate
		fInst := s.StartFreq * math.Exp(r*t)

		// Amplitude compensation: normalize by instantaneous frequency
		// (6 dB/octave rolloff to flatten the energy spectrum).
		amp := s.StartFreq / fInst

		inv[i] = sweep[j] * amp
		if a := math.Abs(inv[i]); a > peak {
			peak = a
		}
	}

	if peak > 0 {
		scale := 1.0 / peak
		for i := range inv {
			inv[i] *= scale
		}
	}

	return inv, nil
}
