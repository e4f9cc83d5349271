// Package octave splits a wideband signal into the six ISO octave bands
// via zero-phase second-order bandpass filtering, for per-band decay
// analysis.
package octave

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-room/band"
	"github.com/cwbudde/algo-room/dsp/core"
	"github.com/cwbudde/algo-room/dsp/filter/biquad"
)

// ErrBandExcluded is returned when a band's center frequency is too close
// to or above the Nyquist frequency to be realized as a stable bandpass.
var ErrBandExcluded = errors.New("octave: band center frequency exceeds Nyquist limit")

// ErrInvalidSampleRate is returned for a non-positive sample rate.
var ErrInvalidSampleRate = errors.New("octave: sample rate must be positive")

// Q is the bandpass quality factor giving a one-octave bandwidth.
var q = math.Sqrt2

// nyquistGuard keeps a band's center frequency this fraction below the
// Nyquist frequency before it's excluded, avoiding the coefficient
// singularity as fc -> sr/2.
const nyquistGuard = 1e-6

// minSamplesFraction is the fraction of a second below which a bank
// returns its input unchanged rather than filtering it; the estimator
// downstream is responsible for failing such inputs with InsufficientData.
const minSamplesFraction = 0.1

// Coefficients designs the second-order bandpass biquad for center
// frequency fc at the given sample rate, using the Audio-EQ-Cookbook BPF
// formulas with Q = sqrt(2) (one-octave bandwidth) and the constant-0dB
// peak-gain form:
//
//	w0 = 2*pi*fc/sr;  alpha = sin(w0) / (2*Q)
//	b0 =  alpha;  b1 = 0;  b2 = -alpha
//	a0 = 1+alpha; a1 = -2*cos(w0); a2 = 1-alpha
//
// Coefficients are normalized by a0. Returns ErrBandExcluded if fc is too
// close to or above the Nyquist frequency.
func Coefficients(fc, sampleRate float64) (biquad.Coefficients, error) {
	if sampleRate <= 0 {
		return biquad.Coefficients{}, ErrInvalidSampleRate
	}

	nyquist := sampleRate / 2
	if fc > nyquist*(1-nyquistGuard) {
		return biquad.Coefficients{}, ErrBandExcluded
	}

	w0 := 2 * math.Pi * fc / sampleRate
	alpha := math.Sin(w0) / (2 * q)

	a0 := 1 + alpha

	return biquad.Coefficients{
		B0: alpha / a0,
		B1: 0,
		B2: -alpha / a0,
		A1: -2 * math.Cos(w0) / a0,
		A2: (1 - alpha) / a0,
	}, nil
}

// Bank holds one bandpass Section per non-excluded octave band, designed
// for a fixed sample rate.
type Bank struct {
	sampleRate float64
	bands      []band.FrequencyBand
	sections   map[band.FrequencyBand]*biquad.Section
}

// NewBank designs a bandpass section for every band in band.All at the
// given sample rate, silently excluding any band whose center frequency
// fails Coefficients' Nyquist check.
func NewBank(sampleRate float64) (*Bank, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	bk := &Bank{
		sampleRate: sampleRate,
		sections:   make(map[band.FrequencyBand]*biquad.Section),
	}

	for _, fb := range band.All {
		coeffs, err := Coefficients(fb.CenterHz(), sampleRate)
		if err != nil {
			continue
		}

		bk.bands = append(bk.bands, fb)
		bk.sections[fb] = biquad.NewSection(coeffs)
	}

	return bk, nil
}

// NewBankWithConfig builds a Bank from the core.ProcessorConfig functional
// option pattern (core.WithSampleRate, core.WithBlockSize) rather than a
// bare sample rate, for callers whose pipeline is already configured that
// way. BlockSize has no effect here: the bank always processes a caller's
// full buffer in one non-causal forward/backward pass, never in blocks.
func NewBankWithConfig(opts ...core.ProcessorOption) (*Bank, error) {
	cfg := core.ApplyProcessorOptions(opts...)
	return NewBank(cfg.SampleRate)
}

// SampleRate returns the bank's configured sample rate.
func (bk *Bank) SampleRate() float64 {
	return bk.sampleRate
}

// Bands returns the bands this bank can filter, in ascending order.
// Bands excluded by the Nyquist limit are omitted.
func (bk *Bank) Bands() []band.FrequencyBand {
	return bk.bands
}

// NumBands returns the count of non-excluded bands.
func (bk *Bank) NumBands() int {
	return len(bk.bands)
}

// Filter applies fb's zero-phase bandpass to samples and returns the
// filtered signal. samples is not modified; the returned slice is a copy.
//
// For inputs shorter than one tenth of a second, the bank returns the
// input unchanged (not filtered) per band, leaving InsufficientData
// detection to the decay estimator downstream; this applies to every band,
// excluded ones included. For longer inputs, returns ErrBandExcluded if fb
// was excluded at construction time.
func (bk *Bank) Filter(fb band.FrequencyBand, samples []float64) ([]float64, error) {
	out := make([]float64, len(samples))
	core.CopyInto(out, samples)

	if float64(len(samples)) < bk.sampleRate*minSamplesFraction {
		return out, nil
	}

	section, ok := bk.sections[fb]
	if !ok {
		return nil, ErrBandExcluded
	}

	section.ProcessZeroPhase(out)

	return out, nil
}
