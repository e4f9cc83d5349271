package deconv

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
)

// ErrDeconvolutionFailed is returned only when FFT setup is impossible
// (the required transform size would be zero). Every other input,
// however degenerate, still produces an IR.
var ErrDeconvolutionFailed = errors.New("deconv: FFT setup failed")

// preRollSamples is the fixed pre-peak margin kept in the returned window,
// preserving pre-echo and direct-sound structure ahead of the main peak.
const preRollSamples = 1000

// Result is the outcome of a deconvolution pass.
type Result struct {
	IR []float64 // windowed impulse response

	// PeakIndex is the sample index of the convolution peak within the
	// full (unwindowed) result, before clipping to the returned window.
	PeakIndex int

	// Warning is non-empty when the recovered IR's peak magnitude fell
	// outside a numerically safe float range, i.e. precision was lost
	// but a result was still produced.
	Warning string
}

// Deconvolve recovers the impulse response from recorded signal r given the
// matched inverse filter h, via r * h computed through FFT convolution:
//
//  1. N = next power of two >= len(r) + len(h).
//  2. Forward FFT of zero-padded r and h.
//  3. Pointwise complex multiplication.
//  4. Inverse FFT.
//  5. Locate the peak magnitude; return the window
//     [peak-1000 samples, peak + sampleRate*duration], clipped to bounds.
func Deconvolve(r, h []float64, sampleRate, duration float64) (Result, error) {
	n := len(r) + len(h) - 1
	fftSize := nextPowerOf2(len(r) + len(h))
	if fftSize == 0 {
		return Result{}, ErrDeconvolutionFailed
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrDeconvolutionFailed, err)
	}

	rPadded := make([]complex128, fftSize)
	for i, v := range r {
		rPadded[i] = complex(v, 0)
	}

	rFreq := make([]complex128, fftSize)
	if err := plan.Forward(rFreq, rPadded); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrDeconvolutionFailed, err)
	}

	hPadded := make([]complex128, fftSize)
	for i, v := range h {
		hPadded[i] = complex(v, 0)
	}

	hFreq := make([]complex128, fftSize)
	if err := plan.Forward(hFreq, hPadded); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrDeconvolutionFailed, err)
	}

	productFreq := make([]complex128, fftSize)
	for i := range productFreq {
		productFreq[i] = rFreq[i] * hFreq[i]
	}

	productTime := make([]complex128, fftSize)
	if err := plan.Inverse(productTime, productFreq); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrDeconvolutionFailed, err)
	}

	full := make([]float64, n)
	for i := range full {
		full[i] = real(productTime[i])
	}

	peak, peakVal := findPeak(full)

	start := peak - preRollSamples
	if start < 0 {
		start = 0
	}

	end := peak + int(sampleRate*duration)
	if end > len(full) {
		end = len(full)
	}

	ir := make([]float64, end-start)
	copy(ir, full[start:end])

	res := Result{IR: ir, PeakIndex: peak}
	if peakVal != 0 && (math.IsInf(peakVal, 0) || math.Abs(peakVal) > 1e150 || math.Abs(peakVal) < 1e-150) {
		res.Warning = "deconv: recovered IR peak magnitude is outside a numerically safe range; precision may be degraded"
	}

	return res, nil
}

func findPeak(buf []float64) (index int, value float64) {
	for i, v := range buf {
		if math.Abs(v) > math.Abs(value) {
			value = v
			index = i
		}
	}

	return index, value
}

// nextPowerOf2 returns the next power of 2 >= n, or 0 if n <= 0.
func nextPowerOf2(n int) int {
	if n <= 0 {
		return 0
	}

	p := 1
	for p < n {
		p *= 2
	}

	return p
}
