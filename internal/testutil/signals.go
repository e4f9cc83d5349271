package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}

// ExponentialDecay generates a synthetic impulse response
// b[n] = exp(-k*n/sampleRate) whose squared (energy) envelope decays by
// 60 dB over rt60Seconds; k = ln(10^3) ensures -60 dB at rt60. Used to
// verify that the decay-time estimator recovers a known RT60 from a
// clean, noise-free exponential decay.
func ExponentialDecay(rt60Seconds, sampleRate float64, length int) []float64 {
	k := math.Log(1e3) / rt60Seconds
	out := make([]float64, length)
	for i := range out {
		t := float64(i) / sampleRate
		out[i] = math.Exp(-k * t)
	}
	return out
}
