// Package predict computes geometric reverberation-time predictions
// (Sabine and Eyring) from a room's volume, surface absorption, and
// ambient humidity, for cross-checking against measured decay times.
package predict

import (
	"math"

	"github.com/cwbudde/algo-room/band"
	"github.com/cwbudde/algo-room/dsp/core"
	"github.com/cwbudde/algo-room/room"
)

// outputMin and outputMax bound every predicted RT60, keeping downstream
// UI and quality assessment meaningful even for degenerate room models.
const (
	outputMin = 0.1
	outputMax = 10.0
)

// airAbsorption returns the simplified parametric air-absorption
// coefficient m(b): m = 5.5e-4 * sqrt(50/h) * (f/1000)^1.7, where h is
// humidity as a fraction in (0, 1] and f is the band's center frequency
// in Hz.
func airAbsorption(humidityFraction, freqHz float64) float64 {
	return 5.5e-4 * math.Sqrt(50/humidityFraction) * math.Pow(freqHz/1000, 1.7)
}

// Sabine returns the Sabine-equation RT60 prediction for band b:
//
//	T_sab(b) = 0.161 * V / (A(b) + 4*m(b)*V)
//
// clamped to [0.1, 10] seconds.
func Sabine(r *room.Model, b band.FrequencyBand) float64 {
	return SabineWithAirAbsorption(r, b, true)
}

// SabineWithAirAbsorption is Sabine with the 4*m(b)*V air-attenuation
// term included only when useAirAbsorption is true, for callers honoring
// the engine's use_air_absorption option.
func SabineWithAirAbsorption(r *room.Model, b band.FrequencyBand, useAirAbsorption bool) float64 {
	v := r.Volume()
	a := r.EquivalentAbsorptionArea(b)

	var m float64
	if useAirAbsorption {
		m = airAbsorption(r.HumidityPct/100, b.CenterHz())
	}

	t := 0.161 * v / (a + 4*m*v)

	return core.Clamp(t, outputMin, outputMax)
}

// Eyring returns the Eyring-equation RT60 prediction for band b, more
// accurate than Sabine at high mean absorption:
//
//	ᾱ(b)   = min(0.99, A(b)/S_total)
//	T_eyr(b) = 0.161*V / (-S_total*ln(1-ᾱ(b)) + 4*m(b)*V)
//
// clamped to [0.1, 10] seconds. As ᾱ(b) approaches 1 the denominator
// diverges and the formula correctly predicts near-zero RT, which the
// output clamp then floors at 0.1 s.
func Eyring(r *room.Model, b band.FrequencyBand) float64 {
	return EyringWithAirAbsorption(r, b, true)
}

// EyringWithAirAbsorption is Eyring with the 4*m(b)*V air-attenuation term
// included only when useAirAbsorption is true, for callers honoring the
// engine's use_air_absorption option.
func EyringWithAirAbsorption(r *room.Model, b band.FrequencyBand, useAirAbsorption bool) float64 {
	v := r.Volume()
	sTotal := r.TotalSurfaceArea()
	a := r.EquivalentAbsorptionArea(b)

	var m float64
	if useAirAbsorption {
		m = airAbsorption(r.HumidityPct/100, b.CenterHz())
	}

	meanAlpha := math.Min(0.99, a/sTotal)

	t := 0.161 * v / (-sTotal*math.Log(1-meanAlpha) + 4*m*v)

	return core.Clamp(t, outputMin, outputMax)
}
