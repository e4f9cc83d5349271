// Package band defines the fixed set of ISO octave bands this engine
// measures and predicts against.
package band

import (
	"fmt"
	"math"
)

// FrequencyBand is one of the six ISO octave-band center frequencies this
// engine operates on, from 125 Hz to 4 kHz.
type FrequencyBand int

// The six octave bands, in ascending order.
const (
	Band125Hz FrequencyBand = iota
	Band250Hz
	Band500Hz
	Band1kHz
	Band2kHz
	Band4kHz
)

// All lists the six bands in ascending frequency order.
var All = [...]FrequencyBand{
	Band125Hz,
	Band250Hz,
	Band500Hz,
	Band1kHz,
	Band2kHz,
	Band4kHz,
}

// centerFreqs holds the center frequency in Hz for each band, indexed by
// FrequencyBand.
var centerFreqs = [...]float64{
	Band125Hz: 125,
	Band250Hz: 250,
	Band500Hz: 500,
	Band1kHz:  1000,
	Band2kHz:  2000,
	Band4kHz:  4000,
}

// octaveRatio is √2, the half-octave multiplier defining each band's edges.
var octaveRatio = math.Sqrt2

// CenterHz returns the band's ISO center frequency in Hz.
func (b FrequencyBand) CenterHz() float64 {
	return centerFreqs[b]
}

// Edges returns the band's lower and upper edge frequencies, fc/√2 and fc·√2.
func (b FrequencyBand) Edges() (low, high float64) {
	fc := b.CenterHz()
	return fc / octaveRatio, fc * octaveRatio
}

// String returns the band's JSON/display key, e.g. "125_hz" or "4_khz".
func (b FrequencyBand) String() string {
	switch b {
	case Band125Hz:
		return "125_hz"
	case Band250Hz:
		return "250_hz"
	case Band500Hz:
		return "500_hz"
	case Band1kHz:
		return "1_khz"
	case Band2kHz:
		return "2_khz"
	case Band4kHz:
		return "4_khz"
	default:
		return "unknown_band"
	}
}

// byKey maps each band's String() key back to its FrequencyBand, built
// once from All so ParseKey stays in sync with String automatically.
var byKey = func() map[string]FrequencyBand {
	m := make(map[string]FrequencyBand, len(All))
	for _, b := range All {
		m[b.String()] = b
	}
	return m
}()

// ParseKey parses a band's serialized key ("125_hz", ..., "4_khz") back
// into a FrequencyBand.
func ParseKey(key string) (FrequencyBand, error) {
	b, ok := byKey[key]
	if !ok {
		return 0, fmt.Errorf("band: unrecognized band key %q", key)
	}

	return b, nil
}

// MarshalText implements encoding.TextMarshaler so that maps keyed by
// FrequencyBand serialize as {"125_hz": ..., "4_khz": ...} under
// encoding/json without a bespoke codec on every band-keyed map type.
func (b FrequencyBand) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, the inverse of
// MarshalText.
func (b *FrequencyBand) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}

	*b = parsed

	return nil
}
