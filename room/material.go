package room

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cwbudde/algo-room/band"
)

// ErrIncompleteMaterial is returned when a material's absorption profile
// does not specify every FrequencyBand.
var ErrIncompleteMaterial = errors.New("room: material must specify absorption for every band")

// ErrInvalidAlpha is returned when an absorption coefficient falls outside [0, 1].
var ErrInvalidAlpha = errors.New("room: absorption coefficient must be in [0, 1]")

// Material is a named absorption profile: a total mapping from every
// FrequencyBand to an absorption coefficient α ∈ [0, 1].
type Material struct {
	Name  string
	alpha [len(band.All)]float64
}

// NewMaterial constructs a Material from a complete per-band absorption map.
// Every FrequencyBand in band.All must have an entry in [0, 1].
func NewMaterial(name string, alpha map[band.FrequencyBand]float64) (Material, error) {
	var m Material
	m.Name = name

	for _, b := range band.All {
		a, ok := alpha[b]
		if !ok {
			return Material{}, fmt.Errorf("%w: missing %s", ErrIncompleteMaterial, b)
		}

		if a < 0 || a > 1 {
			return Material{}, fmt.Errorf("%w: %s = %v", ErrInvalidAlpha, b, a)
		}

		m.alpha[b] = a
	}

	return m, nil
}

// Alpha returns the material's absorption coefficient at band b.
func (m Material) Alpha(b band.FrequencyBand) float64 {
	return m.alpha[b]
}

// materialWire is Material's JSON-visible shape: alpha is unexported so it
// round-trips correctly through a material catalog (every instance must
// satisfy NewMaterial's completeness and range invariants) rather than
// being reconstructible field-by-field.
type materialWire struct {
	Name  string                         `json:"name"`
	Alpha map[band.FrequencyBand]float64 `json:"alpha"`
}

// MarshalJSON implements json.Marshaler, exposing the per-band alpha map
// the unexported array otherwise hides.
func (m Material) MarshalJSON() ([]byte, error) {
	alpha := make(map[band.FrequencyBand]float64, len(band.All))
	for _, b := range band.All {
		alpha[b] = m.alpha[b]
	}

	return json.Marshal(materialWire{Name: m.Name, Alpha: alpha})
}

// UnmarshalJSON implements json.Unmarshaler via NewMaterial, so a decoded
// Material still satisfies the completeness and range invariants.
func (m *Material) UnmarshalJSON(data []byte) error {
	var wire materialWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	built, err := NewMaterial(wire.Name, wire.Alpha)
	if err != nil {
		return err
	}

	*m = built

	return nil
}

// DefaultMaterial returns the constant fallback profile (α = 0.1 at every
// band), used when a room supplies no surfaces.
func DefaultMaterial() Material {
	alpha := make(map[band.FrequencyBand]float64, len(band.All))
	for _, b := range band.All {
		alpha[b] = 0.1
	}

	m, _ := NewMaterial("default", alpha)

	return m
}

// WellKnownMaterials returns a small named catalog of absorption profiles
// drawn from published architectural-acoustics tables, for use in tests
// and example room models where the flat default isn't representative.
func WellKnownMaterials() map[string]Material {
	catalog := map[string]map[band.FrequencyBand]float64{
		"painted_concrete": {
			band.Band125Hz: 0.01, band.Band250Hz: 0.01, band.Band500Hz: 0.02,
			band.Band1kHz: 0.02, band.Band2kHz: 0.02, band.Band4kHz: 0.02,
		},
		"glass": {
			band.Band125Hz: 0.18, band.Band250Hz: 0.06, band.Band500Hz: 0.04,
			band.Band1kHz: 0.03, band.Band2kHz: 0.02, band.Band4kHz: 0.02,
		},
		"carpet": {
			band.Band125Hz: 0.02, band.Band250Hz: 0.06, band.Band500Hz: 0.14,
			band.Band1kHz: 0.37, band.Band2kHz: 0.60, band.Band4kHz: 0.65,
		},
		"wood_floor": {
			band.Band125Hz: 0.15, band.Band250Hz: 0.11, band.Band500Hz: 0.10,
			band.Band1kHz: 0.07, band.Band2kHz: 0.06, band.Band4kHz: 0.07,
		},
		"acoustic_tile": {
			band.Band125Hz: 0.10, band.Band250Hz: 0.25, band.Band500Hz: 0.55,
			band.Band1kHz: 0.70, band.Band2kHz: 0.75, band.Band4kHz: 0.70,
		},
		"audience_seating": {
			band.Band125Hz: 0.30, band.Band250Hz: 0.45, band.Band500Hz: 0.60,
			band.Band1kHz: 0.68, band.Band2kHz: 0.70, band.Band4kHz: 0.68,
		},
	}

	materials := make(map[string]Material, len(catalog))

	for name, alpha := range catalog {
		m, err := NewMaterial(name, alpha)
		if err != nil {
			// The catalog above is a fixed literal with every band present;
			// a failure here is a programming error, not user input.
			panic(fmt.Sprintf("room: invalid built-in material %q: %v", name, err))
		}

		materials[name] = m
	}

	return materials
}
