// Package room models the geometric and material description of a space
// being measured: its dimensions, bounding surfaces and their absorption
// profiles, and the ambient conditions that feed the geometric predictor.
package room

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-room/band"
)

// Errors returned by room model construction.
var (
	ErrInvalidDimension = errors.New("room: width, length, and height must be positive")
	ErrInvalidArea      = errors.New("room: surface area must be positive")
	ErrInvalidHumidity  = errors.New("room: humidity must be in (0, 100] percent")
)

// Surface is a named bounding surface with an area and an absorption
// material. The equivalent absorption area it contributes at a band is
// area * material.Alpha(band).
type Surface struct {
	Name     string   `json:"name"`
	AreaM2   float64  `json:"area_m2"`
	Material Material `json:"material"`
}

// NewSurface constructs a Surface, validating that its area is positive.
func NewSurface(name string, areaM2 float64, material Material) (Surface, error) {
	if areaM2 <= 0 {
		return Surface{}, ErrInvalidArea
	}

	return Surface{Name: name, AreaM2: areaM2, Material: material}, nil
}

// EquivalentAbsorptionArea returns this surface's contribution to the
// room's total absorption at band b, in m².
func (s Surface) EquivalentAbsorptionArea(b band.FrequencyBand) float64 {
	return s.AreaM2 * s.Material.Alpha(b)
}

// Model is the geometric and material description of a room: its
// dimensions, an ordered list of bounding surfaces, and the ambient
// temperature and humidity used by the air-absorption term.
type Model struct {
	Name         string    `json:"name"`
	Width        float64   `json:"width_m"`
	Length       float64   `json:"length_m"`
	Height       float64   `json:"height_m"`
	Surfaces     []Surface `json:"surfaces"`
	TemperatureC float64   `json:"temperature_c"`
	HumidityPct  float64   `json:"humidity_pct"` // (0, 100]
}

// Validate checks the room's dimensions, humidity, and surfaces.
func (r *Model) Validate() error {
	if r.Width <= 0 || r.Length <= 0 || r.Height <= 0 {
		return ErrInvalidDimension
	}

	if r.HumidityPct <= 0 || r.HumidityPct > 100 {
		return ErrInvalidHumidity
	}

	for _, s := range r.Surfaces {
		if s.AreaM2 <= 0 {
			return ErrInvalidArea
		}
	}

	return nil
}

// Volume returns the room's volume in m³.
func (r *Model) Volume() float64 {
	return r.Width * r.Length * r.Height
}

// TotalSurfaceArea returns the room's total bounding surface area in m²,
// computed from its dimensions (not summed from Surfaces, which may only
// partially cover the room's boundary).
func (r *Model) TotalSurfaceArea() float64 {
	w, l, h := r.Width, r.Length, r.Height
	return 2 * (w*l + w*h + l*h)
}

// SpeedOfSound returns the speed of sound in m/s at the room's temperature.
func (r *Model) SpeedOfSound() float64 {
	return 331.3 * math.Sqrt(1+r.TemperatureC/273.15)
}

// EquivalentAbsorptionArea returns the room's total equivalent absorption
// area A(b) at band b, summed over surfaces. If the room has no surfaces,
// it defaults to 10% of the total surface area (DefaultMaterial's flat α).
func (r *Model) EquivalentAbsorptionArea(b band.FrequencyBand) float64 {
	if len(r.Surfaces) == 0 {
		return r.TotalSurfaceArea() * 0.1
	}

	var total float64
	for _, s := range r.Surfaces {
		total += s.EquivalentAbsorptionArea(b)
	}

	return total
}
