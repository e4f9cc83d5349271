package analyze

import (
	"time"

	"github.com/cwbudde/algo-room/band"
	"github.com/cwbudde/algo-room/measure/decay"
	"github.com/cwbudde/algo-room/measure/schroeder"
	"github.com/cwbudde/algo-room/room"
)

// bandResult is the Analyzer's per-band intermediate: the full decay curve
// and regression outputs for one FrequencyBand, plus its peak and
// noise-floor levels. It exists only for the duration of a run; the
// Analyzer releases these (including the large Curve slices) once the
// final Analysis is assembled, so the emitted Analysis never carries
// dangling references to sample buffers.
type bandResult struct {
	band         band.FrequencyBand
	curve        schroeder.Curve
	times        decay.Times
	peakDB       float64
	noiseFloorDB float64
	valid        bool
}

// Analysis is the terminal product of an analysis run: per-band measured
// and predicted decay times, their averages, and a coarse quality
// assessment. It is a self-contained value — no references to the source
// sample buffers survive into it.
type Analysis struct {
	Timestamp time.Time  `json:"timestamp"`
	Room      room.Model `json:"room_snapshot"`

	MeasuredRT60Seconds map[band.FrequencyBand]*float64 `json:"measured_rt60_seconds"`
	SabineRT60Seconds   map[band.FrequencyBand]float64  `json:"sabine_rt60_seconds"`
	EyringRT60Seconds   map[band.FrequencyBand]float64  `json:"eyring_rt60_seconds"`

	EDTSeconds map[band.FrequencyBand]*float64 `json:"edt_seconds"`
	T20Seconds map[band.FrequencyBand]*float64 `json:"t20_seconds"`
	T30Seconds map[band.FrequencyBand]*float64 `json:"t30_seconds"`

	PeakDB       map[band.FrequencyBand]*float64 `json:"peak_db"`
	NoiseFloorDB map[band.FrequencyBand]*float64 `json:"noise_floor_db"`

	AverageMeasuredRT60Seconds *float64 `json:"average_measured_rt60_seconds"`
	AverageSabineRT60Seconds   float64  `json:"average_sabine_rt60_seconds"`
	AverageEyringRT60Seconds   float64  `json:"average_eyring_rt60_seconds"`

	Quality     Quality  `json:"-"`
	QualityText string   `json:"quality_text"`
	Warnings    []string `json:"warnings,omitempty"`
}
