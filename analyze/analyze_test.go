package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-room/band"
	"github.com/cwbudde/algo-room/internal/testutil"
	"github.com/cwbudde/algo-room/room"
)

func flatRoom(t *testing.T, alpha float64) *room.Model {
	t.Helper()

	mat, err := room.NewMaterial("flat", map[band.FrequencyBand]float64{
		band.Band125Hz: alpha, band.Band250Hz: alpha, band.Band500Hz: alpha,
		band.Band1kHz: alpha, band.Band2kHz: alpha, band.Band4kHz: alpha,
	})
	if err != nil {
		t.Fatalf("NewMaterial: %v", err)
	}

	floor, _ := room.NewSurface("floor", 35, mat)
	ceiling, _ := room.NewSurface("ceiling", 35, mat)
	walls, _ := room.NewSurface("walls", 72, mat)

	return &room.Model{
		Name: "test room", Width: 5, Length: 7, Height: 3,
		Surfaces:     []room.Surface{floor, ceiling, walls},
		TemperatureC: 20, HumidityPct: 50,
	}
}

func TestAnalyze_InvalidRoom(t *testing.T) {
	az := NewAnalyzer()
	rm := &room.Model{Width: -1, Length: 7, Height: 3, HumidityPct: 50}

	_, err := az.Analyze(context.Background(), Audio{Samples: []float64{1}, SampleRateHz: 44100}, RawMode(), rm, DefaultOptions())

	kind, ok := KindOf(err)
	if !ok || kind != KindInvalidRoom {
		t.Fatalf("err = %v, want KindInvalidRoom", err)
	}
}

func TestAnalyze_RawMode_RecoversKnownRT60(t *testing.T) {
	az := NewAnalyzer()
	rm := flatRoom(t, 0.2)

	rt60 := 0.6
	sampleRate := 44100.0
	samples := testutil.ExponentialDecay(rt60, sampleRate, int(2*sampleRate))

	opts := DefaultOptions()
	opts.FilterByBand = false // same broadband curve in every band, for a clean RT60 recovery check

	an, err := az.Analyze(context.Background(), Audio{Samples: samples, SampleRateHz: sampleRate}, RawMode(), rm, opts)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	for _, fb := range band.All {
		got := an.MeasuredRT60Seconds[fb]
		if got == nil {
			t.Fatalf("%v: measured RT60 is nil", fb)
		}

		if math.Abs(*got-rt60) > 0.05*rt60 {
			t.Errorf("%v: measured RT60 = %v, want within 5%% of %v", fb, *got, rt60)
		}
	}

	if an.AverageMeasuredRT60Seconds == nil {
		t.Fatal("AverageMeasuredRT60Seconds is nil")
	}

	if math.Abs(*an.AverageMeasuredRT60Seconds-rt60) > 0.05*rt60 {
		t.Errorf("average measured RT60 = %v, want within 5%% of %v", *an.AverageMeasuredRT60Seconds, rt60)
	}

	for _, fb := range band.All {
		if an.SabineRT60Seconds[fb] <= 0 {
			t.Errorf("%v: Sabine RT60 = %v, want > 0", fb, an.SabineRT60Seconds[fb])
		}

		if an.EyringRT60Seconds[fb] <= 0 {
			t.Errorf("%v: Eyring RT60 = %v, want > 0", fb, an.EyringRT60Seconds[fb])
		}
	}

	if an.QualityText == "" {
		t.Error("QualityText is empty")
	}
}

func TestAnalyze_DegenerateShortBuffer(t *testing.T) {
	az := NewAnalyzer()
	rm := flatRoom(t, 0.2)

	sampleRate := 44100.0
	samples := testutil.ExponentialDecay(3.0, sampleRate, int(0.05*sampleRate)) // 50ms, below the 0.1 s minimum the estimators accept

	an, err := az.Analyze(context.Background(), Audio{Samples: samples, SampleRateHz: sampleRate}, RawMode(), rm, DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if an.AverageMeasuredRT60Seconds != nil {
		t.Errorf("AverageMeasuredRT60Seconds = %v, want nil for a degenerate short buffer", *an.AverageMeasuredRT60Seconds)
	}

	for _, fb := range band.All {
		if an.MeasuredRT60Seconds[fb] != nil {
			t.Errorf("%v: measured RT60 = %v, want nil", fb, *an.MeasuredRT60Seconds[fb])
		}

		if an.SabineRT60Seconds[fb] <= 0 {
			t.Errorf("%v: Sabine RT60 should still be present and positive", fb)
		}
	}
}

func TestAnalyze_ImpulseMode_FallsBackToRawOnNoDetection(t *testing.T) {
	az := NewAnalyzer()
	rm := flatRoom(t, 0.2)

	sampleRate := 44100.0
	samples := testutil.ExponentialDecay(0.5, sampleRate, int(1.5*sampleRate))

	// threshold > 1 can never be reached by a [-1,1]-range signal, so the
	// locator always reports "no impulse detected" and the engine falls
	// back to the raw buffer with a warning.
	an, err := az.Analyze(context.Background(), Audio{Samples: samples, SampleRateHz: sampleRate}, ImpulseMode(2.0), rm, DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(an.Warnings) == 0 {
		t.Fatal("expected a fallback warning, got none")
	}
}

func TestAnalyze_CancelledContext(t *testing.T) {
	az := NewAnalyzer()
	rm := flatRoom(t, 0.2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sampleRate := 44100.0
	samples := testutil.ExponentialDecay(0.5, sampleRate, int(1.0*sampleRate))

	_, err := az.Analyze(ctx, Audio{Samples: samples, SampleRateHz: sampleRate}, RawMode(), rm, DefaultOptions())

	kind, ok := KindOf(err)
	if !ok || kind != KindCancelled {
		t.Fatalf("err = %v, want KindCancelled", err)
	}

	if !errors.Is(err, context.Canceled) {
		t.Errorf("errors.Is(err, context.Canceled) = false, want true")
	}
}

func TestAnalyze_DeconvolutionFailedIsFatalForESS(t *testing.T) {
	az := NewAnalyzer()
	rm := flatRoom(t, 0.2)

	// A zero start frequency makes LogSweep.Validate reject the sweep,
	// which the ESS path surfaces as DeconvolutionFailed.
	mode := ESSMode(ESSParams{StartFreqHz: 0, EndFreqHz: 20000, DurationS: 3})

	_, err := az.Analyze(context.Background(), Audio{Samples: make([]float64, 44100), SampleRateHz: 44100}, mode, rm, DefaultOptions())

	kind, ok := KindOf(err)
	if !ok || kind != KindDeconvolutionFailed {
		t.Fatalf("err = %v, want KindDeconvolutionFailed", err)
	}
}

func TestAnalysis_JSONBandKeysAndNullOptionals(t *testing.T) {
	az := NewAnalyzer()
	rm := flatRoom(t, 0.2)

	sampleRate := 44100.0
	samples := testutil.ExponentialDecay(3.0, sampleRate, int(0.05*sampleRate))

	an, err := az.Analyze(context.Background(), Audio{Samples: samples, SampleRateHz: sampleRate}, RawMode(), rm, DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	data, err := json.Marshal(an)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	measured, ok := decoded["measured_rt60_seconds"].(map[string]interface{})
	if !ok {
		t.Fatal("measured_rt60_seconds missing or wrong shape")
	}

	if _, ok := measured["125_hz"]; !ok {
		t.Fatal(`measured_rt60_seconds missing "125_hz" key`)
	}

	if measured["125_hz"] != nil {
		t.Errorf(`measured_rt60_seconds["125_hz"] = %v, want null for a degenerate buffer`, measured["125_hz"])
	}
}

func TestErrorKind_String(t *testing.T) {
	kinds := []ErrorKind{
		KindInsufficientData, KindDeconvolutionFailed, KindInvalidRoom,
		KindCancelled, KindComputationFault,
	}

	for _, k := range kinds {
		if k.String() == "" || k.String() == "unknown" {
			t.Errorf("%v.String() unexpectedly empty/unknown", k)
		}
	}
}

func TestQuality_Classification(t *testing.T) {
	cases := []struct {
		rt60 float64
		want Quality
	}{
		{0.1, QualityVeryDry},
		{0.4, QualityDry},
		{0.6, QualityBalanced},
		{1.0, QualityLivelyRoom},
		{1.5, QualityReverberant},
		{3.0, QualityVeryReverberant},
	}

	for _, tc := range cases {
		if got := classifyQuality(tc.rt60); got != tc.want {
			t.Errorf("classifyQuality(%v) = %v, want %v", tc.rt60, got, tc.want)
		}
	}
}
