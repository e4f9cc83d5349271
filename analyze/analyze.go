package analyze

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-room/band"
	"github.com/cwbudde/algo-room/measure/decay"
	"github.com/cwbudde/algo-room/measure/deconv"
	"github.com/cwbudde/algo-room/measure/impulse"
	"github.com/cwbudde/algo-room/measure/octave"
	"github.com/cwbudde/algo-room/measure/schroeder"
	"github.com/cwbudde/algo-room/measure/sweep"
	"github.com/cwbudde/algo-room/predict"
	"github.com/cwbudde/algo-room/room"
)

// Audio is the raw captured buffer the engine works from: a contiguous
// mono sample sequence at a known sample rate.
type Audio struct {
	Samples      []float64
	SampleRateHz float64
}

// Analyzer runs the measurement pipeline. It holds no state between runs;
// every input is an explicit parameter, so independent Analyzer values
// (or the same one, reused) may run concurrently from different
// goroutines safely.
type Analyzer struct{}

// NewAnalyzer returns a ready-to-use Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze runs one full measurement: it resolves the impulse response per
// mode, computes per-band decay curves and times, predicts Sabine/Eyring
// from room, and returns the assembled Analysis.
//
// ctx carries cancellation: it is checked before the impulse response is
// resolved, again once it is resolved (after the FFT deconvolution pass in
// ESS mode), at the top of each band's goroutine, and again after each
// band's filter pass. A cancelled ctx causes Analyze to return a
// *EngineError{Kind: KindCancelled} with no partial Analysis.
//
// Band-local failures (a band's curve never reaching a required dB
// threshold, a low-correlation fit, an implausible decay time) never
// abort the run: that band's measured/EDT/T20/T30 values are simply nil
// in the returned Analysis. Only InvalidRoom, DeconvolutionFailed,
// Cancelled, and ComputationFault propagate as an error.
func (a *Analyzer) Analyze(ctx context.Context, audio Audio, mode Mode, rm *room.Model, opts Options) (*Analysis, error) {
	if err := rm.Validate(); err != nil {
		return nil, newEngineError(KindInvalidRoom, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, newEngineError(KindCancelled, err)
	}

	ir, warnings, err := resolveIR(audio, mode)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, newEngineError(KindCancelled, err)
	}

	bandResults, err := a.analyzeBands(ctx, ir, audio.SampleRateHz, opts)
	if err != nil {
		return nil, err
	}

	validBands := 0
	for _, res := range bandResults {
		if res.valid {
			validBands++
		}
	}

	if validBands == 0 {
		return nil, newEngineError(KindInsufficientData, errors.New("no band produced a usable decay curve"))
	}

	return assemble(rm, bandResults, opts, warnings)
}

// analyzeBands fans out one filter->Schroeder->estimate pipeline per
// FrequencyBand via errgroup, embarrassingly parallel: order
// among bands is immaterial, band identity is preserved by map key.
func (a *Analyzer) analyzeBands(ctx context.Context, ir []float64, sampleRate float64, opts Options) (map[band.FrequencyBand]bandResult, error) {
	var bank *octave.Bank

	if opts.FilterByBand {
		var err error

		bank, err = octave.NewBank(sampleRate)
		if err != nil {
			// A non-positive sample rate is bad input data, not an
			// internal invariant violation.
			return nil, newEngineError(KindInsufficientData, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	out := make(chan bandResult, len(band.All))

	for _, fb := range band.All {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			res, err := computeBand(gctx, fb, ir, sampleRate, bank, opts)
			if err != nil {
				return err
			}

			out <- res

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, newEngineError(KindCancelled, err)
		}

		return nil, newEngineError(KindComputationFault, err)
	}

	close(out)

	results := make(map[band.FrequencyBand]bandResult, len(band.All))
	for res := range out {
		results[res.band] = res
	}

	return results, nil
}

// minIRSeconds is the minimum impulse-response length the decay-time
// estimators accept. A shorter buffer still produces a decay curve and
// peak/floor levels, but its Schroeder tail drops off so steeply at the
// truncation point that any regression over it would report a spurious,
// plausible-looking decay time; all estimates are withheld instead.
const minIRSeconds = 0.1

// computeBand runs filter->Schroeder->estimate for one band. The only
// error it returns is ctx's, checked again after the filter pass (the
// band's most expensive step); band-local failures never surface as
// errors — a band that can't be filtered or integrated is simply reported
// invalid.
func computeBand(ctx context.Context, fb band.FrequencyBand, ir []float64, sampleRate float64, bank *octave.Bank, opts Options) (bandResult, error) {
	filtered := ir

	if bank != nil {
		f, err := bank.Filter(fb, ir)
		if err != nil {
			return bandResult{band: fb}, nil
		}

		filtered = f
	}

	if err := ctx.Err(); err != nil {
		return bandResult{}, err
	}

	curve, err := schroeder.Integrate(filtered, sampleRate)
	if err != nil || curve.Len() == 0 {
		return bandResult{band: fb}, nil
	}

	var times decay.Times
	if float64(len(filtered)) >= sampleRate*minIRSeconds {
		times = decay.ComputeTimes(curve, decay.Options{
			EDT:        opts.ComputeEDT,
			T20:        opts.ComputeT20,
			T30:        opts.ComputeT30,
			RT60Direct: opts.ComputeRT60Direct,
		})
	}

	return bandResult{
		band:         fb,
		curve:        curve,
		times:        times,
		peakDB:       decay.PeakDB(filtered),
		noiseFloorDB: decay.NoiseFloorDB(filtered),
		valid:        true,
	}, nil
}

// resolveIR dispatches on mode exactly once and returns the
// resolved impulse response samples plus any non-fatal warnings.
func resolveIR(audio Audio, mode Mode) ([]float64, []string, error) {
	switch mode.Kind() {
	case ModeESS:
		return resolveESS(audio, mode.ess)
	case ModeImpulse:
		return resolveImpulse(audio, mode.impulseThreshold)
	case ModeRaw:
		return audio.Samples, nil, nil
	default:
		return nil, nil, newEngineError(KindComputationFault, fmt.Errorf("unrecognized mode kind %v", mode.Kind()))
	}
}

func resolveESS(audio Audio, params ESSParams) ([]float64, []string, error) {
	sw := &sweep.LogSweep{
		StartFreq:  params.StartFreqHz,
		EndFreq:    params.EndFreqHz,
		Duration:   params.DurationS,
		SampleRate: audio.SampleRateHz,
	}

	inv, err := sw.InverseFilter()
	if err != nil {
		return nil, nil, newEngineError(KindDeconvolutionFailed, err)
	}

	result, err := deconv.Deconvolve(audio.Samples, inv, audio.SampleRateHz, params.DurationS)
	if err != nil {
		return nil, nil, newEngineError(KindDeconvolutionFailed, err)
	}

	var warnings []string
	if result.Warning != "" {
		warnings = append(warnings, result.Warning)
	}

	return result.IR, warnings, nil
}

func resolveImpulse(audio Audio, threshold float64) ([]float64, []string, error) {
	if threshold <= 0 {
		threshold = impulse.DefaultThreshold
	}

	win, err := impulse.Locate(audio.Samples, audio.SampleRateHz, threshold)
	if err != nil {
		warning := "impulse: no impulse detected above threshold; fell back to the raw buffer"
		return audio.Samples, []string{warning}, nil
	}

	return audio.Samples[win.Start:win.End], nil, nil
}

// assemble composes the final Analysis from per-band results and the
// room's geometric predictions.
func assemble(rm *room.Model, results map[band.FrequencyBand]bandResult, opts Options, warnings []string) (*Analysis, error) {
	an := &Analysis{
		Timestamp:           time.Now(),
		Room:                *rm,
		MeasuredRT60Seconds: make(map[band.FrequencyBand]*float64, len(band.All)),
		SabineRT60Seconds:   make(map[band.FrequencyBand]float64, len(band.All)),
		EyringRT60Seconds:   make(map[band.FrequencyBand]float64, len(band.All)),
		EDTSeconds:          make(map[band.FrequencyBand]*float64, len(band.All)),
		T20Seconds:          make(map[band.FrequencyBand]*float64, len(band.All)),
		T30Seconds:          make(map[band.FrequencyBand]*float64, len(band.All)),
		PeakDB:              make(map[band.FrequencyBand]*float64, len(band.All)),
		NoiseFloorDB:        make(map[band.FrequencyBand]*float64, len(band.All)),
		Warnings:            warnings,
	}

	var sumMeasured float64

	var countMeasured int

	var sumSabine, sumEyring float64

	for _, fb := range band.All {
		sabine := predict.SabineWithAirAbsorption(rm, fb, opts.UseAirAbsorption)
		eyring := predict.EyringWithAirAbsorption(rm, fb, opts.UseAirAbsorption)

		if math.IsNaN(sabine) || math.IsInf(sabine, 0) || math.IsNaN(eyring) || math.IsInf(eyring, 0) {
			return nil, newEngineError(KindComputationFault, fmt.Errorf("non-finite prediction for band %v", fb))
		}

		an.SabineRT60Seconds[fb] = sabine
		an.EyringRT60Seconds[fb] = eyring
		sumSabine += sabine
		sumEyring += eyring

		res, ok := results[fb]
		if !ok || !res.valid {
			an.MeasuredRT60Seconds[fb] = nil
			an.EDTSeconds[fb] = nil
			an.T20Seconds[fb] = nil
			an.T30Seconds[fb] = nil

			continue
		}

		an.EDTSeconds[fb] = res.times.EDT
		an.T20Seconds[fb] = res.times.T20
		an.T30Seconds[fb] = res.times.T30
		an.MeasuredRT60Seconds[fb] = res.times.Measured()

		peak, floor := res.peakDB, res.noiseFloorDB
		an.PeakDB[fb] = &peak
		an.NoiseFloorDB[fb] = &floor

		if m := res.times.Measured(); m != nil {
			sumMeasured += *m
			countMeasured++
		}
	}

	an.AverageSabineRT60Seconds = sumSabine / float64(len(band.All))
	an.AverageEyringRT60Seconds = sumEyring / float64(len(band.All))

	if countMeasured > 0 {
		avg := sumMeasured / float64(countMeasured)
		an.AverageMeasuredRT60Seconds = &avg
	}

	chosen := an.AverageSabineRT60Seconds
	if an.AverageMeasuredRT60Seconds != nil {
		chosen = *an.AverageMeasuredRT60Seconds
	}

	an.Quality = classifyQuality(chosen)
	an.QualityText = an.Quality.String()

	return an, nil
}
