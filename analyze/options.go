package analyze

// Options is the flag set controlling which decay-time estimators run and
// whether the geometric predictor includes air absorption. Cancellation
// is carried by
// the context.Context passed to Analyze rather than as a field here,
// matching this module's ambient stack (explicit parameters over
// embedded handles).
type Options struct {
	ComputeEDT        bool
	ComputeT20        bool
	ComputeT30        bool
	ComputeRT60Direct bool

	// FilterByBand enables the octave bandpass decomposition. When false,
	// every band's decay curve is computed from the unfiltered IR — only
	// useful for diagnostics, since the measured_rt60 values then stop
	// being per-band.
	FilterByBand bool

	// UseAirAbsorption toggles the 4*m(b)*V term in the Sabine and Eyring
	// predictions.
	UseAirAbsorption bool
}

// DefaultOptions enables every estimator, per-band filtering, and air
// absorption, the configuration a production measurement run uses.
func DefaultOptions() Options {
	return Options{
		ComputeEDT:        true,
		ComputeT20:        true,
		ComputeT30:        true,
		ComputeRT60Direct: true,
		FilterByBand:      true,
		UseAirAbsorption:  true,
	}
}
