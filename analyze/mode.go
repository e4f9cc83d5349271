package analyze

// ModeKind tags which measurement mode an Analyze call should dispatch on.
// The dispatch happens exactly once, at the top of Analyze.
type ModeKind int

const (
	// ModeESS recovers the impulse response by deconvolving a recorded
	// exponential sine sweep against its matched inverse filter.
	ModeESS ModeKind = iota
	// ModeImpulse locates and windows an acoustic event (clap, balloon
	// pop) within a raw recording.
	ModeImpulse
	// ModeRaw treats the input buffer as the impulse response as-is.
	ModeRaw
)

func (k ModeKind) String() string {
	switch k {
	case ModeESS:
		return "ess"
	case ModeImpulse:
		return "impulse"
	case ModeRaw:
		return "raw"
	default:
		return "unknown_mode"
	}
}

// The default ESS sweep covers the full audible range over 3 seconds.
const (
	defaultESSStartHz  = 20.0
	defaultESSEndHz    = 20000.0
	defaultESSDuration = 3.0
)

// ESSParams configures the sweep parameters used to recover the impulse
// response from a recorded ESS measurement.
type ESSParams struct {
	StartFreqHz float64
	EndFreqHz   float64
	DurationS   float64
}

// DefaultESSParams returns the default sweep parameters: 20 Hz to 20 kHz
// over 3 seconds.
func DefaultESSParams() ESSParams {
	return ESSParams{StartFreqHz: defaultESSStartHz, EndFreqHz: defaultESSEndHz, DurationS: defaultESSDuration}
}

// Mode is a tagged union over the three measurement modes: ESS(params),
// Impulse(threshold), or Raw. Construct one with ESSMode, ImpulseMode, or
// RawMode; the zero value is not a valid Mode.
type Mode struct {
	kind             ModeKind
	ess              ESSParams
	impulseThreshold float64
}

// ESSMode selects the ESS deconvolution path with the given sweep params.
func ESSMode(params ESSParams) Mode {
	return Mode{kind: ModeESS, ess: params}
}

// ImpulseMode selects the impulse-locator path with the given detection
// threshold: the minimum peak absolute value, as a fraction of full scale,
// that counts as an impulse.
func ImpulseMode(threshold float64) Mode {
	return Mode{kind: ModeImpulse, impulseThreshold: threshold}
}

// RawMode selects the pass-through path: the input buffer is used as the
// impulse response unchanged.
func RawMode() Mode {
	return Mode{kind: ModeRaw}
}

// Kind reports which measurement mode this Mode holds.
func (m Mode) Kind() ModeKind {
	return m.kind
}
