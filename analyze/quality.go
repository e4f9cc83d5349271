package analyze

// Quality is a coarse, human-readable assessment of a room's reverberance,
// a pure function of the chosen representative RT60 (the average measured
// value if any band succeeded, else the average Sabine prediction).
type Quality int

const (
	QualityVeryDry         Quality = iota // < 0.3 s
	QualityDry                            // < 0.5 s
	QualityBalanced                       // < 0.8 s
	QualityLivelyRoom                     // < 1.2 s
	QualityReverberant                    // < 2.0 s
	QualityVeryReverberant                // >= 2.0 s
)

func (q Quality) String() string {
	switch q {
	case QualityVeryDry:
		return "very dry"
	case QualityDry:
		return "dry"
	case QualityBalanced:
		return "balanced"
	case QualityLivelyRoom:
		return "lively"
	case QualityReverberant:
		return "reverberant"
	case QualityVeryReverberant:
		return "very reverberant"
	default:
		return "unknown"
	}
}

// classifyQuality maps a representative RT60 in seconds into one of the
// six fixed buckets.
func classifyQuality(rt60Seconds float64) Quality {
	switch {
	case rt60Seconds < 0.3:
		return QualityVeryDry
	case rt60Seconds < 0.5:
		return QualityDry
	case rt60Seconds < 0.8:
		return QualityBalanced
	case rt60Seconds < 1.2:
		return QualityLivelyRoom
	case rt60Seconds < 2.0:
		return QualityReverberant
	default:
		return QualityVeryReverberant
	}
}
