// Package sweep generates the exponential sine sweep (ESS) excitation
// signal used to measure a room's impulse response, along with its
// matched inverse filter.
//
// A logarithmic sweep is the preferred excitation signal for measuring
// impulse responses of acoustic systems. Its key properties:
//
//   - Each octave takes equal time, giving uniform SNR across frequency
//   - The inverse filter is analytically known (time-reversed + amplitude compensation)
//   - A linear fade-in/fade-out envelope avoids spectral splatter at the band edges
//
// # Usage
//
// Generate a sweep and its inverse filter, play the sweep through the room,
// record the response, and hand both to package deconv:
//
//	s := &sweep.LogSweep{
//	    StartFreq: 20, EndFreq: 20000,
//	    Duration: 3, SampleRate: 48000,
//	}
//	excitation, _ := s.Generate()
//	inverse, _ := s.InverseFilter()
//	// ... play excitation through the room, record response ...
//	// ir, _ := deconv.Deconvolve(response, inverse, s.SampleRate, s.Duration)
package sweep
