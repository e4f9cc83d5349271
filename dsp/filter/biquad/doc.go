// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Besides the usual causal
// [Section.ProcessSample] / [Section.ProcessBlock] pair it provides
// [Section.ProcessZeroPhase], a forward-then-backward pass used by offline,
// non-causal analysis — octave-band decomposition of a recorded impulse
// response, for instance — where zero group delay matters more than running
// in a single streaming pass.
//
// This package provides the processing runtime only; coefficient design
// lives with its callers.
package biquad
