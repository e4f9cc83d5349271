// Package deconv recovers a recording's impulse response from a sweep
// response and its matched inverse filter, via FFT-based convolution.
//
// See package sweep for generating the excitation and its inverse filter.
package deconv
