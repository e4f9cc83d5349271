// Package schroeder converts a band-filtered impulse response into a
// smooth, monotonic decay curve by reverse cumulative energy summation
// (Schroeder, 1965), normalized to 0 dB at t=0.
package schroeder
