// Package analyze is the top-level entry point for a room-reverberation
// measurement: given a captured buffer, a measurement mode, and a room
// model, it produces a structured Analysis cross-checking measured decay
// times against Sabine and Eyring geometric predictions.
package analyze
