// Package biquad provides second-order IIR filter primitives.
//
// [BandPass] is the two-pole resonant band-pass used to isolate the band
// under analysis. It runs in Direct Form I with explicit input and output
// history. [Coefficients] carries the normalized transfer function together
// with frequency response and pole/zero analysis.
package biquad
