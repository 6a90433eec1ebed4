// Package dynamics provides the level detectors used by the resonator.
//
// Included processors:
//   - EnvelopeFollower: two-stage follower with a release-shaped peak hold
//     feeding an attack smoother. Time constants are given in milliseconds.
//   - CrestFactor: running peak-to-RMS ratio of a signal with a single
//     averaging time in seconds.
//
// Processors are stateful, single-channel and not safe for concurrent use.
package dynamics
