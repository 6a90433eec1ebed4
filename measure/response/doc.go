// Package response measures the linear behaviour of single-channel sample
// processors from their impulse response.
//
// Measure drives a unit impulse through a processor, and FromImpulse turns
// any captured impulse response into a magnitude spectrum:
//
//	bp := biquad.NewBandPass()
//	_ = bp.SetSampleRate(48000)
//	bp.SetCoefficients(100, 0.9)
//	resp, err := response.Measure(bp, 48000, 1<<16)
//	peakHz, peakDB := resp.Peak()
//
// DecayTime estimates the -60 dB ring-down time of an impulse response from
// its Schroeder backward integral.
package response
