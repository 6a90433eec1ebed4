package biquad

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-resonator/dsp/core"
)

// history is the Direct Form I delay line of a BandPass.
type history struct {
	x1, x2 float64
	y1, y2 float64
}

// BandPass is a two-pole resonant band-pass filter processed in Direct
// Form I. The resonance control in [0, 1] narrows the passband as it
// approaches 1; at 0 the band is widest.
//
// Until a sample rate is set and SetCoefficients has run, the filter uses
// passthrough coefficients, so early samples reach the output unchanged.
//
// This processor is mono, real-time safe, and not thread-safe.
type BandPass struct {
	sampleRate int
	coeffs     Coefficients
	state      history
}

// NewBandPass returns a band-pass filter with no sample rate and unity
// passthrough coefficients.
func NewBandPass() *BandPass {
	return &BandPass{coeffs: Passthrough()}
}

// SampleRate returns the sample rate in Hz, or 0 when unset.
func (f *BandPass) SampleRate() int { return f.sampleRate }

// Coefficients returns the current normalized coefficients.
func (f *BandPass) Coefficients() Coefficients { return f.coeffs }

// SetSampleRate sets the sample rate used by SetCoefficients. It does not
// recompute coefficients or clear history.
func (f *BandPass) SetSampleRate(sampleRate int) error {
	if sampleRate < 1 {
		return fmt.Errorf("band-pass sample rate must be >= 1: %d", sampleRate)
	}

	f.sampleRate = sampleRate

	return nil
}

// SetCoefficients recomputes the filter for a center frequency in Hz and a
// resonance in [0, 1]. It is a no-op while the sample rate is unset.
// Resonance outside [0, 1] is the caller's responsibility.
func (f *BandPass) SetCoefficients(freqHz, resonance float64) {
	if f.sampleRate == 0 {
		return
	}

	f.coeffs = BandPassCoefficients(freqHz, resonance, float64(f.sampleRate))
}

// BandPassCoefficients designs the resonant band-pass section:
//
//	alpha = sin(w) * (1 - resonance)
//	b = [sin(w)/2, 0, -sin(w)/2], a = [1+alpha, -2cos(w), 1-alpha]
//
// normalized by a0. Peak gain at the center frequency is 1/(2*(1-resonance)).
func BandPassCoefficients(freqHz, resonance, sampleRate float64) Coefficients {
	omega := 2 * math.Pi * freqHz / sampleRate
	sn := math.Sin(omega)
	alpha := sn * (1 - resonance)

	b0 := 0.5 * sn

	return normalize(b0, 0, -b0, 1+alpha, -2*math.Cos(omega), 1-alpha)
}

// ProcessSample filters one input sample and returns the output. Output
// history below the denormal range is stored as zero.
func (f *BandPass) ProcessSample(x float64) float64 {
	c := &f.coeffs
	s := &f.state

	y := c.B0*x + c.B1*s.x1 + c.B2*s.x2 - c.A1*s.y1 - c.A2*s.y2

	s.y2 = s.y1
	s.y1 = core.FlushDenormals(y)
	s.x2 = s.x1
	s.x1 = x

	return y
}

// ProcessInPlace filters buf in place.
func (f *BandPass) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = f.ProcessSample(x)
	}
}

// Reset clears the input and output history. Coefficients are kept.
func (f *BandPass) Reset() {
	f.state = history{}
}
