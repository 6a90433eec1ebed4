package response

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-resonator/dsp/core"
)

// Errors returned by response measurements.
var (
	ErrEmptyIR           = errors.New("response: impulse response is empty")
	ErrInvalidSampleRate = errors.New("response: sample rate must be positive")
	ErrInvalidFFTSize    = errors.New("response: FFT size must be a power of two >= 2")
	ErrNoDecay           = errors.New("response: insufficient decay for decay time")
)

// SampleProcessor maps one input sample to one output sample.
type SampleProcessor interface {
	ProcessSample(x float64) float64
}

// SampleFunc adapts a function to SampleProcessor.
type SampleFunc func(x float64) float64

// ProcessSample calls f(x).
func (f SampleFunc) ProcessSample(x float64) float64 { return f(x) }

// Response is a one-sided magnitude spectrum, bins 0 through Nyquist.
type Response struct {
	SampleRate float64
	FFTSize    int
	// Magnitude holds the linear magnitude of each bin.
	Magnitude []float64
}

// Impulse drives a unit impulse followed by n-1 zeros through p and returns
// the output. p is left in whatever state the impulse leaves it in.
func Impulse(p SampleProcessor, n int) []float64 {
	if n <= 0 {
		return nil
	}

	out := make([]float64, n)
	out[0] = p.ProcessSample(1)
	for i := 1; i < n; i++ {
		out[i] = p.ProcessSample(0)
	}

	return out
}

// Measure captures fftSize samples of p's impulse response and returns its
// magnitude spectrum.
func Measure(p SampleProcessor, sampleRate float64, fftSize int) (Response, error) {
	if !isPowerOf2(fftSize) {
		return Response{}, fmt.Errorf("%w: %d", ErrInvalidFFTSize, fftSize)
	}

	return FromImpulse(Impulse(p, fftSize), sampleRate)
}

// FromImpulse computes the magnitude spectrum of ir. The FFT size is the next
// power of two that holds ir; the remainder is zero padded.
func FromImpulse(ir []float64, sampleRate float64) (Response, error) {
	if len(ir) == 0 {
		return Response{}, ErrEmptyIR
	}

	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return Response{}, ErrInvalidSampleRate
	}

	fftSize := nextPowerOf2(max(len(ir), 2))

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Response{}, fmt.Errorf("response: failed to create FFT plan: %w", err)
	}

	in := make([]complex128, fftSize)
	for i, v := range ir {
		in[i] = complex(v, 0)
	}

	spec := make([]complex128, fftSize)
	if err := plan.Forward(spec, in); err != nil {
		return Response{}, fmt.Errorf("response: forward FFT: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for k := range bins {
		re[k] = real(spec[k])
		im[k] = imag(spec[k])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	return Response{SampleRate: sampleRate, FFTSize: fftSize, Magnitude: mag}, nil
}

// BinWidth returns the spacing between bins in Hz.
func (r Response) BinWidth() float64 {
	if r.FFTSize == 0 {
		return 0
	}

	return r.SampleRate / float64(r.FFTSize)
}

// Frequency returns the center frequency of bin k in Hz.
func (r Response) Frequency(k int) float64 {
	return float64(k) * r.BinWidth()
}

// MagnitudeDB returns the magnitude of bin k in dB.
func (r Response) MagnitudeDB(k int) float64 {
	return core.LinearToDB(r.Magnitude[k])
}

// At returns the linear magnitude at freqHz, interpolated between the two
// nearest bins. Frequencies outside [0, Nyquist] are clamped.
func (r Response) At(freqHz float64) float64 {
	if len(r.Magnitude) == 0 {
		return 0
	}

	last := len(r.Magnitude) - 1
	pos := core.Clamp(freqHz/r.BinWidth(), 0, float64(last))
	k := int(pos)

	if k >= last {
		return r.Magnitude[last]
	}

	frac := pos - float64(k)

	return r.Magnitude[k]*(1-frac) + r.Magnitude[k+1]*frac
}

// Peak returns the frequency and level in dB of the loudest bin above DC.
func (r Response) Peak() (freqHz, levelDB float64) {
	if len(r.Magnitude) < 2 {
		return 0, math.Inf(-1)
	}

	best := 1
	for k := 2; k < len(r.Magnitude); k++ {
		if r.Magnitude[k] > r.Magnitude[best] {
			best = k
		}
	}

	return r.Frequency(best), r.MagnitudeDB(best)
}

func isPowerOf2(n int) bool {
	return n >= 2 && n&(n-1) == 0
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
