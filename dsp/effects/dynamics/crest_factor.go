package dynamics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-resonator/dsp/core"
)

const (
	defaultCrestTimeSec = 0.1

	// MinMeanSquare is the mean-of-squares floor below which CrestFactor
	// treats the signal as silent and reports 0.
	MinMeanSquare = 1e-30
)

// CrestFactor estimates the running peak-to-RMS ratio of a signal.
//
// Both a peak-hold and a plain mean of the squared input decay with the same
// one-pole coefficient. The estimate is sqrt(peak/mean): close to 1 for
// steady signals and larger for transient material.
//
// While the mean is at or below [MinMeanSquare] (silence since the start or
// after Reset) the estimate is 0, which downstream stages read as "no
// signal". The result is always finite.
//
// This processor is mono, real-time safe, and not thread-safe.
type CrestFactor struct {
	sampleRate int
	timeSec    float64

	coeff         float64
	oneMinusCoeff float64

	peakSq float64
	meanSq float64
}

// NewCrestFactor creates an estimator with a 0.1 s averaging time.
func NewCrestFactor(sampleRate int) (*CrestFactor, error) {
	if sampleRate < 1 {
		return nil, fmt.Errorf("crest factor sample rate must be >= 1: %d", sampleRate)
	}

	c := &CrestFactor{
		sampleRate: sampleRate,
		timeSec:    defaultCrestTimeSec,
	}
	c.updateCoefficient()

	return c, nil
}

// SampleRate returns the sample rate in Hz.
func (c *CrestFactor) SampleRate() int { return c.sampleRate }

// Time returns the averaging time in seconds.
func (c *CrestFactor) Time() float64 { return c.timeSec }

// SetTime sets the averaging time in seconds.
func (c *CrestFactor) SetTime(seconds float64) error {
	if seconds <= 0 || !core.IsFinite(seconds) {
		return fmt.Errorf("crest factor time must be positive and finite: %f", seconds)
	}

	c.timeSec = seconds
	c.updateCoefficient()

	return nil
}

// SetSampleRate updates the sample rate and recomputes the coefficient.
func (c *CrestFactor) SetSampleRate(sampleRate int) error {
	if sampleRate < 1 {
		return fmt.Errorf("crest factor sample rate must be >= 1: %d", sampleRate)
	}

	c.sampleRate = sampleRate
	c.updateCoefficient()

	return nil
}

// ProcessSample advances the estimator and returns the current crest factor.
func (c *CrestFactor) ProcessSample(in float64) float64 {
	sq := in * in
	weighted := c.oneMinusCoeff * sq

	c.peakSq = math.Max(sq, c.coeff*c.peakSq+weighted)
	c.meanSq = c.coeff*c.meanSq + weighted

	if c.meanSq <= MinMeanSquare {
		return 0
	}

	return math.Sqrt(c.peakSq / c.meanSq)
}

// PeakSquare returns the running peak of the squared input.
func (c *CrestFactor) PeakSquare() float64 { return c.peakSq }

// MeanSquare returns the running mean of the squared input.
func (c *CrestFactor) MeanSquare() float64 { return c.meanSq }

// Reset clears the running averages.
func (c *CrestFactor) Reset() {
	c.peakSq = 0
	c.meanSq = 0
}

func (c *CrestFactor) updateCoefficient() {
	c.coeff = core.TimeCoefficient(c.timeSec, float64(c.sampleRate))
	c.oneMinusCoeff = 1 - c.coeff
}
