package dynamics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-resonator/dsp/core"
)

const (
	defaultFollowerAttackMs  = 0.01
	defaultFollowerReleaseMs = 40.0
)

// EnvelopeFollower is a two-stage attack/release smoother.
//
// The first stage is a peak hold with exponential release: it jumps to the
// input magnitude immediately and falls back at the release rate. The second
// stage low-passes the first with the attack time constant. Fed with a gain
// change signal it rises quickly when more change is demanded and relaxes
// slowly afterwards.
//
// This processor is mono, real-time safe, and not thread-safe.
type EnvelopeFollower struct {
	sampleRate int
	attackMs   float64
	releaseMs  float64

	attackCoeff         float64
	oneMinusAttackCoeff float64
	releaseCoeff        float64
	oneMinusRelease     float64

	hold float64 // stage 1: peak hold with release
	out  float64 // stage 2: attack-smoothed output
}

// NewEnvelopeFollower creates a follower with a 0.01 ms attack and a 40 ms
// release.
func NewEnvelopeFollower(sampleRate int) (*EnvelopeFollower, error) {
	if sampleRate < 1 {
		return nil, fmt.Errorf("envelope follower sample rate must be >= 1: %d", sampleRate)
	}

	e := &EnvelopeFollower{
		sampleRate: sampleRate,
		attackMs:   defaultFollowerAttackMs,
		releaseMs:  defaultFollowerReleaseMs,
	}
	e.updateCoefficients()

	return e, nil
}

// SampleRate returns the sample rate in Hz.
func (e *EnvelopeFollower) SampleRate() int { return e.sampleRate }

// Attack returns the attack time in milliseconds.
func (e *EnvelopeFollower) Attack() float64 { return e.attackMs }

// Release returns the release time in milliseconds.
func (e *EnvelopeFollower) Release() float64 { return e.releaseMs }

// SetTimes sets attack and release times in milliseconds. Both must be
// positive and finite.
func (e *EnvelopeFollower) SetTimes(attackMs, releaseMs float64) error {
	if attackMs <= 0 || !core.IsFinite(attackMs) {
		return fmt.Errorf("envelope follower attack must be positive and finite: %f", attackMs)
	}

	if releaseMs <= 0 || !core.IsFinite(releaseMs) {
		return fmt.Errorf("envelope follower release must be positive and finite: %f", releaseMs)
	}

	e.attackMs = attackMs
	e.releaseMs = releaseMs
	e.updateCoefficients()

	return nil
}

// SetSampleRate updates the sample rate and recomputes the coefficients.
// Envelope state is kept.
func (e *EnvelopeFollower) SetSampleRate(sampleRate int) error {
	if sampleRate < 1 {
		return fmt.Errorf("envelope follower sample rate must be >= 1: %d", sampleRate)
	}

	e.sampleRate = sampleRate
	e.updateCoefficients()

	return nil
}

// ProcessSample advances the follower by one sample and returns the
// smoothed magnitude of in.
func (e *EnvelopeFollower) ProcessSample(in float64) float64 {
	inAbs := math.Abs(in)

	e.hold = math.Max(inAbs, e.releaseCoeff*e.hold+e.oneMinusRelease*inAbs)
	e.out = e.attackCoeff*e.out + e.oneMinusAttackCoeff*e.hold

	return e.out
}

// Value returns the most recent output without advancing.
func (e *EnvelopeFollower) Value() float64 { return e.out }

// Reset clears both smoothing stages.
func (e *EnvelopeFollower) Reset() {
	e.hold = 0
	e.out = 0
}

func (e *EnvelopeFollower) updateCoefficients() {
	sr := float64(e.sampleRate)

	e.attackCoeff = core.MillisecondsCoefficient(e.attackMs, sr)
	e.releaseCoeff = core.MillisecondsCoefficient(e.releaseMs, sr)

	e.oneMinusAttackCoeff = 1 - e.attackCoeff
	e.oneMinusRelease = 1 - e.releaseCoeff
}
