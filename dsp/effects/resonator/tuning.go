package resonator

import (
	"fmt"

	"github.com/cwbudde/algo-resonator/dsp/core"
)

// Tuning holds the fixed constants of the detection and gain curve.
type Tuning struct {
	// CrestLimit normalizes the crest factor: norm = min(crest/CrestLimit, 1).
	CrestLimit float64
	// CrestSkew is the exponent applied to the normalized crest factor.
	CrestSkew float64
	// AttenuationFactor scales the threshold excess to dB.
	AttenuationFactor float64
	// AttenuationLimitDB caps the gain change fed to the envelope follower.
	AttenuationLimitDB float64
	// AttackMs and ReleaseMs are the envelope follower time constants.
	AttackMs  float64
	ReleaseMs float64
	// CrestTimeSec is the crest factor averaging time.
	CrestTimeSec float64
}

// DefaultTuning returns the reference tuning.
func DefaultTuning() Tuning {
	return Tuning{
		CrestLimit:         50,
		CrestSkew:          0.5,
		AttenuationFactor:  96,
		AttenuationLimitDB: 18,
		AttackMs:           0.01,
		ReleaseMs:          40,
		CrestTimeSec:       0.1,
	}
}

// Validate checks that every constant is usable.
func (t Tuning) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"crest limit", t.CrestLimit},
		{"crest skew", t.CrestSkew},
		{"attenuation limit", t.AttenuationLimitDB},
		{"attack", t.AttackMs},
		{"release", t.ReleaseMs},
		{"crest time", t.CrestTimeSec},
	}

	for _, p := range positive {
		if p.value <= 0 || !core.IsFinite(p.value) {
			return fmt.Errorf("resonator %s must be positive and finite: %f", p.name, p.value)
		}
	}

	if !core.IsFinite(t.AttenuationFactor) {
		return fmt.Errorf("resonator attenuation factor must be finite: %f", t.AttenuationFactor)
	}

	return nil
}

type config struct {
	tuning Tuning
	params Params
}

// Option configures a Resonator at construction.
type Option func(*config)

// WithTuning replaces the default tuning constants.
func WithTuning(t Tuning) Option {
	return func(c *config) {
		c.tuning = t
	}
}

// WithParams sets the initial control snapshot.
func WithParams(p Params) Option {
	return func(c *config) {
		c.params = p
	}
}
