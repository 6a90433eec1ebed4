package resonator

import (
	"math"

	"github.com/cwbudde/algo-resonator/dsp/core"
)

// Default control values.
const (
	DefaultFrequencyHz = 100.0
	DefaultResonance   = 0.5
	DefaultAttack      = 0.5
	DefaultMix         = 1.0
	DefaultVolumeDB    = 0.0

	// maxFrequencyRatio keeps the band-pass center below Nyquist.
	maxFrequencyRatio = 0.49
	minFrequencyHz    = 1.0
)

// Params is the block-constant control snapshot.
type Params struct {
	// FrequencyHz is the band-pass center frequency.
	FrequencyHz float64
	// Resonance in [0, 1] narrows the band as it approaches 1.
	Resonance float64
	// Attack in [0, 1] sets the detection threshold as 1 - Attack.
	Attack float64
	// Mix in [0, 1] blends processed (1) and dry (0) signal.
	Mix float64
	// VolumeDB is the output gain in dB.
	VolumeDB float64
}

// DefaultParams returns the factory control values.
func DefaultParams() Params {
	return Params{
		FrequencyHz: DefaultFrequencyHz,
		Resonance:   DefaultResonance,
		Attack:      DefaultAttack,
		Mix:         DefaultMix,
		VolumeDB:    DefaultVolumeDB,
	}
}

// Threshold returns the detection threshold, 1 - Attack.
func (p Params) Threshold() float64 {
	return 1 - p.Attack
}

// sanitize returns p with non-finite values replaced by defaults and every
// field limited to the range the DSP can handle at sampleRate.
func (p Params) sanitize(sampleRate int) Params {
	def := DefaultParams()

	p.FrequencyHz = finiteOr(p.FrequencyHz, def.FrequencyHz)
	p.Resonance = finiteOr(p.Resonance, def.Resonance)
	p.Attack = finiteOr(p.Attack, def.Attack)
	p.Mix = finiteOr(p.Mix, def.Mix)
	p.VolumeDB = finiteOr(p.VolumeDB, def.VolumeDB)

	maxFreq := math.Max(minFrequencyHz, maxFrequencyRatio*float64(sampleRate))
	p.FrequencyHz = core.Clamp(p.FrequencyHz, minFrequencyHz, maxFreq)
	p.Resonance = core.Clamp(p.Resonance, 0, 1)
	p.Attack = core.Clamp(p.Attack, 0, 1)
	p.Mix = core.Clamp(p.Mix, 0, 1)

	return p
}

func finiteOr(v, def float64) float64 {
	if !core.IsFinite(v) {
		return def
	}

	return v
}
