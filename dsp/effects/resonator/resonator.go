package resonator

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-resonator/dsp/core"
	"github.com/cwbudde/algo-resonator/dsp/effects/dynamics"
	"github.com/cwbudde/algo-resonator/dsp/filter/biquad"
)

// channelState is one independent mono chain.
type channelState struct {
	bandPass *biquad.BandPass
	crest    *dynamics.CrestFactor
	envelope *dynamics.EnvelopeFollower
}

// Metrics holds metering information for visualization and analysis.
type Metrics struct {
	// PeakCrest is the highest crest factor seen since the last reset.
	PeakCrest float64
	// PeakGainChangeDB is the highest smoothed gain change since the last reset.
	PeakGainChangeDB float64
}

// Resonator is the multi-channel crest-factor resonator.
//
// Channels never share state; a stereo stream is two mono chains.
type Resonator struct {
	sampleRate int
	tuning     Tuning
	params     Params
	channels   []channelState

	// Block-constant values derived from params.
	threshold  float64
	mix        float64
	mixInverse float64
	volume     float64

	metrics Metrics
}

// NewResonator creates a resonator for the given sample rate and channel
// count, with the reference tuning and default params unless overridden.
func NewResonator(sampleRate, channels int, opts ...Option) (*Resonator, error) {
	if sampleRate < 1 {
		return nil, fmt.Errorf("resonator sample rate must be >= 1: %d", sampleRate)
	}

	if channels < 1 {
		return nil, fmt.Errorf("resonator channel count must be >= 1: %d", channels)
	}

	cfg := config{
		tuning: DefaultTuning(),
		params: DefaultParams(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := cfg.tuning.Validate(); err != nil {
		return nil, err
	}

	r := &Resonator{
		sampleRate: sampleRate,
		tuning:     cfg.tuning,
		channels:   make([]channelState, channels),
	}

	for i := range r.channels {
		ch, err := newChannelState(sampleRate, cfg.tuning)
		if err != nil {
			return nil, err
		}

		r.channels[i] = ch
	}

	r.SetParams(cfg.params)

	return r, nil
}

func newChannelState(sampleRate int, t Tuning) (channelState, error) {
	bp := biquad.NewBandPass()
	if err := bp.SetSampleRate(sampleRate); err != nil {
		return channelState{}, err
	}

	crest, err := dynamics.NewCrestFactor(sampleRate)
	if err != nil {
		return channelState{}, err
	}

	if err := crest.SetTime(t.CrestTimeSec); err != nil {
		return channelState{}, err
	}

	env, err := dynamics.NewEnvelopeFollower(sampleRate)
	if err != nil {
		return channelState{}, err
	}

	if err := env.SetTimes(t.AttackMs, t.ReleaseMs); err != nil {
		return channelState{}, err
	}

	return channelState{bandPass: bp, crest: crest, envelope: env}, nil
}

// SampleRate returns the sample rate in Hz.
func (r *Resonator) SampleRate() int { return r.sampleRate }

// Channels returns the number of channels.
func (r *Resonator) Channels() int { return len(r.channels) }

// Tuning returns the tuning constants.
func (r *Resonator) Tuning() Tuning { return r.tuning }

// Params returns the sanitized control snapshot in use.
func (r *Resonator) Params() Params { return r.params }

// SetParams installs a new block snapshot: band-pass coefficients are
// recomputed for every channel and the mix, threshold and volume values are
// derived once. Out-of-range or non-finite values are clamped or replaced by
// defaults.
func (r *Resonator) SetParams(p Params) {
	p = p.sanitize(r.sampleRate)
	r.params = p

	r.threshold = p.Threshold()
	r.mix = p.Mix
	r.mixInverse = 1 - p.Mix
	r.volume = core.DBToLinear(p.VolumeDB)

	for i := range r.channels {
		r.channels[i].bandPass.SetCoefficients(p.FrequencyHz, p.Resonance)
	}
}

// SetSampleRate re-prepares every channel for a new sample rate and
// re-applies the current params. Channel state is kept.
func (r *Resonator) SetSampleRate(sampleRate int) error {
	if sampleRate < 1 {
		return fmt.Errorf("resonator sample rate must be >= 1: %d", sampleRate)
	}

	for i := range r.channels {
		ch := &r.channels[i]
		if err := ch.bandPass.SetSampleRate(sampleRate); err != nil {
			return err
		}

		if err := ch.crest.SetSampleRate(sampleRate); err != nil {
			return err
		}

		if err := ch.envelope.SetSampleRate(sampleRate); err != nil {
			return err
		}
	}

	r.sampleRate = sampleRate
	r.SetParams(r.params)

	return nil
}

// ProcessSample runs one sample of channel ch through the chain.
// ch must be in [0, Channels()).
func (r *Resonator) ProcessSample(ch int, in float64) float64 {
	c := &r.channels[ch]

	bp := c.bandPass.ProcessSample(in)
	crest := c.crest.ProcessSample(bp)
	demand := r.gainChangeDB(crest)
	smoothedDB := c.envelope.ProcessSample(demand)

	// The smoothed value goes into the dB conversion as is.
	processed := bp * core.DBToLinear(smoothedDB)

	if crest > r.metrics.PeakCrest {
		r.metrics.PeakCrest = crest
	}

	if smoothedDB > r.metrics.PeakGainChangeDB {
		r.metrics.PeakGainChangeDB = smoothedDB
	}

	return r.volume * (r.mix*processed + r.mixInverse*in)
}

// gainChangeDB maps a crest factor to the clamped, non-negative dB demand
// fed to the envelope follower.
func (r *Resonator) gainChangeDB(crest float64) float64 {
	t := &r.tuning

	norm := math.Min(crest/t.CrestLimit, 1)
	skewed := math.Pow(norm, t.CrestSkew)

	var demand float64
	if skewed >= r.threshold {
		demand = (skewed - r.threshold) * t.AttenuationFactor
	}

	return math.Min(math.Abs(demand), t.AttenuationLimitDB)
}

// ProcessInPlace processes one channel's samples in place.
func (r *Resonator) ProcessInPlace(ch int, buf []float64) {
	for i, x := range buf {
		buf[i] = r.ProcessSample(ch, x)
	}
}

// ProcessBlock processes host buffers in place, one slice per channel.
// Slices beyond Channels() are left untouched.
func (r *Resonator) ProcessBlock(buf [][]float32) {
	n := min(len(buf), len(r.channels))
	for ch := range n {
		samples := buf[ch]
		for i, x := range samples {
			samples[i] = float32(r.ProcessSample(ch, float64(x)))
		}
	}
}

// Reset clears all filter, detector and envelope state and the metrics.
func (r *Resonator) Reset() {
	for i := range r.channels {
		ch := &r.channels[i]
		ch.bandPass.Reset()
		ch.crest.Reset()
		ch.envelope.Reset()
	}

	r.ResetMetrics()
}

// Metrics returns current metering values.
func (r *Resonator) Metrics() Metrics {
	return r.metrics
}

// ResetMetrics clears metering state.
func (r *Resonator) ResetMetrics() {
	r.metrics = Metrics{}
}
