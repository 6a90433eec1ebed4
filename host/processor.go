package host

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-resonator/dsp/effects/resonator"
)

// Name is the processor name reported to hosts.
const Name = "Resonator"

var (
	// ErrNotPrepared is returned by ProcessBlock before a successful Prepare.
	ErrNotPrepared = errors.New("host: processor not prepared")
	// ErrChannelMismatch is returned when a block does not carry the
	// prepared channel count.
	ErrChannelMismatch = errors.New("host: channel count mismatch")
)

// Processor adapts a resonator to block-based host callbacks. Prepare and
// ProcessBlock must be called from the same goroutine; parameters may be
// changed concurrently through the shared Parameters.
type Processor struct {
	params *Parameters
	dsp    *resonator.Resonator
}

// NewProcessor returns an unprepared processor reading from params. A nil
// params gets a fresh store with default values.
func NewProcessor(params *Parameters) *Processor {
	if params == nil {
		params = NewParameters()
	}

	return &Processor{params: params}
}

// Name returns the processor name.
func (p *Processor) Name() string { return Name }

// Parameters returns the parameter store.
func (p *Processor) Parameters() *Parameters { return p.params }

// TailLengthSeconds reports the processing tail. The resonator does not
// declare one.
func (p *Processor) TailLengthSeconds() float64 { return 0 }

// Prepared reports whether Prepare has succeeded.
func (p *Processor) Prepared() bool { return p.dsp != nil }

// Prepare allocates per-channel state for the stream. The sample rate is
// truncated to whole Hz. Calling Prepare again discards all channel state.
func (p *Processor) Prepare(sampleRate float64, channels int) error {
	sr := int(sampleRate)
	if sr < 1 {
		return fmt.Errorf("host sample rate must be >= 1: %v", sampleRate)
	}

	r, err := resonator.NewResonator(sr, channels, resonator.WithParams(p.params.Snapshot()))
	if err != nil {
		return err
	}

	p.dsp = r
	return nil
}

// Release drops channel state; ProcessBlock fails until the next Prepare.
func (p *Processor) Release() { p.dsp = nil }

// ProcessBlock snapshots the parameters once and processes every channel of
// buf in place.
func (p *Processor) ProcessBlock(buf [][]float32) error {
	if p.dsp == nil {
		return ErrNotPrepared
	}

	if len(buf) != p.dsp.Channels() {
		return fmt.Errorf("%w: got %d, prepared %d", ErrChannelMismatch, len(buf), p.dsp.Channels())
	}

	p.dsp.SetParams(p.params.Snapshot())
	p.dsp.ProcessBlock(buf)

	return nil
}

// Metrics returns the resonator metering since the last reset. The zero
// value is returned before Prepare.
func (p *Processor) Metrics() resonator.Metrics {
	if p.dsp == nil {
		return resonator.Metrics{}
	}

	return p.dsp.Metrics()
}

// Reset clears the DSP state without reallocating.
func (p *Processor) Reset() {
	if p.dsp != nil {
		p.dsp.Reset()
	}
}
