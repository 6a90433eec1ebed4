package host

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync/atomic"

	"github.com/cwbudde/algo-resonator/dsp/core"
	"github.com/cwbudde/algo-resonator/dsp/effects/resonator"
)

// Parameter identifiers.
const (
	ParamFrequency = "Frequency"
	ParamResonance = "Resonance"
	ParamAttack    = "Attack"
	ParamMix       = "Mix"
	ParamVolume    = "Volume"
)

// ErrUnknownParameter is returned for parameter names outside the layout.
var ErrUnknownParameter = errors.New("host: unknown parameter")

// ParameterSpec describes one automatable parameter.
type ParameterSpec struct {
	ID      string
	Unit    string
	Min     float64
	Max     float64
	Step    float64
	Default float64
}

// Normalize limits v to the parameter range and snaps it to the nearest
// multiple of Step. Snapped values are the shortest decimal for their grid
// point, so a 0.1 step yields -0.3 and never -0.30000000000000004.
// Non-finite input maps to the default.
func (s ParameterSpec) Normalize(v float64) float64 {
	if !core.IsFinite(v) {
		return s.Default
	}

	v = core.Clamp(v, s.Min, s.Max)
	if s.Step > 0 {
		v = core.Clamp(snap(v, s.Step), s.Min, s.Max)
	}

	return v
}

// snap rounds v to a multiple of step. The step is scaled to an integer
// count of its last decimal place so the final division rounds once.
func snap(v, step float64) float64 {
	decimals := math.Max(0, math.Ceil(-math.Log10(step)-1e-9))
	scale := math.Pow(10, decimals)
	units := math.Round(step * scale)

	return math.Round(v/step) * units / scale
}

const (
	idxFrequency = iota
	idxResonance
	idxAttack
	idxMix
	idxVolume
	numParams
)

var layout = [numParams]ParameterSpec{
	idxFrequency: {ID: ParamFrequency, Unit: "Hz", Min: 40, Max: 200, Step: 1, Default: resonator.DefaultFrequencyHz},
	idxResonance: {ID: ParamResonance, Min: 0, Max: 1, Step: 0.01, Default: resonator.DefaultResonance},
	idxAttack:    {ID: ParamAttack, Min: 0, Max: 1, Step: 0.01, Default: resonator.DefaultAttack},
	idxMix:       {ID: ParamMix, Min: 0, Max: 1, Step: 0.01, Default: resonator.DefaultMix},
	idxVolume:    {ID: ParamVolume, Unit: "dB", Min: -24, Max: 24, Step: 0.1, Default: resonator.DefaultVolumeDB},
}

// Layout returns the parameter layout in declaration order.
func Layout() []ParameterSpec {
	out := make([]ParameterSpec, numParams)
	copy(out, layout[:])

	return out
}

func indexOf(name string) (int, bool) {
	for i := range layout {
		if layout[i].ID == name {
			return i, true
		}
	}

	return 0, false
}

// Parameters is the shared parameter store. Setters may be called from any
// goroutine; the audio thread reads a coherent value per parameter with
// Snapshot.
type Parameters struct {
	values [numParams]atomic.Uint64
}

// NewParameters returns a store holding the layout defaults.
func NewParameters() *Parameters {
	p := &Parameters{}
	p.ResetToDefaults()

	return p
}

// ResetToDefaults stores the default value of every parameter.
func (p *Parameters) ResetToDefaults() {
	for i := range layout {
		p.values[i].Store(math.Float64bits(layout[i].Default))
	}
}

// Set stores a new value for the named parameter after range limiting and
// step snapping.
func (p *Parameters) Set(name string, v float64) error {
	i, ok := indexOf(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}

	p.values[i].Store(math.Float64bits(layout[i].Normalize(v)))

	return nil
}

// Get returns the current value of the named parameter.
func (p *Parameters) Get(name string) (float64, error) {
	i, ok := indexOf(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}

	return p.load(i), nil
}

func (p *Parameters) load(i int) float64 {
	return math.Float64frombits(p.values[i].Load())
}

// Snapshot reads every parameter once and returns the resonator controls.
func (p *Parameters) Snapshot() resonator.Params {
	return resonator.Params{
		FrequencyHz: p.load(idxFrequency),
		Resonance:   p.load(idxResonance),
		Attack:      p.load(idxAttack),
		Mix:         p.load(idxMix),
		VolumeDB:    p.load(idxVolume),
	}
}

// State returns the current values keyed by parameter ID.
func (p *Parameters) State() map[string]float64 {
	state := make(map[string]float64, numParams)
	for i := range layout {
		state[layout[i].ID] = p.load(i)
	}

	return state
}

// Restore applies a saved state. Missing keys keep their current value.
// Unknown keys reject the whole state and nothing is applied.
func (p *Parameters) Restore(state map[string]float64) error {
	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, ok := indexOf(k); !ok {
			return fmt.Errorf("host state: %w: %q", ErrUnknownParameter, k)
		}
	}

	for _, k := range keys {
		if err := p.Set(k, state[k]); err != nil {
			return err
		}
	}

	return nil
}
