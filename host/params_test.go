package host

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func TestLayout(t *testing.T) {
	l := Layout()
	if len(l) != 5 {
		t.Fatalf("len(Layout()) = %d, want 5", len(l))
	}

	want := []struct {
		id           string
		lo, hi, step float64
		def          float64
	}{
		{ParamFrequency, 40, 200, 1, 100},
		{ParamResonance, 0, 1, 0.01, 0.5},
		{ParamAttack, 0, 1, 0.01, 0.5},
		{ParamMix, 0, 1, 0.01, 1},
		{ParamVolume, -24, 24, 0.1, 0},
	}

	for i, w := range want {
		s := l[i]
		if s.ID != w.id || s.Min != w.lo || s.Max != w.hi || s.Step != w.step || s.Default != w.def {
			t.Fatalf("Layout()[%d] = %+v, want %+v", i, s, w)
		}
	}

	l[0].Max = 1
	if Layout()[0].Max != 200 {
		t.Fatal("Layout returned shared backing storage")
	}
}

func TestNewParametersDefaults(t *testing.T) {
	p := NewParameters()
	s := p.Snapshot()

	if s.FrequencyHz != 100 || s.Resonance != 0.5 || s.Attack != 0.5 || s.Mix != 1 || s.VolumeDB != 0 {
		t.Fatalf("unexpected defaults: %+v", s)
	}
}

func TestParametersSet(t *testing.T) {
	tests := []struct {
		name string
		id   string
		in   float64
		want float64
	}{
		{"in range", ParamFrequency, 120, 120},
		{"above max", ParamFrequency, 250, 200},
		{"below min", ParamFrequency, 10, 40},
		{"snap to step", ParamFrequency, 100.4, 100},
		{"snap resonance", ParamResonance, 0.456, 0.46},
		{"snap volume", ParamVolume, -3.04, -3.0},
		{"volume clamp", ParamVolume, -100, -24},
		{"nan to default", ParamMix, math.NaN(), 1},
		{"inf to default", ParamAttack, math.Inf(1), 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParameters()
			if err := p.Set(tt.id, tt.in); err != nil {
				t.Fatalf("Set error: %v", err)
			}

			got, err := p.Get(tt.id)
			if err != nil {
				t.Fatalf("Get error: %v", err)
			}

			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("%s = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestParametersSetLandsOnGrid(t *testing.T) {
	tests := []struct {
		id   string
		in   float64
		want float64
	}{
		{ParamVolume, -0.3, -0.3},
		{ParamVolume, -0.29, -0.3},
		{ParamVolume, 12.3, 12.3},
		{ParamVolume, 0.7, 0.7},
		{ParamMix, 0.7, 0.7},
		{ParamMix, 0.07, 0.07},
		{ParamResonance, 0.456, 0.46},
		{ParamAttack, 0.29, 0.29},
		{ParamFrequency, 57.5, 58},
	}

	p := NewParameters()
	for _, tt := range tests {
		if err := p.Set(tt.id, tt.in); err != nil {
			t.Fatalf("Set(%s, %v) error: %v", tt.id, tt.in, err)
		}

		// Stored values must compare equal to the decimal literal.
		if got := p.State()[tt.id]; got != tt.want {
			t.Errorf("Set(%s, %v) stored %v, want exactly %v", tt.id, tt.in, got, tt.want)
		}
	}
}

func TestParametersUnknown(t *testing.T) {
	p := NewParameters()

	if err := p.Set("Drive", 1); !errors.Is(err, ErrUnknownParameter) {
		t.Fatalf("Set error = %v, want ErrUnknownParameter", err)
	}

	if _, err := p.Get("Drive"); !errors.Is(err, ErrUnknownParameter) {
		t.Fatalf("Get error = %v, want ErrUnknownParameter", err)
	}
}

func TestStateRestore(t *testing.T) {
	p := NewParameters()
	_ = p.Set(ParamFrequency, 80)
	_ = p.Set(ParamMix, 0.25)

	saved := p.State()
	if len(saved) != 5 {
		t.Fatalf("len(State()) = %d, want 5", len(saved))
	}

	q := NewParameters()
	if err := q.Restore(saved); err != nil {
		t.Fatalf("Restore error: %v", err)
	}

	if q.Snapshot() != p.Snapshot() {
		t.Fatalf("restored %+v, want %+v", q.Snapshot(), p.Snapshot())
	}
}

func TestRestorePartialKeepsCurrent(t *testing.T) {
	p := NewParameters()
	_ = p.Set(ParamAttack, 0.8)

	if err := p.Restore(map[string]float64{ParamFrequency: 60}); err != nil {
		t.Fatalf("Restore error: %v", err)
	}

	s := p.Snapshot()
	if s.FrequencyHz != 60 {
		t.Fatalf("frequency = %v, want 60", s.FrequencyHz)
	}

	if math.Abs(s.Attack-0.8) > 1e-12 {
		t.Fatalf("attack = %v, want 0.8", s.Attack)
	}
}

func TestRestoreUnknownAppliesNothing(t *testing.T) {
	p := NewParameters()
	before := p.Snapshot()

	err := p.Restore(map[string]float64{ParamFrequency: 60, "Drive": 3})
	if !errors.Is(err, ErrUnknownParameter) {
		t.Fatalf("Restore error = %v, want ErrUnknownParameter", err)
	}

	if p.Snapshot() != before {
		t.Fatalf("state changed after rejected restore: %+v", p.Snapshot())
	}
}

func TestParametersConcurrentAccess(t *testing.T) {
	p := NewParameters()

	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 1000 {
				_ = p.Set(ParamFrequency, float64(40+(i+w)%161))
				_ = p.Set(ParamMix, float64(i%101)/100)
			}
		}()
	}

	for range 1000 {
		s := p.Snapshot()
		if s.FrequencyHz < 40 || s.FrequencyHz > 200 {
			t.Fatalf("torn frequency %v", s.FrequencyHz)
		}

		if s.Mix < 0 || s.Mix > 1 {
			t.Fatalf("torn mix %v", s.Mix)
		}
	}

	wg.Wait()
}
