package dynamics

import (
	"math"
	"testing"
)

func TestNewEnvelopeFollower(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate int
		wantErr    bool
	}{
		{"valid 44100", 44100, false},
		{"valid 48000", 48000, false},
		{"valid 1", 1, false},
		{"invalid zero", 0, true},
		{"invalid negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEnvelopeFollower(tt.sampleRate)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewEnvelopeFollower() error = %v, wantErr %v", err, tt.wantErr)
			}

			if !tt.wantErr && e == nil {
				t.Fatal("NewEnvelopeFollower() returned nil without error")
			}
		})
	}
}

func TestEnvelopeFollowerDefaults(t *testing.T) {
	e, err := NewEnvelopeFollower(48000)
	if err != nil {
		t.Fatal(err)
	}

	if e.Attack() != defaultFollowerAttackMs {
		t.Errorf("Attack() = %g, want %g", e.Attack(), defaultFollowerAttackMs)
	}

	if e.Release() != defaultFollowerReleaseMs {
		t.Errorf("Release() = %g, want %g", e.Release(), defaultFollowerReleaseMs)
	}

	if e.SampleRate() != 48000 {
		t.Errorf("SampleRate() = %d, want 48000", e.SampleRate())
	}
}

func TestEnvelopeFollowerCoefficients(t *testing.T) {
	e, err := NewEnvelopeFollower(48000)
	if err != nil {
		t.Fatal(err)
	}

	if err := e.SetTimes(0.01, 40); err != nil {
		t.Fatal(err)
	}

	wantAttack := math.Exp(-1000 / (0.01 * 48000))
	wantRelease := math.Exp(-1000 / (40.0 * 48000))

	if math.Abs(e.attackCoeff-wantAttack) > 1e-15 {
		t.Errorf("attack coefficient = %v, want %v", e.attackCoeff, wantAttack)
	}

	if math.Abs(e.releaseCoeff-wantRelease) > 1e-15 {
		t.Errorf("release coefficient = %v, want %v", e.releaseCoeff, wantRelease)
	}

	for _, c := range []float64{e.attackCoeff, e.releaseCoeff} {
		if c <= 0 || c >= 1 {
			t.Errorf("coefficient out of (0,1): %v", c)
		}
	}

	if e.oneMinusAttackCoeff != 1-e.attackCoeff || e.oneMinusRelease != 1-e.releaseCoeff {
		t.Error("complementary weights not updated")
	}
}

func TestEnvelopeFollowerSetterValidation(t *testing.T) {
	e, err := NewEnvelopeFollower(48000)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		fn   func() error
	}{
		{"attack zero", func() error { return e.SetTimes(0, 40) }},
		{"attack negative", func() error { return e.SetTimes(-1, 40) }},
		{"attack NaN", func() error { return e.SetTimes(math.NaN(), 40) }},
		{"release zero", func() error { return e.SetTimes(1, 0) }},
		{"release Inf", func() error { return e.SetTimes(1, math.Inf(1)) }},
		{"sample rate zero", func() error { return e.SetSampleRate(0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}

	if e.Attack() != defaultFollowerAttackMs || e.Release() != defaultFollowerReleaseMs {
		t.Error("failed setters must not change the times")
	}
}

func TestEnvelopeFollowerStepResponse(t *testing.T) {
	e, err := NewEnvelopeFollower(48000)
	if err != nil {
		t.Fatal(err)
	}

	const (
		riseLen    = 2000
		releaseLen = 20000
	)

	prev := 0.0
	for i := range riseLen {
		y := e.ProcessSample(1)
		if y < prev {
			t.Fatalf("attack: output decreased at %d: %v < %v", i, y, prev)
		}
		prev = y
	}

	if math.Abs(prev-1) > 1e-9 {
		t.Fatalf("steady state = %v, want 1", prev)
	}

	for i := range releaseLen {
		y := e.ProcessSample(0)
		if y > prev {
			t.Fatalf("release: output increased at %d: %v > %v", i, y, prev)
		}
		prev = y
	}

	if prev > 1e-4 {
		t.Fatalf("output after long release = %v, want near 0", prev)
	}
}

func TestEnvelopeFollowerReleaseTime(t *testing.T) {
	e, err := NewEnvelopeFollower(48000)
	if err != nil {
		t.Fatal(err)
	}

	for range 1000 {
		e.ProcessSample(1)
	}

	// One release time constant: 40 ms at 48 kHz.
	var y float64
	for range 1920 {
		y = e.ProcessSample(0)
	}

	want := math.Exp(-1)
	if math.Abs(y-want)/want > 0.02 {
		t.Fatalf("after one release time constant got %v, want ~%v", y, want)
	}
}

func TestEnvelopeFollowerPeakHold(t *testing.T) {
	e, err := NewEnvelopeFollower(48000)
	if err != nil {
		t.Fatal(err)
	}

	in := []float64{0.2, -0.9, 0.1, 0.05, -0.6, 0, 0.3, -0.3}
	for i, x := range in {
		e.ProcessSample(x)
		if e.hold < math.Abs(x) {
			t.Fatalf("sample %d: hold stage %v below input magnitude %v", i, e.hold, math.Abs(x))
		}
	}
}

func TestEnvelopeFollowerRectifies(t *testing.T) {
	pos, _ := NewEnvelopeFollower(48000)
	neg, _ := NewEnvelopeFollower(48000)

	for i := range 100 {
		x := 0.5 * math.Sin(float64(i)*0.3)
		if a, b := pos.ProcessSample(x), neg.ProcessSample(-x); a != b {
			t.Fatalf("sample %d: polarity changed the envelope: %v vs %v", i, a, b)
		}
	}
}

func TestEnvelopeFollowerReset(t *testing.T) {
	e, _ := NewEnvelopeFollower(48000)
	for range 100 {
		e.ProcessSample(1)
	}

	e.Reset()
	if e.Value() != 0 || e.hold != 0 {
		t.Fatalf("Reset left state: out=%v hold=%v", e.Value(), e.hold)
	}
}

func TestEnvelopeFollowerSetSampleRate(t *testing.T) {
	e, _ := NewEnvelopeFollower(48000)
	before := e.releaseCoeff

	if err := e.SetSampleRate(96000); err != nil {
		t.Fatal(err)
	}

	if e.releaseCoeff <= before {
		t.Fatalf("release coefficient should grow with sample rate: %v <= %v", e.releaseCoeff, before)
	}
}
