package biquad

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestPassthroughPolesZeros(t *testing.T) {
	c := Passthrough()
	p := c.Poles()
	if p[0] != 0 || p[1] != 0 {
		t.Fatalf("passthrough poles = %v, want zeros", p)
	}
	if !c.IsStable() {
		t.Fatal("passthrough should be stable")
	}
}

func TestBandPassZerosAtDCAndNyquist(t *testing.T) {
	c := BandPassCoefficients(1000, 0.5, 48000)
	z := c.Zeros()

	// b0*(1 - z^-2) has zeros at +1 and -1.
	got := []float64{real(z[0]), real(z[1])}
	if !((almostEqual(got[0], 1, 1e-12) && almostEqual(got[1], -1, 1e-12)) ||
		(almostEqual(got[0], -1, 1e-12) && almostEqual(got[1], 1, 1e-12))) {
		t.Fatalf("zeros = %v, want {1, -1}", z)
	}
}

func TestPoleRadiusFromResonance(t *testing.T) {
	const sr = 48000.0

	for _, res := range []float64{0.3, 0.5, 0.9, 0.99} {
		c := BandPassCoefficients(500, res, sr)
		// Complex-conjugate poles: |p|^2 = A2.
		want := math.Sqrt(c.A2)
		if got := c.PoleRadius(); !almostEqual(got, want, 1e-9) {
			t.Errorf("res=%g: radius = %v, want %v", res, got, want)
		}
		if !c.IsStable() {
			t.Errorf("res=%g: expected stable", res)
		}
	}

	// Full resonance puts the poles on the unit circle.
	c := BandPassCoefficients(500, 1, sr)
	if r := c.PoleRadius(); !almostEqual(r, 1, 1e-9) {
		t.Fatalf("res=1: radius = %v, want 1", r)
	}
}

func TestPoleZeroPair(t *testing.T) {
	c := BandPassCoefficients(2000, 0.3, 48000)
	pz := c.PoleZeroPair()
	if pz.Poles != c.Poles() || pz.Zeros != c.Zeros() {
		t.Fatalf("PoleZeroPair mismatch: %+v", pz)
	}
	if cmplx.Abs(pz.Poles[0]) >= 1 {
		t.Fatalf("pole outside unit circle: %v", pz.Poles[0])
	}
}

func TestQuadraticRootsDegenerate(t *testing.T) {
	if r := quadraticRoots(0, 0, 1); r != [2]complex128{} {
		t.Fatalf("degenerate roots = %v", r)
	}
	if r := quadraticRoots(0, 2, -4); r[0] != complex(2, 0) {
		t.Fatalf("linear root = %v, want 2", r[0])
	}
}
