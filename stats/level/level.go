// Package level computes block level statistics for reports and tests.
package level

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-resonator/dsp/core"
)

// Stats holds level statistics of one block or stream.
//
//nolint:revive
type Stats struct {
	Length         int
	DC             float64 // mean
	Peak           float64 // max |x|
	PeakPos        int
	Peak_dB        float64
	RMS            float64
	RMS_dB         float64
	CrestFactor    float64 // peak / RMS, 0 for silence
	CrestFactor_dB float64
	Energy         float64 // sum of squares
}

func emptyStats() Stats {
	return Stats{
		Peak_dB:        math.Inf(-1),
		RMS_dB:         math.Inf(-1),
		CrestFactor_dB: math.Inf(-1),
	}
}

// Calculate returns the level statistics of signal.
func Calculate(signal []float64) Stats {
	m := Meter{}
	m.Update(signal)
	return m.Result()
}

// CalculateFloat32 returns the level statistics of a host float32 buffer.
func CalculateFloat32(signal []float32) Stats {
	wide := make([]float64, len(signal))
	core.Widen(wide, signal)
	return Calculate(wide)
}

// SumSquares returns the sum of x² over signal.
func SumSquares(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	sq := make([]float64, len(signal))
	vecmath.MulBlock(sq, signal, signal)

	var sum float64
	for _, v := range sq {
		sum += v
	}

	return sum
}

// RMS returns the root-mean-square of signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return math.Sqrt(SumSquares(signal) / float64(len(signal)))
}

// Meter accumulates level statistics over consecutive blocks.
// The zero value is ready to use.
type Meter struct {
	n       int
	sum     float64
	sumSq   float64
	peak    float64
	peakPos int
	scratch []float64
}

// Update adds a block of samples.
func (m *Meter) Update(block []float64) {
	if len(block) == 0 {
		return
	}

	m.scratch = core.EnsureLen(m.scratch, len(block))
	vecmath.MulBlock(m.scratch, block, block)

	for i, x := range block {
		m.sum += x
		m.sumSq += m.scratch[i]

		if a := math.Abs(x); a > m.peak {
			m.peak = a
			m.peakPos = m.n + i
		}
	}

	m.n += len(block)
}

// Reset clears the accumulated state.
func (m *Meter) Reset() {
	scratch := m.scratch
	*m = Meter{scratch: scratch}
}

// Result returns statistics over everything seen since the last reset.
func (m *Meter) Result() Stats {
	if m.n == 0 {
		return emptyStats()
	}

	nf := float64(m.n)
	rms := math.Sqrt(m.sumSq / nf)

	s := Stats{
		Length:  m.n,
		DC:      m.sum / nf,
		Peak:    m.peak,
		PeakPos: m.peakPos,
		Peak_dB: core.LinearToDB(m.peak),
		RMS:     rms,
		RMS_dB:  core.LinearToDB(rms),
		Energy:  m.sumSq,
	}

	if rms > 0 {
		s.CrestFactor = m.peak / rms
		s.CrestFactor_dB = core.LinearToDB(s.CrestFactor)
	}

	return s
}
