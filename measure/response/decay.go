package response

import "math"

// DecayTime estimates the time in seconds for the energy of ir to fall by
// 60 dB. The Schroeder backward integral is fitted between -5 and -35 dB,
// falling back to -5 to -25 dB, and extrapolated to -60 dB.
func DecayTime(ir []float64, sampleRate float64) (float64, error) {
	if len(ir) == 0 {
		return 0, ErrEmptyIR
	}

	if !(sampleRate > 0) {
		return 0, ErrInvalidSampleRate
	}

	curve := SchroederDB(ir)

	if t := decayFit(curve, -5, -35, sampleRate); t > 0 {
		return t, nil
	}

	if t := decayFit(curve, -5, -25, sampleRate); t > 0 {
		return t, nil
	}

	return 0, ErrNoDecay
}

// SchroederDB returns the backward-integrated energy of ir relative to its
// total, in dB. Values are floored at -200 dB. An all-zero ir yields zeros.
func SchroederDB(ir []float64) []float64 {
	out := make([]float64, len(ir))

	var sum float64
	for i := len(ir) - 1; i >= 0; i-- {
		sum += ir[i] * ir[i]
		out[i] = sum
	}

	if len(out) == 0 || out[0] <= 0 {
		return make([]float64, len(ir))
	}

	total := out[0]
	for i, v := range out {
		ratio := v / total
		if ratio <= 0 {
			out[i] = -200
			continue
		}

		out[i] = 10 * math.Log10(ratio)
	}

	return out
}

// decayFit regresses curve between startDB and endDB and returns the time to
// fall 60 dB at that slope, or 0 when the range is not reached.
func decayFit(curve []float64, startDB, endDB, sampleRate float64) float64 {
	start, end := -1, -1

	for i, v := range curve {
		if start < 0 && v <= startDB {
			start = i
		}

		if start >= 0 && v <= endDB {
			end = i
			break
		}
	}

	if start < 0 || end <= start {
		return 0
	}

	var sumX, sumY, sumXX, sumXY float64

	for i := start; i <= end; i++ {
		x := float64(i - start)
		y := curve[i]
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}

	n := float64(end - start + 1)

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}

	slope := (n*sumXY - sumX*sumY) / denom
	if slope >= 0 {
		return 0
	}

	return -60 / (slope * sampleRate)
}
