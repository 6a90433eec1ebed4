package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Widen copies host float32 samples into dst and returns the number copied.
func Widen(dst []float64, src []float32) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = float64(src[i])
	}
	return n
}

// Narrow copies src into host float32 samples and returns the number copied.
func Narrow(dst []float32, src []float64) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = float32(src[i])
	}
	return n
}

// Interleave writes planar channels into dst frame by frame. Channels shorter
// than the longest one are padded with zeros. dst is grown as needed.
func Interleave(dst []float32, planar [][]float32) []float32 {
	frames := 0
	for _, ch := range planar {
		frames = max(frames, len(ch))
	}

	channels := len(planar)
	if cap(dst) >= frames*channels {
		dst = dst[:frames*channels]
	} else {
		dst = make([]float32, frames*channels)
	}

	for c, ch := range planar {
		for i := range frames {
			var v float32
			if i < len(ch) {
				v = ch[i]
			}
			dst[i*channels+c] = v
		}
	}

	return dst
}
