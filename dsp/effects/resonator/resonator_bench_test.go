package resonator

import "testing"

func BenchmarkResonatorProcessSample(b *testing.B) {
	r, _ := NewResonator(48000, 1)
	sample := 0.5

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = r.ProcessSample(0, sample)
	}
}

func BenchmarkResonatorProcessBlockStereo256(b *testing.B) {
	r, _ := NewResonator(48000, 2)

	block := [][]float32{make([]float32, 256), make([]float32, 256)}
	for _, ch := range block {
		for i := range ch {
			ch[i] = float32(i%16) / 16
		}
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		r.ProcessBlock(block)
	}
}
