package level_test

import (
	"fmt"

	"github.com/cwbudde/algo-resonator/stats/level"
)

func ExampleCalculate() {
	s := level.Calculate([]float64{0, 1, 0, 0})
	fmt.Printf("peak=%.1f rms=%.1f crest=%.1f dB\n", s.Peak, s.RMS, s.CrestFactor_dB)

	// Output:
	// peak=1.0 rms=0.5 crest=6.0 dB
}
