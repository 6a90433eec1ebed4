package response_test

import (
	"fmt"

	"github.com/cwbudde/algo-resonator/dsp/filter/biquad"
	"github.com/cwbudde/algo-resonator/measure/response"
)

func ExampleMeasure() {
	bp := biquad.NewBandPass()
	if err := bp.SetSampleRate(48000); err != nil {
		panic(err)
	}

	bp.SetCoefficients(1000, 0.75)

	resp, err := response.Measure(bp, 48000, 1<<14)
	if err != nil {
		panic(err)
	}

	_, peakDB := resp.Peak()
	fmt.Printf("peak level: %.1f dB\n", peakDB)
	// Output:
	// peak level: 6.0 dB
}
