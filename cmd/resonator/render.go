package main

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"

	"github.com/cwbudde/algo-resonator/dsp/core"
	"github.com/cwbudde/algo-resonator/dsp/effects/resonator"
	"github.com/cwbudde/algo-resonator/dsp/filter/biquad"
	"github.com/cwbudde/algo-resonator/host"
	"github.com/cwbudde/algo-resonator/internal/cli"
	"github.com/cwbudde/algo-resonator/measure/response"
	"github.com/cwbudde/algo-resonator/stats/level"
)

const responseFFTSize = 1 << 16

type renderResult struct {
	Config  core.ProcessorConfig
	Params  resonator.Params
	Frames  int
	Input   level.Stats
	Output  level.Stats
	Metrics resonator.Metrics
}

// signal is a planar source stream.
type signal struct {
	SampleRate int
	Channels   [][]float64
}

func (s signal) frames() int {
	if len(s.Channels) == 0 {
		return 0
	}

	return len(s.Channels[0])
}

func (c *CLI) validateSignal() error {
	switch {
	case c.SampleRate < 1:
		return fmt.Errorf("sample rate must be >= 1: %d", c.SampleRate)
	case c.Channels < 1:
		return fmt.Errorf("channel count must be >= 1: %d", c.Channels)
	case !(c.Duration > 0) || math.IsInf(c.Duration, 0):
		return fmt.Errorf("duration must be > 0 and finite: %v", c.Duration)
	case !core.IsFinite(c.Amplitude) || !core.IsFinite(c.Tone):
		return fmt.Errorf("test signal settings must be finite")
	}

	return nil
}

func (c *CLI) parameters() (*host.Parameters, error) {
	params := host.NewParameters()

	values := []struct {
		id string
		v  float64
	}{
		{host.ParamFrequency, c.Center},
		{host.ParamResonance, c.Resonance},
		{host.ParamAttack, c.Attack},
		{host.ParamMix, c.Mix},
		{host.ParamVolume, c.Volume},
	}

	for _, p := range values {
		if err := params.Set(p.id, p.v); err != nil {
			return nil, err
		}
	}

	return params, nil
}

// source loads the input WAV file or synthesizes the test signal, which is
// copied to every channel.
func (c *CLI) source() (signal, error) {
	if c.Input != "" {
		f, err := os.Open(c.Input)
		if err != nil {
			return signal{}, err
		}
		defer f.Close()

		src, err := readWAV(f)
		if err != nil {
			return signal{}, fmt.Errorf("%s: %w", c.Input, err)
		}

		return src, nil
	}

	if err := c.validateSignal(); err != nil {
		return signal{}, err
	}

	mono := c.synthesize(float64(c.SampleRate))

	src := signal{SampleRate: c.SampleRate, Channels: make([][]float64, c.Channels)}
	for ch := range src.Channels {
		src.Channels[ch] = mono
	}

	return src, nil
}

// synthesize returns the mono test signal.
func (c *CLI) synthesize(sampleRate float64) []float64 {
	n := max(int(c.Duration*sampleRate), 1)
	out := make([]float64, n)
	step := 2 * math.Pi * c.Tone / sampleRate

	switch c.Signal {
	case "noise":
		rng := rand.New(rand.NewSource(c.Seed))
		for i := range out {
			out[i] = (rng.Float64()*2 - 1) * c.Amplitude
		}
	case "sine":
		for i := range out {
			out[i] = c.Amplitude * math.Sin(step*float64(i))
		}
	default:
		// Tone for the first half, silence for the rest.
		for i := range n / 2 {
			out[i] = c.Amplitude * math.Sin(step*float64(i))
		}
	}

	return out
}

// render processes src block by block through a host processor. When sink
// is not nil every processed block is passed to it.
func render(c *CLI, src signal, sink blockWriter) (renderResult, error) {
	if c.BlockSize < 1 {
		return renderResult{}, fmt.Errorf("block size must be >= 1: %d", c.BlockSize)
	}

	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(float64(src.SampleRate)),
		core.WithBlockSize(c.BlockSize),
		core.WithChannels(len(src.Channels)),
	)

	params, err := c.parameters()
	if err != nil {
		return renderResult{}, err
	}

	proc := host.NewProcessor(params)
	if err := proc.Prepare(cfg.SampleRate, cfg.Channels); err != nil {
		return renderResult{}, err
	}

	block := make([][]float32, cfg.Channels)
	for ch := range block {
		block[ch] = make([]float32, cfg.BlockSize)
	}

	var (
		inMeter, outMeter level.Meter
		wide              []float64
	)

	total := src.frames()

	for pos := 0; pos < total; pos += cfg.BlockSize {
		n := min(cfg.BlockSize, total-pos)

		for ch := range block {
			chunk := src.Channels[ch][pos : pos+n]
			block[ch] = block[ch][:n]
			core.Narrow(block[ch], chunk)
			inMeter.Update(chunk)
		}

		if err := proc.ProcessBlock(block); err != nil {
			return renderResult{}, err
		}

		wide = core.EnsureLen(wide, n)
		for ch := range block {
			core.Widen(wide, block[ch])
			outMeter.Update(wide)
		}

		if sink != nil {
			if err := sink.WriteBlock(block); err != nil {
				return renderResult{}, fmt.Errorf("write output: %w", err)
			}
		}
	}

	return renderResult{
		Config:  cfg,
		Params:  params.Snapshot(),
		Frames:  total,
		Input:   inMeter.Result(),
		Output:  outMeter.Result(),
		Metrics: proc.Metrics(),
	}, nil
}

// renderFile renders src into a WAV file at path. A failed render removes
// the partial file.
func renderFile(c *CLI, src signal, path string) (res renderResult, err error) {
	f, err := os.Create(path)
	if err != nil {
		return renderResult{}, err
	}

	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(path)
		}
	}()

	out := newWAVWriter(f, src.SampleRate, len(src.Channels))

	res, err = render(c, src, out)
	if err != nil {
		return renderResult{}, err
	}

	if err = out.Close(); err != nil {
		return renderResult{}, fmt.Errorf("write output: %w", err)
	}

	if err = f.Close(); err != nil {
		return renderResult{}, fmt.Errorf("close output: %w", err)
	}

	return res, nil
}

func run(c *CLI, w io.Writer) error {
	src, err := c.source()
	if err != nil {
		return err
	}

	var res renderResult
	if c.Output != "" {
		res, err = renderFile(c, src, c.Output)
	} else {
		res, err = render(c, src, nil)
	}

	if err != nil {
		return err
	}

	report(w, c, res)

	if c.Response {
		return reportResponse(w, res)
	}

	return nil
}

func report(w io.Writer, c *CLI, res renderResult) {
	cli.PrintSection(w, "Render")
	if c.Input != "" {
		cli.PrintKeyValue(w, "Input", c.Input)
	} else {
		cli.PrintKeyValue(w, "Signal", fmt.Sprintf("%s, %.0f Hz, %.2f peak", c.Signal, c.Tone, c.Amplitude))
	}

	if c.Output != "" {
		cli.PrintKeyValue(w, "Output", fmt.Sprintf("%s, %d-bit PCM WAV", c.Output, wavBitDepth))
	}

	cli.PrintKeyValue(w, "Stream", fmt.Sprintf("%.0f Hz, %d ch, %d frames, block %d",
		res.Config.SampleRate, res.Config.Channels, res.Frames, res.Config.BlockSize))
	cli.PrintKeyValue(w, "Params", fmt.Sprintf("center %.0f Hz, resonance %.2f, attack %.2f, mix %.2f, volume %.1f dB",
		res.Params.FrequencyHz, res.Params.Resonance, res.Params.Attack, res.Params.Mix, res.Params.VolumeDB))

	cli.PrintSection(w, "Levels")

	table := cli.MetricTable{
		Headers: []string{"Input", "Output"},
		Rows: []cli.MetricRow{
			{Label: "Peak", Values: []string{cli.FormatDB(res.Input.Peak_dB, 1), cli.FormatDB(res.Output.Peak_dB, 1)}, Unit: "dBFS"},
			{Label: "RMS", Values: []string{cli.FormatDB(res.Input.RMS_dB, 1), cli.FormatDB(res.Output.RMS_dB, 1)}, Unit: "dBFS"},
			{Label: "Crest factor", Values: []string{cli.FormatMetric(res.Input.CrestFactor_dB, 1), cli.FormatMetric(res.Output.CrestFactor_dB, 1)}, Unit: "dB"},
		},
	}
	fmt.Fprint(w, table.String())

	cli.PrintSection(w, "Detector")
	cli.PrintKeyValue(w, "Peak crest factor", cli.FormatMetric(res.Metrics.PeakCrest, 2))
	cli.PrintKeyValue(w, "Peak gain change", cli.FormatMetric(res.Metrics.PeakGainChangeDB, 2)+" dB")
}

func reportResponse(w io.Writer, res renderResult) error {
	bp := biquad.NewBandPass()
	if err := bp.SetSampleRate(int(res.Config.SampleRate)); err != nil {
		return err
	}

	bp.SetCoefficients(res.Params.FrequencyHz, res.Params.Resonance)

	ir := bp.ImpulseResponse(responseFFTSize)

	resp, err := response.FromImpulse(ir, res.Config.SampleRate)
	if err != nil {
		return err
	}

	peakHz, peakDB := resp.Peak()

	cli.PrintSection(w, "Band-pass response")
	cli.PrintKeyValue(w, "Peak", fmt.Sprintf("%.1f Hz, %s dB", peakHz, cli.FormatDB(peakDB, 2)))
	cli.PrintKeyValue(w, "Octave above", cli.FormatDB(core.LinearToDB(resp.At(2*peakHz)), 2)+" dB")

	decay, err := response.DecayTime(ir, res.Config.SampleRate)
	if err != nil {
		cli.PrintKeyValue(w, "Ring-down", cli.MissingValue)
		return nil
	}

	cli.PrintKeyValue(w, "Ring-down (-60 dB)", fmt.Sprintf("%.1f ms", decay*1000))

	return nil
}
