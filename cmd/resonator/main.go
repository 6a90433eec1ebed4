// Command resonator renders a synthetic test signal or a WAV file through the
// crest-factor resonator and reports input and output levels.
//
// Usage:
//
//	resonator [flags]
//
// Examples:
//
//	resonator
//	resonator --signal=noise --duration=2 --attack=0.8
//	resonator --center=60 --resonance=0.9 --response
//	resonator --mix=0.5 --output=out.wav
//	resonator --input=drums.wav --attack=0.8 --output=out.wav
//
// Output files are 24-bit PCM WAV. Input files may be 16, 24 or 32-bit PCM
// WAV; their sample rate and channel count override --rate and --channels.
package main

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/cwbudde/algo-resonator/internal/cli"
)

var version = "0.1.0"

// CLI defines the command-line interface.
type CLI struct {
	Version bool `short:"v" help:"Show version information."`

	Input string `short:"i" type:"existingfile" help:"Process this PCM WAV file instead of a test signal."`

	Signal    string  `enum:"burst,sine,noise" default:"burst" help:"Test signal: burst, sine or noise."`
	Tone      float64 `default:"100" placeholder:"hz" help:"Test tone frequency in Hz."`
	Amplitude float64 `default:"0.8" help:"Peak amplitude of the test signal."`
	Duration  float64 `default:"1" placeholder:"s" help:"Signal duration in seconds."`
	Seed      int64   `default:"1" help:"Noise seed."`

	SampleRate int `name:"rate" default:"48000" help:"Sample rate in Hz."`
	Channels   int `default:"2" help:"Number of channels."`
	BlockSize  int `name:"block" default:"512" help:"Host block size in samples."`

	Center    float64 `default:"100" placeholder:"hz" help:"Resonator center frequency in Hz."`
	Resonance float64 `default:"0.5" help:"Resonance, 0 to 1."`
	Attack    float64 `default:"0.5" help:"Attack, 0 to 1."`
	Mix       float64 `default:"1" help:"Dry/processed mix, 0 to 1."`
	Volume    float64 `default:"0" placeholder:"db" help:"Output volume in dB."`

	Response bool   `help:"Report the band-pass magnitude response and ring-down time."`
	Output   string `short:"o" type:"path" help:"Write the output to this file as 24-bit PCM WAV."`
}

func main() {
	cliArgs := &CLI{}
	kong.Parse(cliArgs,
		kong.Name("resonator"),
		kong.Description("Crest-factor resonator offline renderer"),
		kong.UsageOnError(),
		kong.Help(cli.StyledHelpPrinter("Resonator", "Crest-factor resonator offline renderer")),
	)

	if cliArgs.Version {
		cli.PrintVersion(os.Stdout, "Resonator", version)
		os.Exit(0)
	}

	if err := run(cliArgs, os.Stdout); err != nil {
		cli.PrintError(os.Stderr, err.Error())
		os.Exit(1)
	}
}
