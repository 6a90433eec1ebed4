package main

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-resonator/dsp/core"
)

const (
	wavBitDepth  = 24
	wavFormatPCM = 1
)

var errNotWAV = errors.New("input is not a valid WAV file")

// blockWriter receives each processed block in planar layout.
type blockWriter interface {
	WriteBlock(block [][]float32) error
}

// wavWriter streams planar float32 blocks into a 24-bit PCM WAV file.
type wavWriter struct {
	enc    *wav.Encoder
	buf    audio.IntBuffer
	frames []float32
}

func newWAVWriter(ws io.WriteSeeker, sampleRate, channels int) *wavWriter {
	return &wavWriter{
		enc: wav.NewEncoder(ws, sampleRate, wavBitDepth, channels, wavFormatPCM),
		buf: audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: wavBitDepth,
		},
	}
}

// WriteBlock interleaves and quantizes one block and appends it to the file.
func (w *wavWriter) WriteBlock(block [][]float32) error {
	w.frames = core.Interleave(w.frames, block)

	if cap(w.buf.Data) < len(w.frames) {
		w.buf.Data = make([]int, len(w.frames))
	}
	w.buf.Data = w.buf.Data[:len(w.frames)]

	for i, v := range w.frames {
		w.buf.Data[i] = toPCM(v, wavBitDepth)
	}

	return w.enc.Write(&w.buf)
}

// Close patches the RIFF sizes. The underlying file stays open.
func (w *wavWriter) Close() error {
	return w.enc.Close()
}

// pcmFullScale is the largest positive sample at the given bit depth.
func pcmFullScale(bitDepth int) float64 {
	return float64(int(1)<<(bitDepth-1) - 1)
}

// toPCM clips v to [-1, 1] and rounds it to a signed integer sample.
func toPCM(v float32, bitDepth int) int {
	return int(math.Round(core.Clamp(float64(v), -1, 1) * pcmFullScale(bitDepth)))
}

// readWAV decodes a PCM WAV stream into planar float64 channels.
func readWAV(r io.ReadSeeker) (signal, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return signal{}, errNotWAV
	}

	if dec.WavAudioFormat != wavFormatPCM {
		return signal{}, fmt.Errorf("unsupported WAV format %d, want integer PCM", dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return signal{}, fmt.Errorf("decode WAV: %w", err)
	}

	channels := buf.Format.NumChannels
	if channels < 1 || buf.Format.SampleRate < 1 {
		return signal{}, fmt.Errorf("invalid WAV stream: %d channels at %d Hz", channels, buf.Format.SampleRate)
	}

	switch buf.SourceBitDepth {
	case 16, 24, 32:
	default:
		return signal{}, fmt.Errorf("unsupported WAV bit depth %d", buf.SourceBitDepth)
	}

	frames := len(buf.Data) / channels
	if frames == 0 {
		return signal{}, errors.New("input WAV holds no samples")
	}

	scale := 1 / pcmFullScale(buf.SourceBitDepth)

	out := signal{SampleRate: buf.Format.SampleRate, Channels: make([][]float64, channels)}
	for ch := range out.Channels {
		data := make([]float64, frames)
		for i := range data {
			data[i] = core.Clamp(float64(buf.Data[i*channels+ch])*scale, -1, 1)
		}

		out.Channels[ch] = data
	}

	return out, nil
}
