// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides synthetic sources and files for tests.
package audiotest

import (
	"bytes"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/audgrid/audio"
	"github.com/ik5/audgrid/codec"
	"github.com/ik5/audgrid/formats/wav"
)

// MockSource generates audio from a waveform function. It implements
// audio.ParamSource.
type MockSource struct {
	sampleRate   int
	channels     int
	totalSamples int // per channel
	generated    int // per channel
	packetFrames uint64
	waveform     func(sample int, channel int) float32

	failAt  int
	failErr error
	closed  bool
}

// NewMockSource creates a source of totalSamples frames.
func NewMockSource(sampleRate, channels, totalSamples int, waveform func(sample int, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate:   sampleRate,
		channels:     channels,
		totalSamples: totalSamples,
		packetFrames: codec.DefaultPacketFrames,
		waveform:     waveform,
		failAt:       -1,
	}
}

func NewSilentSource(sampleRate, channels, totalSamples int) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(int, int) float32 {
		return 0.0
	})
}

func NewSineSource(sampleRate, channels, totalSamples int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, _ int) float32 {
		t := float64(sample) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

func NewConstantSource(sampleRate, channels, totalSamples int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(int, int) float32 {
		return value
	})
}

// WithPacketFrames changes the packet size reported in Params.
func (m *MockSource) WithPacketFrames(frames uint64) *MockSource {
	m.packetFrames = frames
	return m
}

// FailAt makes reads return err once frame has been generated.
func (m *MockSource) FailAt(frame int, err error) *MockSource {
	m.failAt = frame
	m.failErr = err
	return m
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called. Only read it after the owner of
// the source has finished with it.
func (m *MockSource) Closed() bool { return m.closed }

func (m *MockSource) Params() audio.StreamParams {
	return audio.StreamParams{
		SampleRate:          m.sampleRate,
		Channels:            m.channels,
		Frames:              uint64(m.totalSamples),
		SampleFormat:        audio.SampleFormatF32,
		BitsPerSample:       32,
		MaxFramesPerPacket:  m.packetFrames,
		PacketDataIntegrity: true,
	}
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.failAt >= 0 && m.generated >= m.failAt {
		return 0, m.failErr
	}
	if m.generated >= m.totalSamples {
		return 0, io.EOF
	}

	framesToWrite := min(len(dst)/m.channels, m.totalSamples-m.generated)
	if m.failAt >= 0 {
		framesToWrite = min(framesToWrite, m.failAt-m.generated)
	}

	for frame := range framesToWrite {
		sampleIndex := m.generated + frame
		for ch := range m.channels {
			dst[frame*m.channels+ch] = m.waveform(sampleIndex, ch)
		}
	}

	m.generated += framesToWrite
	return framesToWrite * m.channels, nil
}

// Stream packetizes src the way codec.Parse does for a real file.
func Stream(src *MockSource) *codec.Stream {
	params := src.Params()
	return &codec.Stream{
		Format:   "mock",
		Packets:  codec.Packetize(0, params),
		Duration: params.Duration(),
		Params:   params,
		Decoder:  codec.NewDecoder(src),
	}
}

// WAV encodes frames of 16-bit audio produced by waveform.
func WAV(tb testing.TB, rate, channels, frames int, waveform func(frame, channel int) int16) []byte {
	tb.Helper()

	samples := make([]int16, frames*channels)
	for i := range frames {
		for ch := range channels {
			samples[i*channels+ch] = waveform(i, ch)
		}
	}

	buf := new(bytes.Buffer)
	if err := wav.WriteWAV16(buf, rate, channels, samples); err != nil {
		tb.Fatalf("encoding wav: %v", err)
	}
	return buf.Bytes()
}

// WAVFile writes a WAV of frames of a stereo ramp into dir and returns its
// path. Left counts up from 0 and right mirrors it.
func WAVFile(tb testing.TB, dir, name string, rate, frames int) string {
	tb.Helper()

	data := WAV(tb, rate, 2, frames, func(frame, channel int) int16 {
		v := int16(frame % 32000)
		if channel == 1 {
			return -v
		}
		return v
	})

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		tb.Fatalf("writing %s: %v", path, err)
	}
	return path
}
