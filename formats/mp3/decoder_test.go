// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audgrid/audio"
)

// mockMP3Reader simulates the gomp3.Decoder for testing
type mockMP3Reader struct {
	sampleRate int
	pcm        []byte
	offset     int
	chunk      int // max bytes per Read, 0 for unlimited
	length     int64
	err        error
}

func newMockReader(rate int, samples []int16) *mockMP3Reader {
	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(s))
	}
	return &mockMP3Reader{sampleRate: rate, pcm: pcm, length: int64(len(pcm))}
}

func (m *mockMP3Reader) SampleRate() int { return m.sampleRate }
func (m *mockMP3Reader) Length() int64   { return m.length }

func (m *mockMP3Reader) Read(buf []byte) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.offset >= len(m.pcm) {
		return 0, io.EOF
	}

	end := len(m.pcm)
	if m.chunk > 0 {
		end = min(end, m.offset+m.chunk)
	}
	n := copy(buf, m.pcm[m.offset:end])
	m.offset += n

	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, []byte("This is not MP3 data")} {
		if _, err := (Decoder{}).Decode(bytes.NewReader(data)); err == nil {
			t.Errorf("Decode(%q) error = nil, want error", data)
		}
	}
}

func TestSource_Params(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		length int64
		frames uint64
	}{
		{"known length", 4 * 44100, 44100},
		{"unseekable input", -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newMockReader(44100, nil)
			m.length = tt.length
			p := newSource(m).Params()

			if p.Frames != tt.frames {
				t.Errorf("Frames = %d, want %d", p.Frames, tt.frames)
			}
			if p.Channels != 2 || p.SampleRate != 44100 || p.MaxFramesPerPacket != 1152 {
				t.Errorf("Params() = %+v, want stereo 44100 Hz with 1152-frame packets", p)
			}
			if p.SampleFormat != audio.SampleFormatS16 {
				t.Errorf("SampleFormat = %v, want s16", p.SampleFormat)
			}
		})
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	s := newSource(newMockReader(44100, []int16{0, 16384, -16384, -32768}))

	buf := make([]float32, 8)
	n, err := s.ReadSamples(buf)
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}

	want := []float32{0, 0.5, -0.5, -1}
	if n != len(want) {
		t.Fatalf("ReadSamples() n = %d, want %d", n, len(want))
	}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, buf[i], want[i])
		}
	}

	if n, err := s.ReadSamples(buf); n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() at end = %d, %v; want 0, io.EOF", n, err)
	}
}

func TestSource_ReadSamples_SplitFrames(t *testing.T) {
	t.Parallel()

	samples := []int16{1, 2, 3, 4, 5, 6, 7, 8}
	m := newMockReader(22050, samples)
	m.chunk = 3 // never a whole frame per read
	s := newSource(m)

	var got []float32
	buf := make([]float32, 4)
	for range 64 {
		n, err := s.ReadSamples(buf)
		got = append(got, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
	}

	if len(got) != len(samples) {
		t.Fatalf("read %d samples, want %d", len(got), len(samples))
	}
	for i, s := range samples {
		if want := float32(s) / 32768.0; got[i] != want {
			t.Errorf("sample %d = %v, want %v", i, got[i], want)
		}
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	m := newMockReader(44100, []int16{1, 2})
	m.err = io.ErrUnexpectedEOF
	s := newSource(m)

	if _, err := s.ReadSamples(make([]float32, 4)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestSource_ReadSamples_TooSmallBuffer(t *testing.T) {
	t.Parallel()

	s := newSource(newMockReader(44100, []int16{1, 2}))

	if n, err := s.ReadSamples(make([]float32, 1)); n != 0 || err != nil {
		t.Errorf("ReadSamples(1) = %d, %v; want 0, nil", n, err)
	}
}
