// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestWriteWAV16_Header(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		rate       int
		channels   int
		samples    []int16
		blockAlign uint16
	}{
		{"mono", 8000, 1, []int16{0, 100, -100}, 2},
		{"stereo", 48000, 2, []int16{1, -1, 2, -2}, 4},
		{"empty stereo", 44100, 2, nil, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := new(bytes.Buffer)
			if err := WriteWAV16(buf, tt.rate, tt.channels, tt.samples); err != nil {
				t.Fatalf("WriteWAV16() error = %v", err)
			}

			data := buf.Bytes()
			if len(data) != 44+len(tt.samples)*2 {
				t.Fatalf("file size = %d, want %d", len(data), 44+len(tt.samples)*2)
			}
			if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
				t.Errorf("markers = %q %q, want RIFF WAVE", data[0:4], data[8:12])
			}
			if got := binary.LittleEndian.Uint16(data[22:24]); int(got) != tt.channels {
				t.Errorf("channels = %d, want %d", got, tt.channels)
			}
			if got := binary.LittleEndian.Uint32(data[24:28]); int(got) != tt.rate {
				t.Errorf("sample rate = %d, want %d", got, tt.rate)
			}
			if got := binary.LittleEndian.Uint16(data[32:34]); got != tt.blockAlign {
				t.Errorf("block align = %d, want %d", got, tt.blockAlign)
			}
			if got := binary.LittleEndian.Uint32(data[40:44]); int(got) != len(tt.samples)*2 {
				t.Errorf("data size = %d, want %d", got, len(tt.samples)*2)
			}

			for i, want := range tt.samples {
				got := int16(binary.LittleEndian.Uint16(data[44+i*2:]))
				if got != want {
					t.Errorf("sample %d = %d, want %d", i, got, want)
				}
			}
		})
	}
}

func TestWriteWAV16_LargeInput(t *testing.T) {
	t.Parallel()

	// Crosses several internal write chunks
	samples := make([]int16, 10001*2)
	for i := range samples {
		samples[i] = int16(i % 3000)
	}

	buf := new(bytes.Buffer)
	if err := WriteWAV16(buf, 48000, 2, samples); err != nil {
		t.Fatal(err)
	}

	data := buf.Bytes()
	last := int16(binary.LittleEndian.Uint16(data[len(data)-2:]))
	if last != samples[len(samples)-1] {
		t.Errorf("last sample = %d, want %d", last, samples[len(samples)-1])
	}
}

func TestWriteWAV16_InvalidLayout(t *testing.T) {
	t.Parallel()

	if err := WriteWAV16(new(bytes.Buffer), 8000, 0, nil); !errors.Is(err, ErrInvalidChannels) {
		t.Errorf("zero channels error = %v, want ErrInvalidChannels", err)
	}
	if err := WriteWAV16(new(bytes.Buffer), 8000, 2, []int16{1, 2, 3}); !errors.Is(err, ErrSampleAlignment) {
		t.Errorf("odd stereo error = %v, want ErrSampleAlignment", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteWAV16_WriterError(t *testing.T) {
	t.Parallel()

	if err := WriteWAV16(failingWriter{}, 8000, 1, []int16{1}); err == nil {
		t.Error("WriteWAV16() error = nil, want writer error")
	}
}

func BenchmarkWriteWAV16(b *testing.B) {
	samples := make([]int16, 48000*2)
	buf := new(bytes.Buffer)

	b.ReportAllocs()

	for b.Loop() {
		buf.Reset()
		_ = WriteWAV16(buf, 48000, 2, samples)
	}
}
