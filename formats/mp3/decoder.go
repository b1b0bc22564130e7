// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/audgrid/audio"
)

const (
	// go-mp3 always produces 16-bit little-endian stereo
	outChannels = 2
	frameBytes  = 4

	// samplesPerFrame of an MPEG-1 Layer III frame
	samplesPerFrame = 1152
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
	Length() int64
}

type source struct {
	dec     mp3Reader
	params  audio.StreamParams
	buf     []byte
	pending int // bytes of a split frame kept at the head of buf
}

func (s *source) SampleRate() int            { return s.params.SampleRate }
func (s *source) Channels() int              { return outChannels }
func (s *source) Params() audio.StreamParams { return s.params }
func (s *source) Close() error               { return nil }
func (s *source) BufSize() int               { return cap(s.buf) / 2 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	// Whole frames only so channels never shift
	want := len(dst) / outChannels * frameBytes
	if want == 0 {
		return 0, nil
	}
	if cap(s.buf) < want {
		grown := make([]byte, want)
		copy(grown, s.buf[:s.pending])
		s.buf = grown
	}
	s.buf = s.buf[:want]

	n, err := s.dec.Read(s.buf[s.pending:])
	n += s.pending

	usable := n - n%frameBytes
	for i := 0; i < usable; i += 2 {
		dst[i/2] = float32(int16(binary.LittleEndian.Uint16(s.buf[i:]))) / 32768.0
	}
	s.pending = copy(s.buf, s.buf[usable:n])

	if usable == 0 {
		if err == nil {
			return 0, nil
		}
		if err == io.EOF {
			return 0, io.EOF
		}
		return 0, fmt.Errorf("decoding mp3: %w", err)
	}

	if err != nil && err != io.EOF {
		return usable / 2, fmt.Errorf("decoding mp3: %w", err)
	}

	return usable / 2, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return newSource(dec), nil
}

func newSource(dec mp3Reader) *source {
	var frames uint64
	// Length is -1 when the input cannot seek
	if l := dec.Length(); l > 0 {
		frames = uint64(l) / frameBytes
	}

	return &source{
		dec: dec,
		params: audio.StreamParams{
			SampleRate:         dec.SampleRate(),
			Channels:           outChannels,
			Frames:             frames,
			SampleFormat:       audio.SampleFormatS16,
			BitsPerSample:      16,
			MaxFramesPerPacket: samplesPerFrame,
		},
		buf: make([]byte, 8192),
	}
}
