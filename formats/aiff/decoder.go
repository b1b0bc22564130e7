// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/ik5/audgrid/audio"
	"github.com/ik5/audgrid/utils"
)

const framesPerPacket = 1024

// aiffReader is an interface for aiff.Decoder to allow testing
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// source wraps go-audio aiff.Decoder to implement audio.ParamSource
type source struct {
	dec    aiffReader
	params audio.StreamParams
	intBuf *goaudio.IntBuffer
}

func (s *source) SampleRate() int            { return s.params.SampleRate }
func (s *source) Channels() int              { return s.params.Channels }
func (s *source) Params() audio.StreamParams { return s.params }
func (s *source) Close() error               { return nil }
func (s *source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return framesPerPacket * s.params.Channels
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) - len(dst)%s.params.Channels
	if want == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < want {
		s.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, want),
			Format: s.dec.Format(),
		}
	}
	s.intBuf.Data = s.intBuf.Data[:want]

	n, err := s.dec.PCMBuffer(s.intBuf)
	if n == 0 {
		if err != nil && err != io.EOF {
			return 0, fmt.Errorf("reading aiff pcm: %w", err)
		}
		return 0, io.EOF
	}

	for i := range n {
		dst[i] = utils.PCMToFloat32(s.intBuf.Data[i], s.params.BitsPerSample)
	}

	if err != nil && err != io.EOF {
		return n, fmt.Errorf("reading aiff pcm: %w", err)
	}

	return n, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	// go-audio requires io.ReadSeeker
	rs, err := audio.ReadSeeker(r)
	if err != nil {
		return nil, fmt.Errorf("reading aiff data: %w", err)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	dec.ReadInfo()

	bits := int(dec.BitDepth)
	switch bits {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, bits)
	}

	format := dec.Format()
	if format == nil || format.NumChannels == 0 {
		return nil, ErrUnsupportedAiffLayout
	}

	return &source{
		dec: dec,
		params: audio.StreamParams{
			SampleRate:          format.SampleRate,
			Channels:            format.NumChannels,
			Frames:              uint64(dec.NumSampleFrames),
			SampleFormat:        audio.SignedFormat(bits),
			BitsPerSample:       bits,
			BitsPerCodedSample:  bits,
			MaxFramesPerPacket:  framesPerPacket,
			PacketDataIntegrity: true,
		},
	}, nil
}
