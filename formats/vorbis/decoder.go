// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/ik5/audgrid/audio"
	"github.com/jfreymuth/oggvorbis"
)

// blockFrames is the largest Vorbis block size a stream commonly uses
const blockFrames = 2048

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Length() int64
	Read([]float32) (int, error)
}

type source struct {
	dec    oggReader
	params audio.StreamParams
}

func (s *source) SampleRate() int            { return s.params.SampleRate }
func (s *source) Channels() int              { return s.params.Channels }
func (s *source) Params() audio.StreamParams { return s.params }
func (s *source) Close() error               { return nil }
func (s *source) BufSize() int               { return blockFrames * s.params.Channels }

func (s *source) ReadSamples(dst []float32) (int, error) {
	// oggvorbis fills whole frames and returns the number of values
	want := len(dst) - len(dst)%s.params.Channels
	if want == 0 {
		return 0, nil
	}

	n, err := s.dec.Read(dst[:want])
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("decoding vorbis: %w", err)
	}
	if n == 0 && err == io.EOF {
		return 0, io.EOF
	}

	return n, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return newSource(dec), nil
}

func newSource(dec oggReader) *source {
	var frames uint64
	if l := dec.Length(); l > 0 {
		frames = uint64(l)
	}

	return &source{
		dec: dec,
		params: audio.StreamParams{
			SampleRate:         dec.SampleRate(),
			Channels:           dec.Channels(),
			Frames:             frames,
			SampleFormat:       audio.SampleFormatF32,
			BitsPerSample:      32,
			MaxFramesPerPacket: blockFrames,
		},
	}
}
