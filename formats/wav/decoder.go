// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ik5/audgrid/audio"
	"github.com/ik5/audgrid/utils"
)

const (
	wavFormatPCM = 1

	// framesPerPacket is the read granularity reported to packetizers.
	framesPerPacket = 1024
)

// pcmReader is the part of wav.Decoder the source reads from, to allow testing
type pcmReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type source struct {
	dec    pcmReader
	params audio.StreamParams
	intBuf *goaudio.IntBuffer
	read   uint64 // frames handed out so far
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
	channels := uint64(s.params.Channels)
	frames := min(uint64(len(dst))/channels, s.params.Frames-s.read)
	if frames == 0 {
		if len(dst) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}

	want := int(frames * channels)
	if s.intBuf == nil || cap(s.intBuf.Data) < want {
		s.intBuf = &goaudio.IntBuffer{
			Data: make([]int, want),
			Format: &goaudio.Format{
				NumChannels: s.params.Channels,
				SampleRate:  s.params.SampleRate,
			},
			SourceBitDepth: s.params.BitsPerSample,
		}
	}
	s.intBuf.Data = s.intBuf.Data[:want]

	n, err := s.dec.PCMBuffer(s.intBuf)
	if n == 0 {
		if err != nil {
			return 0, fmt.Errorf("reading wav pcm: %w", err)
		}
		return 0, io.EOF
	}

	// Drop a trailing partial frame
	n -= n % s.params.Channels
	for i := range n {
		dst[i] = utils.PCMToFloat32(s.intBuf.Data[i], s.params.BitsPerSample)
	}
	s.read += uint64(n) / channels

	if err != nil && err != io.EOF {
		return n, fmt.Errorf("reading wav pcm: %w", err)
	}

	return n, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := audio.ReadSeeker(r)
	if err != nil {
		return nil, err
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedEncoding, dec.WavAudioFormat)
	}

	bits := int(dec.BitDepth)
	switch bits {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, bits)
	}

	channels := int(dec.NumChans)
	if channels == 0 || dec.SampleRate == 0 {
		return nil, ErrUnsupportedWavLayout
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavChunks, err)
	}

	frameBytes := uint64(channels * bits / 8)

	return &source{
		dec: dec,
		params: audio.StreamParams{
			SampleRate:          int(dec.SampleRate),
			Channels:            channels,
			Frames:              uint64(dec.PCMLen()) / frameBytes,
			SampleFormat:        audio.SignedFormat(bits),
			BitsPerSample:       bits,
			BitsPerCodedSample:  bits,
			MaxFramesPerPacket:  framesPerPacket,
			PacketDataIntegrity: true,
		},
	}, nil
}
