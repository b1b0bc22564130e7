// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audgrid/audio"
	"github.com/ik5/audgrid/utils"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
)

// frameReader is the part of flac.Stream the source pulls frames from, to allow testing
type frameReader interface {
	ParseNext() (*frame.Frame, error)
	Close() error
}

type source struct {
	stream  frameReader
	params  audio.StreamParams
	pending []float32 // interleaved samples of the current frame not yet returned
	eof     bool
}

func (s *source) SampleRate() int            { return s.params.SampleRate }
func (s *source) Channels() int              { return s.params.Channels }
func (s *source) Params() audio.StreamParams { return s.params }
func (s *source) BufSize() int {
	return int(s.params.MaxFramesPerPacket) * s.params.Channels
}

func (s *source) Close() error {
	if err := s.stream.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) - len(dst)%s.params.Channels
	written := 0

	for written < want {
		if len(s.pending) == 0 {
			if s.eof {
				break
			}
			if err := s.next(); err != nil {
				if written > 0 {
					return written, err
				}
				return 0, err
			}
			continue
		}

		n := copy(dst[written:want], s.pending)
		s.pending = s.pending[n:]
		written += n
	}

	if written == 0 && want > 0 {
		return 0, io.EOF
	}

	return written, nil
}

// next decodes one FLAC frame into pending.
func (s *source) next() error {
	f, err := s.stream.ParseNext()
	if errors.Is(err, io.EOF) {
		s.eof = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("decoding flac frame: %w", err)
	}

	channels := s.params.Channels
	if len(f.Subframes) < channels {
		return ErrChannelMismatch
	}

	block := int(f.BlockSize)
	buf := s.pending[:0]
	if cap(buf) < block*channels {
		buf = make([]float32, 0, block*channels)
	}

	for i := range block {
		for c := range channels {
			buf = append(buf, utils.PCMToFloat32(int(f.Subframes[c].Samples[i]), s.params.BitsPerSample))
		}
	}
	s.pending = buf

	return nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	info := stream.Info
	if info == nil || info.NChannels == 0 || info.SampleRate == 0 {
		stream.Close()
		return nil, ErrMissingStreamInfo
	}

	bits := int(info.BitsPerSample)

	return &source{
		stream: stream,
		params: audio.StreamParams{
			SampleRate:          int(info.SampleRate),
			Channels:            int(info.NChannels),
			Frames:              info.NSamples,
			SampleFormat:        audio.SignedFormat(bits),
			BitsPerSample:       bits,
			BitsPerCodedSample:  bits,
			MaxFramesPerPacket:  uint64(info.BlockSizeMax),
			PacketDataIntegrity: true,
			FramesPerBlock:      uint64(info.BlockSizeMin),
		},
	}, nil
}
