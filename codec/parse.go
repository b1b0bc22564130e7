// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/audgrid/audio"
	"github.com/ik5/audgrid/formats/aiff"
	"github.com/ik5/audgrid/formats/flac"
	"github.com/ik5/audgrid/formats/mp3"
	"github.com/ik5/audgrid/formats/vorbis"
	"github.com/ik5/audgrid/formats/wav"
)

// Format keys used in the registry
const (
	FormatWAV    = "wav"
	FormatAIFF   = "aiff"
	FormatMP3    = "mp3"
	FormatVorbis = "ogg"
	FormatFLAC   = "flac"
)

// trackID of the only track a stream exposes
const trackID = 0

// sniffLen is how much of the head of a file Sniff looks at
const sniffLen = 12

// Stream is a parsed audio file ready to be decoded packet by packet.
type Stream struct {
	Format   string
	Packets  []Packet
	Duration float64 // seconds
	Params   audio.StreamParams
	Decoder  *Decoder
}

// DefaultRegistry returns a registry holding every built-in format.
func DefaultRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register(FormatWAV, wav.Decoder{})
	r.Register(FormatAIFF, aiff.Decoder{})
	r.Register(FormatMP3, mp3.Decoder{})
	r.Register(FormatVorbis, vorbis.Decoder{})
	r.Register(FormatFLAC, flac.Decoder{})

	return r
}

// Parser opens audio files through a decoder registry.
type Parser struct {
	registry *audio.Registry
}

func NewParser(registry *audio.Registry) *Parser {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Parser{registry: registry}
}

var defaultParser = NewParser(nil)

// Parse opens path with the built-in formats.
func Parse(path string) (*Stream, error) {
	return defaultParser.Parse(path)
}

// ParseReader parses an in-memory or already opened file with the built-in formats.
func ParseReader(name string, r io.ReadSeeker) (*Stream, error) {
	return defaultParser.ParseReader(name, r)
}

// Parse opens path and prepares its audio track for decoding. The file stays
// open until the returned Stream's Decoder is closed.
func (p *Parser) Parse(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, decodeError(path, err)
	}

	s, err := p.ParseReader(path, f)
	if err != nil {
		f.Close()
		return nil, err
	}

	s.Decoder.src = closingSource{ParamSource: s.Decoder.src, closer: f}

	return s, nil
}

// ParseReader detects the format of r, falling back to the extension of name,
// and prepares its audio track for decoding.
func (p *Parser) ParseReader(name string, r io.ReadSeeker) (*Stream, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, decodeError(name, err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, decodeError(name, err)
	}

	format := Sniff(head[:n], name)
	if format == "" {
		return nil, decodeError(name, ErrUnsupportedCodec)
	}

	dec, ok := p.registry.Get(format)
	if !ok {
		return nil, decodeError(name, fmt.Errorf("%w: %s", ErrUnsupportedCodec, format))
	}

	src, err := dec.Decode(r)
	if err != nil {
		return nil, decodeError(name, err)
	}

	ps, ok := src.(audio.ParamSource)
	if !ok {
		src.Close()
		return nil, decodeError(name, fmt.Errorf("%w: %s decoder reports no stream parameters", ErrUnsupportedCodec, format))
	}

	params := ps.Params()
	switch {
	case params.Channels <= 0 || params.SampleRate <= 0:
		src.Close()
		return nil, decodeError(name, ErrNoAudioTrack)
	case params.Frames == 0:
		src.Close()
		return nil, decodeError(name, ErrNoFrameCount)
	}

	return &Stream{
		Format:   format,
		Packets:  Packetize(trackID, params),
		Duration: params.Duration(),
		Params:   params,
		Decoder:  NewDecoder(ps),
	}, nil
}

// Sniff identifies a format from the first bytes of a file, falling back to
// the extension of name. It returns "" when neither matches.
func Sniff(head []byte, name string) string {
	switch {
	case len(head) >= 12 && bytes.Equal(head[0:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WAVE")):
		return FormatWAV
	case len(head) >= 12 && bytes.Equal(head[0:4], []byte("FORM")) &&
		(bytes.Equal(head[8:12], []byte("AIFF")) || bytes.Equal(head[8:12], []byte("AIFC"))):
		return FormatAIFF
	case bytes.HasPrefix(head, []byte("OggS")):
		return FormatVorbis
	case bytes.HasPrefix(head, []byte("fLaC")):
		return FormatFLAC
	case bytes.HasPrefix(head, []byte("ID3")):
		return FormatMP3
	case len(head) >= 2 && head[0] == 0xFF && head[1]&0xE0 == 0xE0:
		return FormatMP3
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav", ".wave":
		return FormatWAV
	case ".aif", ".aiff", ".aifc":
		return FormatAIFF
	case ".ogg", ".oga":
		return FormatVorbis
	case ".flac":
		return FormatFLAC
	case ".mp3":
		return FormatMP3
	}

	return ""
}

// closingSource closes the opened file after the format source.
type closingSource struct {
	audio.ParamSource
	closer io.Closer
}

func (c closingSource) Close() error {
	srcErr := c.ParamSource.Close()
	if err := c.closer.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	if srcErr != nil {
		return fmt.Errorf("%w", srcErr)
	}
	return nil
}
