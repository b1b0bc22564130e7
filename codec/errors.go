// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"errors"
	"fmt"
)

var (
	ErrNoAudioTrack     = errors.New("no audio track found")
	ErrNoFrameCount     = errors.New("audio track has no frame count")
	ErrUnsupportedCodec = errors.New("unsupported codec")
	ErrPacketOutOfOrder = errors.New("packet decoded out of stream order")
	ErrEndOfStream      = errors.New("stream ended before packet was complete")
)

// DecodeError reports why a file could not be turned into a decodable stream.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeError(path string, err error) error {
	return &DecodeError{Path: path, Err: err}
}
