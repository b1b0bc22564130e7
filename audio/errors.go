// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize   = errors.New("dst size must be multiple of channels")
	ErrInvalidRate      = errors.New("sample rate must be positive")
	ErrInvalidChunkSize = errors.New("chunk size must be positive")
	ErrInvalidChannels  = errors.New("channel count must be positive")
	ErrChannelMismatch  = errors.New("buffer channel count does not match resampler")
	ErrInputTooShort    = errors.New("not enough input frames for resampler")
	ErrOutputTooShort   = errors.New("output buffer shorter than chunk size")
)
