// SPDX-License-Identifier: EPL-2.0

package flac

import "errors"

var (
	// ErrMissingStreamInfo indicates a stream without usable STREAMINFO
	ErrMissingStreamInfo = errors.New("flac stream has no usable STREAMINFO")

	// ErrChannelMismatch indicates a frame with fewer subframes than the stream declares
	ErrChannelMismatch = errors.New("flac frame channel count does not match stream")
)
