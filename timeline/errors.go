// SPDX-License-Identifier: EPL-2.0

package timeline

import "errors"

var (
	ErrNoClip            = errors.New("no clip at position")
	ErrMissingFrameCount = errors.New("stream parameters have no frame count")
	ErrMissingChannels   = errors.New("stream parameters have no channel count")
	ErrOutsideGrid       = errors.New("pointer is outside the track grid")
)
