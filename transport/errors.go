// SPDX-License-Identifier: EPL-2.0

package transport

import "errors"

var (
	ErrAlreadyPlaying = errors.New("transport is already playing")
	ErrNotPlaying     = errors.New("transport is not playing")
	ErrInvalidWindow  = errors.New("playback window must be positive")
)
