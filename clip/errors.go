// SPDX-License-Identifier: EPL-2.0

package clip

import "errors"

var (
	// ErrResamplingUnavailable is returned when a request is sent to a clip
	// whose worker has already finished.
	ErrResamplingUnavailable = errors.New("resampling unavailable: clip worker has finished")
	ErrInvalidRate           = errors.New("invalid project sample rate")
	ErrOddSampleCount        = errors.New("interleaved stereo samples must come in pairs")
)
