// SPDX-License-Identifier: EPL-2.0

package sink

import "errors"

var (
	ErrAudioUnavailable = errors.New("audio output is not available in this build")
	ErrRateMismatch     = errors.New("sample rate changed while writing")
	ErrClosed           = errors.New("sink is closed")
	ErrOddSampleCount   = errors.New("interleaved stereo samples must come in pairs")
)
