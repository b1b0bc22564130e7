// SPDX-License-Identifier: EPL-2.0

package config

import "errors"

var (
	ErrInvalidSampleRate     = errors.New("unsupported sample rate")
	ErrInvalidTempo          = errors.New("tempo out of range")
	ErrInvalidVolume         = errors.New("volume out of range")
	ErrInvalidImplementation = errors.New("unknown mixing implementation")
	ErrInvalidWindow         = errors.New("window length must be at least one second")
)
