// SPDX-License-Identifier: EPL-2.0

//go:build !((linux && cgo) || windows || darwin)

package sink

// AudioAvailable reports whether this build can open an output device.
const AudioAvailable = false

// Speaker is a stub for builds without audio output.
type Speaker struct {
	queue *queue
}

func NewSpeaker(gain func() float32) *Speaker {
	return &Speaker{queue: newQueue(gain)}
}

func (s *Speaker) Enqueue([]float32, int) error {
	return ErrAudioUnavailable
}

func (s *Speaker) Buffered() int { return 0 }

func (s *Speaker) Close() error { return nil }
