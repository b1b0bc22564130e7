// SPDX-License-Identifier: EPL-2.0

//go:build (linux && cgo) || windows || darwin

package sink

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// AudioAvailable reports whether this build can open an output device.
const AudioAvailable = true

// Speaker plays windows on the default output device. The device is opened
// on the first window, at that window's rate.
type Speaker struct {
	mtx    sync.Mutex
	rate   int
	queue  *queue
	closed bool
}

// NewSpeaker creates a speaker sink. gain is read on every device callback;
// nil plays at unity.
func NewSpeaker(gain func() float32) *Speaker {
	return &Speaker{queue: newQueue(gain)}
}

func (s *Speaker) Enqueue(samples []float32, rate int) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.closed {
		return ErrClosed
	}
	if len(samples)%2 != 0 {
		return fmt.Errorf("%w: got %d", ErrOddSampleCount, len(samples))
	}

	if s.rate == 0 {
		sr := beep.SampleRate(rate)
		if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
			return fmt.Errorf("failed to initialize speaker: %w", err)
		}
		speaker.Play(s.queue)
		s.rate = rate
	} else if s.rate != rate {
		return fmt.Errorf("%w: %d Hz on a %d Hz device", ErrRateMismatch, rate, s.rate)
	}

	s.queue.push(samples)
	return nil
}

// Buffered is the number of interleaved samples not yet handed to the
// device.
func (s *Speaker) Buffered() int {
	return s.queue.Buffered()
}

func (s *Speaker) Close() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.rate != 0 {
		speaker.Clear()
		speaker.Close()
	}
	return nil
}
