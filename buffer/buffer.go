// SPDX-License-Identifier: EPL-2.0

// Package buffer holds the sample store shared by a clip's resample worker
// and the mixer.
package buffer

import "sync"

// Shared is an append-only run of interleaved stereo samples. One goroutine
// appends, any number read. Reads past the produced length see silence.
type Shared struct {
	mtx  sync.Mutex
	data []float32
}

func New(capacity int) *Shared {
	return &Shared{data: make([]float32, 0, max(capacity, 0))}
}

// FromSlice wraps a copy of samples.
func FromSlice(samples []float32) *Shared {
	return &Shared{data: append([]float32(nil), samples...)}
}

// Append adds samples to the end and returns the new length.
func (s *Shared) Append(samples ...float32) int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.data = append(s.data, samples...)
	return len(s.data)
}

func (s *Shared) Len() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return len(s.data)
}

// Snapshot copies everything produced so far.
func (s *Shared) Snapshot() []float32 {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return append([]float32(nil), s.data...)
}

// ReadAt fills dst with the samples starting at off and zero-fills whatever
// has not been produced yet. It returns how many samples were real data.
func (s *Shared) ReadAt(dst []float32, off int) int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	n := 0
	if off >= 0 && off < len(s.data) {
		n = copy(dst, s.data[off:])
	}
	clear(dst[n:])

	return n
}

// Drain hands the produced samples to the caller and leaves the buffer empty.
// Later appends start a fresh run.
func (s *Shared) Drain() []float32 {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	out := s.data
	s.data = nil
	return out
}

// View runs fn with the produced samples under the lock. fn must not keep
// samples or modify it.
func (s *Shared) View(fn func(samples []float32)) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	fn(s.data)
}
