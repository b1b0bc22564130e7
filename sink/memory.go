// SPDX-License-Identifier: EPL-2.0

// Package sink provides outputs for mixed interleaved stereo windows.
package sink

import (
	"fmt"
	"slices"
	"sync"
)

// Memory keeps every window it receives. It is meant for tests and offline
// rendering.
type Memory struct {
	mtx     sync.Mutex
	rate    int
	samples []float32
	windows int
	closed  bool
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Enqueue(samples []float32, rate int) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.closed {
		return ErrClosed
	}
	if m.rate != 0 && m.rate != rate {
		return fmt.Errorf("%w: %d Hz after %d Hz", ErrRateMismatch, rate, m.rate)
	}

	m.rate = rate
	m.samples = append(m.samples, samples...)
	m.windows++
	return nil
}

// Samples copies everything received so far.
func (m *Memory) Samples() []float32 {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return slices.Clone(m.samples)
}

func (m *Memory) Windows() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return m.windows
}

func (m *Memory) Rate() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return m.rate
}

func (m *Memory) Close() error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.closed = true
	return nil
}
