// SPDX-License-Identifier: EPL-2.0

package sink

import "sync"

// queue is a beep.Streamer over windows pushed from another goroutine. It
// plays silence while empty so the device never stops.
type queue struct {
	mtx     sync.Mutex
	pending []float32
	gain    func() float32
	played  int
}

func newQueue(gain func() float32) *queue {
	if gain == nil {
		gain = func() float32 { return 1 }
	}
	return &queue{gain: gain}
}

func (q *queue) push(samples []float32) {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	q.pending = append(q.pending, samples...)
}

// Buffered is the number of interleaved samples waiting to play.
func (q *queue) Buffered() int {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	return len(q.pending)
}

func (q *queue) Stream(samples [][2]float64) (int, bool) {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	g := float64(q.gain())
	n := min(len(samples), len(q.pending)/2)
	for i := range n {
		samples[i][0] = float64(q.pending[i*2]) * g
		samples[i][1] = float64(q.pending[i*2+1]) * g
	}
	for i := n; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}

	q.pending = append(q.pending[:0], q.pending[n*2:]...)
	q.played += n
	return len(samples), true
}

func (q *queue) Err() error { return nil }
