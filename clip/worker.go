// SPDX-License-Identifier: EPL-2.0

package clip

import (
	"errors"
	"log/slog"

	"github.com/ik5/audgrid/audio"
	"github.com/ik5/audgrid/buffer"
	"github.com/ik5/audgrid/codec"
	"github.com/ik5/audgrid/internal/metrics"
)

// worker owns the decoder and resampler of one clip. Everything here runs on
// the worker goroutine.
type worker struct {
	backlog []codec.Packet
	dec     *codec.Decoder
	rs      *audio.FixedOutResampler

	scratch     [2][]float32
	out         [][]float32
	interleaved []float32

	samples  *buffer.Shared
	produced int
	expected int

	logger  *slog.Logger
	metrics *metrics.Engine
}

func (w *worker) run(requests <-chan Request, quit <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer w.metrics.WorkerStopped()
	defer func() {
		if err := w.dec.Close(); err != nil {
			w.logger.Debug("closing decoder", "error", err)
		}
	}()

	for {
		select {
		case <-quit:
			return
		case req := <-requests:
			if !w.serve(req, quit) {
				return
			}
		}
	}
}

// serve handles one request and reports whether the worker should keep
// running. It gives up as soon as quit is closed.
func (w *worker) serve(req Request, quit <-chan struct{}) bool {
	if len(w.backlog) == 0 {
		w.flush(quit)
		return false
	}

	for {
		if closed(quit) {
			return false
		}

		if err := w.decodeBatch(req.Samples); err != nil {
			w.fail("decode", err)
			return false
		}

		if err := w.resample(); err != nil {
			w.fail("resample", err)
			return false
		}

		if req.Destination == nil || w.produced >= *req.Destination || len(w.backlog) == 0 {
			break
		}
	}

	if len(w.backlog) == 0 {
		w.flush(quit)
		return false
	}
	return true
}

func closed(quit <-chan struct{}) bool {
	select {
	case <-quit:
		return true
	default:
		return false
	}
}

// decodeBatch decodes the head packet, then as many more as samples needs
// given the head packet's size.
func (w *worker) decodeBatch(samples int) error {
	capacity, err := w.decodeNext()
	if err == nil {
		extra := min(samples/max(capacity, 1), len(w.backlog))
		for range extra {
			if _, err = w.decodeNext(); err != nil {
				break
			}
		}
	}

	if errors.Is(err, codec.ErrEndOfStream) {
		// Frame counts taken from container headers can overshoot
		w.backlog = nil
		return nil
	}
	return err
}

// decodeNext decodes the head of the backlog into scratch and returns its
// frame count.
func (w *worker) decodeNext() (int, error) {
	p := w.backlog[0]
	w.backlog = w.backlog[1:]

	planar, err := w.dec.Decode(p)
	if err != nil {
		return 0, err
	}

	left, right := audio.StereoPair(planar)
	w.scratch[0] = append(w.scratch[0], left...)
	w.scratch[1] = append(w.scratch[1], right...)

	return len(left), nil
}

func (w *worker) resample() error {
	for len(w.scratch[0]) >= w.rs.InputFramesNext() {
		if err := w.process(); err != nil {
			return err
		}
	}
	return nil
}

func (w *worker) process() error {
	used, produced, err := w.rs.Process(w.scratch[:], w.out)
	if err != nil {
		return err
	}

	for c := range w.scratch {
		w.scratch[c] = append(w.scratch[c][:0], w.scratch[c][used:]...)
	}
	w.emit(produced)

	return nil
}

// emit appends n resampled frames, never going past the expected length.
func (w *worker) emit(n int) {
	n = min(n, (w.expected-w.produced)/2)
	if n <= 0 {
		return
	}

	w.interleaved = audio.AppendInterleaved(w.interleaved[:0], w.out[0], w.out[1], n)
	w.samples.Append(w.interleaved...)
	w.produced += len(w.interleaved)
	w.metrics.RecordResampled(len(w.interleaved))
}

// flush pads the leftover scratch with silence so the tail of the clip
// reaches the buffer.
func (w *worker) flush(quit <-chan struct{}) {
	for w.produced < w.expected {
		if closed(quit) {
			return
		}

		need := w.rs.InputFramesNext()
		for c := range w.scratch {
			for len(w.scratch[c]) < need {
				w.scratch[c] = append(w.scratch[c], 0)
			}
		}
		if err := w.process(); err != nil {
			w.fail("resample", err)
			return
		}
	}

	w.logger.Debug("clip fully resampled", "samples", w.produced)
}

func (w *worker) fail(stage string, err error) {
	w.logger.Warn("resample worker stopped",
		"stage", stage,
		"produced", w.produced,
		"error", err)
	w.metrics.RecordWorkerFailure(stage)
}
