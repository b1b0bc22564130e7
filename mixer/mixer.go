// SPDX-License-Identifier: EPL-2.0

// Package mixer sums the clips of a timeline into interleaved stereo buffers.
//
// Overlapping clips are added together as they are. Nothing normalizes or
// clips the result.
package mixer

import (
	"io"
	"log/slog"
	"time"

	"github.com/ik5/audgrid/config"
	"github.com/ik5/audgrid/internal/metrics"
	"github.com/ik5/audgrid/timeline"
	"github.com/ik5/audgrid/utils"
)

type Option func(*Mixer)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Mixer) {
		if logger != nil {
			m.logger = logger.With("component", "mixer")
		}
	}
}

func WithMetrics(e *metrics.Engine) Option {
	return func(m *Mixer) {
		m.metrics = e
	}
}

// Mixer reads the timeline and its settings at the moment of each call.
type Mixer struct {
	timeline *timeline.Timeline
	logger   *slog.Logger
	metrics  *metrics.Engine
}

func New(tl *timeline.Timeline, opts ...Option) *Mixer {
	m := &Mixer{
		timeline: tl,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MixAll mixes the whole timeline with the configured implementation.
func (m *Mixer) MixAll() ([]float32, error) {
	return m.MixAllWith(m.timeline.Settings().Implementation())
}

// MixAllWith mixes the whole timeline. The buffer runs from beat 0 to the end
// of the clip that ends last.
//
// The scalar implementation drains each clip's buffer; the SIMD one leaves
// it in place.
func (m *Mixer) MixAllWith(impl config.Implementation) ([]float32, error) {
	ext, ok := m.timeline.Extent()
	if !ok {
		return nil, ErrMixPrecondition
	}

	start := time.Now()
	spb := m.timeline.Settings().Snapshot().SamplesPerBeat()
	total := utils.SatAdd(utils.SatMul(int(ext.Position), spb), ext.Clip.SampleCount())

	out := make([]float32, total)
	m.timeline.Each(func(p timeline.Placement) bool {
		offset := utils.SatMul(int(p.Position), spb)
		if offset >= total {
			return true
		}
		dst := out[offset:]

		if impl == config.SIMD {
			p.Clip.Samples().View(func(samples []float32) {
				addLanes(dst, samples, impl)
			})
		} else {
			addLanes(dst, p.Clip.Samples().Drain(), impl)
		}
		return true
	})

	m.metrics.RecordMix(metrics.MixKindFull, impl.String(), time.Since(start).Seconds())
	m.logger.Debug("mixed timeline",
		"samples", total,
		"implementation", impl.String(),
		"duration", time.Since(start))

	return out, nil
}

// MixWindow mixes the global interleaved range [start, end) with the
// configured implementation.
func (m *Mixer) MixWindow(start, end int) []float32 {
	return m.MixWindowWith(start, end, m.timeline.Settings().Implementation())
}

// MixWindowWith mixes [start, end). Samples a clip has not produced yet are
// silence. Every clip that overlaps the window is asked to read ahead.
func (m *Mixer) MixWindowWith(start, end int, impl config.Implementation) []float32 {
	if end <= start {
		return []float32{}
	}

	began := time.Now()
	spb := m.timeline.Settings().Snapshot().SamplesPerBeat()
	out := make([]float32, end-start)

	m.timeline.Each(func(p timeline.Placement) bool {
		offset := utils.SatMul(int(p.Position), spb)
		span := p.Clip.SampleCount()
		if utils.SatAdd(offset, span) <= start || offset >= end {
			return true
		}

		local := max(offset-start, 0)
		from := max(start-offset, 0)
		n := min(end-start-local, span-from)

		dst := out[local : local+n]
		p.Clip.Samples().View(func(samples []float32) {
			if from < len(samples) {
				addLanes(dst, samples[from:min(len(samples), from+n)], impl)
			}
		})

		if err := p.Clip.RequestDefault(); err != nil {
			m.logger.Debug("read-ahead request skipped", "clip", p.Clip.Name(), "error", err)
		}
		return true
	})

	m.metrics.RecordMix(metrics.MixKindWindow, impl.String(), time.Since(began).Seconds())
	return out
}

// Render mixes the whole timeline, or returns nil when it is empty.
func (m *Mixer) Render() []float32 {
	if m.timeline.IsEmpty() {
		return nil
	}
	out, err := m.MixAll()
	if err != nil {
		m.logger.Debug("render skipped", "error", err)
		return nil
	}
	return out
}
