// SPDX-License-Identifier: EPL-2.0

package audgrid

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/samber/lo"

	"github.com/ik5/audgrid/clip"
	"github.com/ik5/audgrid/config"
	"github.com/ik5/audgrid/internal/metrics"
	"github.com/ik5/audgrid/layout"
	"github.com/ik5/audgrid/mixer"
	"github.com/ik5/audgrid/timeline"
	"github.com/ik5/audgrid/transport"
)

// Project ties the settings, timeline and mixer of one arrangement together.
type Project struct {
	settings *config.Settings
	timeline *timeline.Timeline
	mixer    *mixer.Mixer

	// base is handed to subcomponents, which add their own component
	base    *slog.Logger
	logger  *slog.Logger
	metrics *metrics.Engine
}

func New(opts ...Option) *Project {
	p := &Project{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.settings == nil {
		p.settings = config.NewSettings()
	}

	p.base = p.logger
	p.logger = p.base.With("component", "project")
	p.timeline = timeline.New(p.settings, timeline.WithLogger(p.base))
	p.mixer = mixer.New(p.timeline, mixer.WithLogger(p.base), mixer.WithMetrics(p.metrics))

	return p
}

func (p *Project) Settings() *config.Settings    { return p.settings }
func (p *Project) Timeline() *timeline.Timeline { return p.timeline }
func (p *Project) Mixer() *mixer.Mixer          { return p.mixer }

func (p *Project) clipOptions() []clip.Option {
	return []clip.Option{
		clip.WithLogger(p.base),
		clip.WithMetrics(p.metrics),
		clip.WithReadAhead(p.settings.ReadAheadSeconds()),
	}
}

// AddFile decodes the header of path, places it at (track, position) and
// starts reading ahead.
func (p *Project) AddFile(track, position uint, path string) (*clip.Clip, error) {
	c, err := clip.New(filepath.Base(path), path, p.settings.SampleRate().Hz(), p.clipOptions()...)
	if err != nil {
		return nil, err
	}

	p.AddClip(track, position, c)
	return c, nil
}

// AddClip places an existing clip and starts reading ahead.
func (p *Project) AddClip(track, position uint, c *clip.Clip) {
	p.timeline.Insert(track, position, c)
	if err := c.RequestDefault(); err != nil && !errors.Is(err, clip.ErrResamplingUnavailable) {
		p.logger.Warn("initial read-ahead failed", "clip", c.Name(), "error", err)
	}

	p.logger.Info("clip placed",
		"clip", c.Name(),
		"track", track,
		"position", position,
		"duration_seconds", c.Duration())
}

// DropFile places path where the pointer at (x, y) falls on g.
func (p *Project) DropFile(g timeline.Grid, x, y float64, path string) (timeline.Placement, error) {
	track, beat, err := g.Locate(x, y, p.settings.Tempo())
	if err != nil {
		return timeline.Placement{}, err
	}

	c, err := p.AddFile(track, beat, path)
	if err != nil {
		return timeline.Placement{}, err
	}
	return timeline.Placement{Track: track, Position: beat, Clip: c}, nil
}

func (p *Project) Remove(track, position uint) bool {
	_, ok := p.timeline.Remove(track, position)
	return ok
}

func (p *Project) Move(fromTrack, fromPosition, toTrack, toPosition uint) error {
	return p.timeline.Move(fromTrack, fromPosition, toTrack, toPosition)
}

// Clear removes every clip and stops their workers.
func (p *Project) Clear() {
	p.timeline.Clear()
}

// SetTempo changes the tempo and refreshes the cached extent.
func (p *Project) SetTempo(bpm int) error {
	if err := p.settings.SetTempo(bpm); err != nil {
		return err
	}
	p.timeline.Recalculate()
	return nil
}

// Fill waits until every clip has been fully resampled or ctx ends.
func (p *Project) Fill(ctx context.Context) error {
	clips := lo.Map(p.timeline.Placements(), func(pl timeline.Placement, _ int) *clip.Clip {
		return pl.Clip
	})

	// Wake every worker first so they resample side by side
	for _, c := range clips {
		_ = c.RequestUntil(c.SampleCount())
	}
	for _, c := range clips {
		if err := c.Fill(ctx); err != nil {
			return fmt.Errorf("filling %s: %w", c.Name(), err)
		}
	}
	return nil
}

// Preview mixes the whole timeline with whatever each clip has produced.
func (p *Project) Preview() ([]float32, error) {
	return p.mixer.MixAll()
}

// NewTransport returns a transport that plays this project into sink.
func (p *Project) NewTransport(sink transport.Sink, opts ...transport.Option) *transport.Transport {
	opts = append([]transport.Option{
		transport.WithLogger(p.base),
		transport.WithMetrics(p.metrics),
	}, opts...)
	return transport.New(p.mixer, sink, p.settings, opts...)
}

func (p *Project) SaveLayout(path string) error {
	return layout.Save(path, layout.Capture(p.timeline))
}

// LoadLayout replaces the current arrangement with the one stored at path.
// Settings are applied before any clip is decoded. Placements that fail to
// load are reported, the rest stay on the timeline.
func (p *Project) LoadLayout(path string) error {
	l, err := layout.Load(path)
	if err != nil {
		return err
	}
	if err := l.Apply(p.settings); err != nil {
		return err
	}

	p.timeline.Clear()

	restored, err := l.Restore(p.timeline, p.clipOptions()...)
	for _, c := range restored {
		_ = c.RequestDefault()
	}

	p.logger.Info("layout loaded",
		"path", path,
		"clips", len(restored),
		"placements", len(l.Placements))
	return err
}

// Close removes every clip. The project can be reused afterwards.
func (p *Project) Close() error {
	p.Clear()
	return nil
}
