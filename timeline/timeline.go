// SPDX-License-Identifier: EPL-2.0

// Package timeline places clips on tracks at beat positions and tracks which
// clip ends last.
package timeline

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ik5/audgrid/audio"
	"github.com/ik5/audgrid/clip"
	"github.com/ik5/audgrid/config"
	"github.com/ik5/audgrid/internal/itemgroup"
)

// Placement is a clip at a track and beat position.
type Placement struct {
	Track    uint
	Position uint
	Clip     *clip.Clip
}

// Extent is the placement that ends last. End is in seconds.
type Extent struct {
	Placement
	End float64
}

type Option func(*Timeline)

func WithLogger(logger *slog.Logger) Option {
	return func(t *Timeline) {
		if logger != nil {
			t.logger = logger.With("component", "timeline")
		}
	}
}

// Timeline maps track → beat position → clip. Different tracks can be
// changed concurrently.
type Timeline struct {
	settings *config.Settings
	clips    *itemgroup.Group[uint, uint, *clip.Clip]

	extentMtx sync.RWMutex
	extent    *Extent

	logger *slog.Logger
}

func New(settings *config.Settings, opts ...Option) *Timeline {
	t := &Timeline{
		settings: settings,
		clips:    itemgroup.New[uint, uint, *clip.Clip](),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Settings returns the settings offsets are computed from.
func (t *Timeline) Settings() *config.Settings { return t.settings }

// Insert places c at (track, position). A clip already there is replaced
// and closed.
func (t *Timeline) Insert(track, position uint, c *clip.Clip) {
	old, replaced := t.clips.Insert(track, position, c)
	if replaced && old != c {
		t.logger.Debug("replacing clip", "track", track, "position", position, "old", old.Name(), "new", c.Name())
		_ = old.Close()
	}
	t.Recalculate()
}

// Remove takes the clip at (track, position) off the timeline and stops its
// worker. Its samples stay readable.
func (t *Timeline) Remove(track, position uint) (*clip.Clip, bool) {
	c, ok := t.clips.Remove(track, position)
	if !ok {
		return nil, false
	}
	_ = c.Close()
	t.Recalculate()
	return c, true
}

// Move relocates a clip without restarting its worker. A clip at the
// destination is replaced.
func (t *Timeline) Move(fromTrack, fromPosition, toTrack, toPosition uint) error {
	if fromTrack == toTrack && fromPosition == toPosition {
		if _, ok := t.clips.Lookup(fromTrack, fromPosition); !ok {
			return fmt.Errorf("%w: track %d, beat %d", ErrNoClip, fromTrack, fromPosition)
		}
		return nil
	}

	c, ok := t.clips.Remove(fromTrack, fromPosition)
	if !ok {
		return fmt.Errorf("%w: track %d, beat %d", ErrNoClip, fromTrack, fromPosition)
	}
	t.Insert(toTrack, toPosition, c)
	return nil
}

func (t *Timeline) Get(track, position uint) (*clip.Clip, bool) {
	return t.clips.Lookup(track, position)
}

// Clips returns the placements of one track in insertion order.
func (t *Timeline) Clips(track uint) []Placement {
	entries, _ := t.clips.Get(track)

	out := make([]Placement, 0, len(entries))
	for _, e := range entries {
		out = append(out, Placement{Track: track, Position: e.Key, Clip: e.Value})
	}
	return out
}

// Each visits every placement, tracks in ascending order and positions in
// insertion order, until fn returns false. No lock is held while fn runs.
func (t *Timeline) Each(fn func(p Placement) bool) {
	t.clips.Range(func(track uint, entries []itemgroup.Entry[uint, *clip.Clip]) bool {
		for _, e := range entries {
			if !fn(Placement{Track: track, Position: e.Key, Clip: e.Value}) {
				return false
			}
		}
		return true
	})
}

// Placements collects Each into a slice.
func (t *Timeline) Placements() []Placement {
	var out []Placement
	t.Each(func(p Placement) bool {
		out = append(out, p)
		return true
	})
	return out
}

// Tracks lists tracks that hold at least one clip, ascending.
func (t *Timeline) Tracks() []uint {
	var out []uint
	t.clips.Range(func(track uint, entries []itemgroup.Entry[uint, *clip.Clip]) bool {
		if len(entries) > 0 {
			out = append(out, track)
		}
		return true
	})
	return out
}

func (t *Timeline) Len() int { return t.clips.ValueLen() }

func (t *Timeline) IsEmpty() bool { return t.Len() == 0 }

// Clear removes and closes every clip.
func (t *Timeline) Clear() {
	for _, c := range t.clips.Clear() {
		_ = c.Close()
	}
	t.Recalculate()
}

// Extent returns the placement that ends last, if any.
func (t *Timeline) Extent() (Extent, bool) {
	t.extentMtx.RLock()
	defer t.extentMtx.RUnlock()

	if t.extent == nil {
		return Extent{}, false
	}
	return *t.extent, true
}

// Recalculate rescans every clip for the one that ends last at the current
// tempo. Call it after changing the tempo; structural changes call it
// themselves. Equal end times go to the placement visited later.
func (t *Timeline) Recalculate() {
	// Held across the scan so concurrent callers store in scan order
	t.extentMtx.Lock()
	defer t.extentMtx.Unlock()

	beat := t.settings.Snapshot().BeatSeconds()

	var best *Extent
	t.Each(func(p Placement) bool {
		end := float64(p.Position)*beat + p.Clip.Duration()
		if best == nil || end >= best.End {
			best = &Extent{Placement: p, End: end}
		}
		return true
	})

	t.extent = best

	if best != nil {
		t.logger.Debug("extent recalculated",
			"track", best.Track,
			"position", best.Position,
			"clip", best.Clip.Name(),
			"end_seconds", best.End)
	}
}

// TotalSamples is the interleaved length of a full mix at the current
// settings, or 0 for an empty timeline.
func (t *Timeline) TotalSamples() int {
	ext, ok := t.Extent()
	if !ok {
		return 0
	}
	spb := t.settings.Snapshot().SamplesPerBeat()
	return int(ext.Position)*spb + ext.Clip.SampleCount()
}

// RecountTotalSamples recounts the native interleaved sample total of every
// clip on the timeline.
func (t *Timeline) RecountTotalSamples() (uint64, error) {
	var params []audio.StreamParams
	t.Each(func(p Placement) bool {
		params = append(params, p.Clip.Params())
		return true
	})
	return Recount(params)
}

// Recount sums frames × channels over params. It is O(n) and meant for
// checking a running total.
func Recount(params []audio.StreamParams) (uint64, error) {
	var total uint64
	for i, p := range params {
		if p.Frames == 0 {
			return 0, fmt.Errorf("%w: stream %d", ErrMissingFrameCount, i)
		}
		if p.Channels <= 0 {
			return 0, fmt.Errorf("%w: stream %d", ErrMissingChannels, i)
		}
		total += p.Frames * uint64(p.Channels)
	}
	return total, nil
}
