// SPDX-License-Identifier: EPL-2.0

package timeline

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audgrid/audio"
	"github.com/ik5/audgrid/clip"
	"github.com/ik5/audgrid/config"
	"github.com/ik5/audgrid/internal/audiotest"
)

// silence returns a finished clip of the given length in seconds at 48 kHz.
func silence(t *testing.T, name string, seconds float64) *clip.Clip {
	t.Helper()

	c, err := clip.FromSamples(name, make([]float32, int(seconds*48000)*2), 48000)
	require.NoError(t, err)
	return c
}

func newTimeline(t *testing.T) *Timeline {
	t.Helper()

	s := config.NewSettings()
	require.NoError(t, s.SetTempo(60)) // one beat per second
	return New(s)
}

func TestInsert_ReplacesOccupant(t *testing.T) {
	t.Parallel()

	tl := newTimeline(t)

	first, err := clip.NewFromStream("first", "", audiotest.Stream(audiotest.NewSilentSource(8000, 2, 8000)), 48000)
	require.NoError(t, err)
	second := silence(t, "second", 1)

	tl.Insert(1, 5, first)
	tl.Insert(1, 5, second)

	assert.Equal(t, 1, tl.Len())
	got, ok := tl.Get(1, 5)
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.True(t, first.Finished(), "replaced clip must be closed")

	// Same position on another track is independent
	tl.Insert(2, 5, silence(t, "other", 1))
	assert.Equal(t, 2, tl.Len())
	assert.Equal(t, []uint{1, 2}, tl.Tracks())
}

func TestInsert_SameClipTwiceKeepsItOpen(t *testing.T) {
	t.Parallel()

	tl := newTimeline(t)
	c, err := clip.NewFromStream("c", "", audiotest.Stream(audiotest.NewSilentSource(8000, 2, 8000)), 48000)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	tl.Insert(0, 0, c)
	tl.Insert(0, 0, c)
	assert.False(t, c.Finished())
}

func TestExtent(t *testing.T) {
	t.Parallel()

	tl := newTimeline(t)

	_, ok := tl.Extent()
	assert.False(t, ok, "empty timeline has no extent")
	assert.Zero(t, tl.TotalSamples())

	a := silence(t, "a", 4) // ends at 4s
	b := silence(t, "b", 1) // ends at 6s
	c := silence(t, "c", 2) // ends at 5s

	tl.Insert(0, 0, a)
	tl.Insert(1, 5, b)
	tl.Insert(2, 3, c)

	ext, ok := tl.Extent()
	require.True(t, ok)
	assert.Same(t, b, ext.Clip)
	assert.Equal(t, uint(1), ext.Track)
	assert.Equal(t, uint(5), ext.Position)
	assert.InDelta(t, 6.0, ext.End, 1e-9)

	// 60 bpm at 48 kHz: one beat is 96000 interleaved samples
	assert.Equal(t, 5*96000+96000, tl.TotalSamples())

	_, ok = tl.Remove(1, 5)
	require.True(t, ok)

	ext, ok = tl.Extent()
	require.True(t, ok)
	assert.Same(t, c, ext.Clip)

	tl.Remove(2, 3)
	tl.Remove(0, 0)
	_, ok = tl.Extent()
	assert.False(t, ok)
	assert.True(t, tl.IsEmpty())
}

func TestExtent_TieGoesToLaterEntry(t *testing.T) {
	t.Parallel()

	tl := newTimeline(t)
	early := silence(t, "early", 2) // 0 + 2
	late := silence(t, "late", 1)   // 1 + 1

	tl.Insert(0, 0, early)
	tl.Insert(0, 1, late)

	ext, ok := tl.Extent()
	require.True(t, ok)
	assert.Same(t, late, ext.Clip)
}

func TestRecalculate_AfterTempoChange(t *testing.T) {
	t.Parallel()

	tl := newTimeline(t)
	long := silence(t, "long", 3) // 0 + 3
	far := silence(t, "far", 0.5) // 2 beats + 0.5

	tl.Insert(0, 0, long)
	tl.Insert(1, 2, far)

	ext, _ := tl.Extent()
	assert.Same(t, long, ext.Clip, "at 60 bpm the far clip ends at 2.5s")

	require.NoError(t, tl.Settings().SetTempo(30))
	tl.Recalculate()

	ext, _ = tl.Extent()
	assert.Same(t, far, ext.Clip, "at 30 bpm the far clip ends at 4.5s")
}

func TestRemove_Absent(t *testing.T) {
	t.Parallel()

	tl := newTimeline(t)
	c, ok := tl.Remove(9, 9)
	assert.False(t, ok)
	assert.Nil(t, c)
}

func TestMove(t *testing.T) {
	t.Parallel()

	tl := newTimeline(t)
	c, err := clip.NewFromStream("c", "", audiotest.Stream(audiotest.NewSilentSource(8000, 2, 8000)), 48000)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	tl.Insert(1, 0, c)
	require.NoError(t, tl.Move(1, 0, 3, 8))

	_, ok := tl.Get(1, 0)
	assert.False(t, ok)
	got, ok := tl.Get(3, 8)
	require.True(t, ok)
	assert.Same(t, c, got)
	assert.False(t, c.Finished(), "moving keeps the worker running")

	ext, _ := tl.Extent()
	assert.Equal(t, uint(8), ext.Position)

	require.NoError(t, tl.Move(3, 8, 3, 8))
	require.ErrorIs(t, tl.Move(0, 0, 1, 1), ErrNoClip)
	require.ErrorIs(t, tl.Move(0, 0, 0, 0), ErrNoClip)
}

func TestClipsAndEachOrder(t *testing.T) {
	t.Parallel()

	tl := newTimeline(t)
	tl.Insert(2, 9, silence(t, "c", 0.1))
	tl.Insert(0, 4, silence(t, "a", 0.1))
	tl.Insert(0, 1, silence(t, "b", 0.1))

	track0 := tl.Clips(0)
	require.Len(t, track0, 2)
	assert.Equal(t, uint(4), track0[0].Position, "insertion order within a track")
	assert.Equal(t, uint(1), track0[1].Position)
	assert.Empty(t, tl.Clips(7))

	var names []string
	tl.Each(func(p Placement) bool {
		names = append(names, p.Clip.Name())
		return true
	})
	assert.Equal(t, []string{"a", "b", "c"}, names)
	assert.Len(t, tl.Placements(), 3)
}

func TestClear_ClosesClips(t *testing.T) {
	t.Parallel()

	tl := newTimeline(t)
	c, err := clip.NewFromStream("c", "", audiotest.Stream(audiotest.NewSilentSource(8000, 2, 8000)), 48000)
	require.NoError(t, err)

	tl.Insert(0, 0, c)
	tl.Clear()

	assert.True(t, tl.IsEmpty())
	assert.True(t, c.Finished())
	_, ok := tl.Extent()
	assert.False(t, ok)
}

func TestRecount(t *testing.T) {
	t.Parallel()

	total, err := Recount([]audio.StreamParams{
		{SampleRate: 44100, Channels: 2, Frames: 44100},
		{SampleRate: 22050, Channels: 2, Frames: 22050},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(132300), total)

	_, err = Recount([]audio.StreamParams{{Channels: 2}})
	require.ErrorIs(t, err, ErrMissingFrameCount)

	_, err = Recount([]audio.StreamParams{{Frames: 10}})
	require.ErrorIs(t, err, ErrMissingChannels)

	total, err = Recount(nil)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestRecountTotalSamples(t *testing.T) {
	t.Parallel()

	tl := newTimeline(t)
	tl.Insert(0, 0, silence(t, "a", 1))
	tl.Insert(1, 2, silence(t, "b", 0.5))

	total, err := tl.RecountTotalSamples()
	require.NoError(t, err)
	assert.Equal(t, uint64(96000+48000), total)
}

func TestConcurrentTracks(t *testing.T) {
	t.Parallel()

	tl := newTimeline(t)

	var wg sync.WaitGroup
	for track := range uint(4) {
		wg.Go(func() {
			for pos := range uint(20) {
				c, err := clip.FromSamples("x", make([]float32, 96), 48000)
				if !assert.NoError(t, err) {
					return
				}
				tl.Insert(track, pos, c)
			}
			tl.Remove(track, 0)
		})
	}
	wg.Wait()

	assert.Equal(t, 4*19, tl.Len())
	ext, ok := tl.Extent()
	require.True(t, ok)
	assert.Equal(t, uint(19), ext.Position)
}
