// SPDX-License-Identifier: EPL-2.0

package transport

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audgrid/clip"
	"github.com/ik5/audgrid/config"
	"github.com/ik5/audgrid/internal/metrics"
	"github.com/ik5/audgrid/mixer"
	"github.com/ik5/audgrid/sink"
	"github.com/ik5/audgrid/timeline"
)

type span struct{ start, end int }

// recorder mixes windows whose samples are their own offsets.
type recorder struct {
	mtx   sync.Mutex
	spans []span
}

func (r *recorder) MixWindow(start, end int) []float32 {
	r.mtx.Lock()
	r.spans = append(r.spans, span{start, end})
	r.mtx.Unlock()

	out := make([]float32, end-start)
	for i := range out {
		out[i] = float32(start + i)
	}
	return out
}

func (r *recorder) Spans() []span {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return append([]span(nil), r.spans...)
}

type failingSink struct{}

func (failingSink) Enqueue([]float32, int) error { return errors.New("device gone") }

const (
	wait = 5 * time.Second
	tick = time.Millisecond
)

func TestPlay_InitialWindowAndContiguousCursor(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	mem := sink.NewMemory()
	tr := New(rec, mem, config.NewSettings(), WithWindow(4, 5*time.Millisecond))

	require.NoError(t, tr.Play(t.Context()))
	assert.Equal(t, Playing, tr.State())

	require.Eventually(t, func() bool { return mem.Windows() >= 3 }, wait, tick)
	tr.Stop()

	spans := rec.Spans()
	require.GreaterOrEqual(t, len(spans), 3)
	for i, s := range spans {
		assert.Equal(t, span{i * 4, i*4 + 4}, s, "window %d", i)
	}

	got := mem.Samples()
	for i, v := range got {
		require.Equal(t, float32(i), v)
	}
	assert.Equal(t, 48000, mem.Rate())
}

func TestPlay_Twice(t *testing.T) {
	t.Parallel()

	tr := New(&recorder{}, sink.NewMemory(), config.NewSettings(), WithWindow(2, time.Hour))
	require.NoError(t, tr.Play(t.Context()))
	defer tr.Stop()

	require.ErrorIs(t, tr.Play(t.Context()), ErrAlreadyPlaying)
}

func TestStop_ResetsState(t *testing.T) {
	t.Parallel()

	mem := sink.NewMemory()
	tr := New(&recorder{}, mem, config.NewSettings(), WithWindow(2, time.Hour))

	tr.Stop() // idle stop is a no-op

	require.NoError(t, tr.Play(t.Context()))
	require.Eventually(t, func() bool { return mem.Windows() == 1 }, wait, tick)

	tr.Stop()
	assert.Equal(t, Idle, tr.State())
	assert.Zero(t, tr.Cursor())
	assert.Zero(t, tr.Elapsed())
	require.ErrorIs(t, tr.Pause(), ErrNotPlaying)

	require.NoError(t, tr.Play(t.Context()), "a stopped transport can play again")
	tr.Stop()
}

func TestPause_HaltsWindows(t *testing.T) {
	t.Parallel()

	mem := sink.NewMemory()
	tr := New(&recorder{}, mem, config.NewSettings(), WithWindow(2, 2*time.Millisecond))
	require.NoError(t, tr.Play(t.Context()))
	defer tr.Stop()

	require.Eventually(t, func() bool { return mem.Windows() >= 2 }, wait, tick)

	require.NoError(t, tr.TogglePause())
	assert.Equal(t, Paused, tr.State())

	paused := mem.Windows()
	cursor := tr.Cursor()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, paused, mem.Windows())
	assert.Equal(t, cursor, tr.Cursor())

	require.NoError(t, tr.TogglePause())
	assert.Equal(t, Playing, tr.State())
	require.Eventually(t, func() bool { return mem.Windows() > paused }, wait, tick)
}

func TestSeek_RedirectsNextWindow(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	tr := New(rec, sink.NewMemory(), config.NewSettings(), WithWindow(4, 2*time.Millisecond))

	tr.Seek(101)
	assert.Equal(t, 100, tr.Cursor())
	tr.Seek(-5)
	assert.Zero(t, tr.Cursor())

	tr.Seek(1000)
	require.NoError(t, tr.Play(t.Context()))
	defer tr.Stop()

	require.Eventually(t, func() bool { return len(rec.Spans()) >= 1 }, wait, tick)
	assert.Equal(t, span{1000, 1004}, rec.Spans()[0])

	require.NoError(t, tr.Pause())
	tr.Seek(50)
	require.NoError(t, tr.Unpause())

	require.Eventually(t, func() bool {
		spans := rec.Spans()
		return spans[len(spans)-1].start < 1000
	}, wait, tick)

	spans := rec.Spans()
	for _, s := range spans {
		if s.start < 1000 {
			assert.Equal(t, span{50, 54}, s)
			break
		}
	}
}

func TestElapsed_ExcludesPauses(t *testing.T) {
	t.Parallel()

	tr := New(&recorder{}, sink.NewMemory(), config.NewSettings(), WithWindow(2, time.Hour))
	assert.Zero(t, tr.Elapsed())

	require.NoError(t, tr.Play(t.Context()))
	defer tr.Stop()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, tr.Pause())

	frozen := tr.Elapsed()
	assert.GreaterOrEqual(t, frozen, 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	assert.InDelta(t, float64(frozen), float64(tr.Elapsed()), float64(time.Millisecond))
}

func TestPlay_ContextCancelStops(t *testing.T) {
	t.Parallel()

	tr := New(&recorder{}, sink.NewMemory(), config.NewSettings(), WithWindow(2, time.Millisecond))

	ctx, cancel := context.WithCancel(t.Context())
	require.NoError(t, tr.Play(ctx))
	cancel()

	require.Eventually(t, func() bool { return tr.State() == Idle }, wait, tick)
	require.ErrorIs(t, tr.TogglePause(), ErrNotPlaying)

	require.NoError(t, tr.Play(t.Context()))
	tr.Stop()
}

func TestPlay_SinkErrorsAreCounted(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	engine, err := metrics.NewEngine(reg)
	require.NoError(t, err)

	rec := &recorder{}
	tr := New(rec, failingSink{}, config.NewSettings(),
		WithWindow(2, time.Millisecond),
		WithMetrics(engine))

	require.NoError(t, tr.Play(t.Context()))
	require.Eventually(t, func() bool { return len(rec.Spans()) >= 3 }, wait, tick)
	tr.Stop()

	assert.Equal(t, Idle, tr.State(), "sink errors do not stop playback")
	assert.Equal(t, 1, testutil.CollectAndCount(engine, "audgrid_transport_windows_total"))
}

func TestPlay_DefaultWindowFromSettings(t *testing.T) {
	t.Parallel()

	s := config.NewSettings()
	rec := &recorder{}
	tr := New(rec, sink.NewMemory(), s)

	require.NoError(t, tr.Play(t.Context()))
	require.Eventually(t, func() bool { return len(rec.Spans()) == 1 }, wait, tick)
	tr.Stop()

	assert.Equal(t, span{0, s.Snapshot().WindowSamples()}, rec.Spans()[0])
}

func TestPlay_MixedTimeline(t *testing.T) {
	t.Parallel()

	s := config.NewSettings()
	tl := timeline.New(s)

	samples := make([]float32, 4800)
	for i := range samples {
		samples[i] = float32(i%96) / 96
	}
	c, err := clip.FromSamples("a", samples, 48000)
	require.NoError(t, err)
	tl.Insert(0, 0, c)

	m := mixer.New(tl)
	mem := sink.NewMemory()
	tr := New(m, mem, s, WithWindow(960, time.Millisecond))

	require.NoError(t, tr.Play(t.Context()))
	require.Eventually(t, func() bool { return mem.Windows() >= 6 }, wait, tick)
	tr.Stop()

	got := mem.Samples()
	require.GreaterOrEqual(t, len(got), 5760)
	assert.Equal(t, samples, got[:4800])
	for _, v := range got[4800:] {
		require.Zero(t, v)
	}
}

func TestPlay_RejectsEmptyWindow(t *testing.T) {
	t.Parallel()

	// Zero-value settings have no window length
	tr := New(&recorder{}, sink.NewMemory(), &config.Settings{})
	require.ErrorIs(t, tr.Play(t.Context()), ErrInvalidWindow)
	assert.Equal(t, Idle, tr.State())
	tr.Stop()
}

func TestPlay_KeepsRateWhenSettingsChange(t *testing.T) {
	t.Parallel()

	s := config.NewSettings()
	mem := sink.NewMemory()
	tr := New(&recorder{}, mem, s, WithWindow(2, time.Millisecond))

	require.NoError(t, tr.Play(t.Context()))
	defer tr.Stop()
	require.Eventually(t, func() bool { return mem.Windows() >= 1 }, wait, tick)

	require.NoError(t, s.SetSampleRate(96000))
	after := mem.Windows()

	// Memory rejects a second rate, so growth means windows kept the first one
	require.Eventually(t, func() bool { return mem.Windows() > after+2 }, wait, tick)
	assert.Equal(t, 48000, mem.Rate())
}

func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "playing", Playing.String())
	assert.Equal(t, "paused", Paused.String())
	assert.Equal(t, "State(7)", State(7).String())
}
