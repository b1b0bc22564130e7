// SPDX-License-Identifier: EPL-2.0

// Package transport plays a timeline by mixing fixed-size windows on a timer
// and handing them to a sink.
package transport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ik5/audgrid/config"
	"github.com/ik5/audgrid/internal/metrics"
)

type State int32

const (
	Idle State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// WindowMixer produces the mix of the interleaved sample range [start, end).
type WindowMixer interface {
	MixWindow(start, end int) []float32
}

// Sink receives mixed windows in playback order.
type Sink interface {
	Enqueue(samples []float32, rate int) error
}

type command int

const (
	cmdPause command = iota
	cmdUnpause
	cmdStop
)

// Transport drives playback. All methods are safe for concurrent use.
type Transport struct {
	mixer    WindowMixer
	sink     Sink
	settings *config.Settings

	cursor atomic.Int64
	state  atomic.Int32

	// lifecycle of the playback goroutine
	mtx      sync.Mutex
	commands chan command
	done     chan struct{}
	cancel   context.CancelFunc

	clockMtx    sync.Mutex
	startedAt   time.Time
	pausedAt    time.Time
	pausedTotal time.Duration

	windowSamples int
	period        time.Duration

	logger  *slog.Logger
	metrics *metrics.Engine
}

func New(mixer WindowMixer, sink Sink, settings *config.Settings, opts ...Option) *Transport {
	t := &Transport{
		mixer:    mixer,
		sink:     sink,
		settings: settings,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Transport) State() State { return State(t.state.Load()) }

// Cursor is the interleaved sample offset of the next window.
func (t *Transport) Cursor() int { return int(t.cursor.Load()) }

// Seek moves the cursor in any state. Negative offsets clamp to 0 and odd
// offsets round down to a frame boundary.
func (t *Transport) Seek(sample int) {
	t.cursor.Store(int64(max(sample, 0) &^ 1))
}

// Play starts the playback loop from the current cursor. The loop ends on
// Stop or when ctx is done.
func (t *Transport) Play(ctx context.Context) error {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	if t.State() != Idle {
		return ErrAlreadyPlaying
	}

	snap := t.settings.Snapshot()
	window, period := t.windowSamples, t.period
	if window == 0 {
		window = snap.WindowSamples()
		period = time.Duration(snap.WindowSeconds) * time.Second
	}
	if window <= 0 || period <= 0 {
		return fmt.Errorf("%w: %d samples every %s", ErrInvalidWindow, window, period)
	}
	rate := snap.SampleRate

	if t.cancel != nil {
		// the previous loop ended on its own context
		t.cancel()
	}

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.commands = make(chan command)
	t.done = make(chan struct{})

	t.clockMtx.Lock()
	t.startedAt = time.Now()
	t.pausedTotal = 0
	t.clockMtx.Unlock()

	t.state.Store(int32(Playing))
	t.logger.Debug("playback started",
		"cursor", t.Cursor(),
		"window", window,
		"period", period,
		"rate", rate)

	go t.loop(ctx, t.commands, t.done, window, period, rate)
	return nil
}

// loop keeps the window size and sample rate chosen at Play.
func (t *Transport) loop(ctx context.Context, commands <-chan command, done chan<- struct{}, window int, period time.Duration, rate int) {
	defer close(done)
	defer t.state.Store(int32(Idle))

	t.produce(window, rate)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Debug("playback canceled", "cursor", t.Cursor())
			return
		case cmd := <-commands:
			if cmd == cmdStop {
				return
			}
			t.apply(cmd)
		case <-ticker.C:
			if t.State() == Playing {
				t.produce(window, rate)
			}
		}
	}
}

func (t *Transport) apply(cmd command) {
	t.clockMtx.Lock()
	defer t.clockMtx.Unlock()

	switch {
	case cmd == cmdPause && t.State() == Playing:
		t.pausedAt = time.Now()
		t.state.Store(int32(Paused))
	case cmd == cmdUnpause && t.State() == Paused:
		t.pausedTotal += time.Since(t.pausedAt)
		t.state.Store(int32(Playing))
	}
}

func (t *Transport) produce(window, rate int) {
	end := t.cursor.Add(int64(window))
	start := end - int64(window)

	samples := t.mixer.MixWindow(int(start), int(end))
	err := t.sink.Enqueue(samples, rate)
	t.metrics.RecordWindow(err)
	if err != nil {
		t.logger.Warn("sink rejected window",
			"start", start,
			"end", end,
			"error", err)
	}
}

// send delivers cmd to the running loop. It returns ErrNotPlaying when no
// loop is running.
func (t *Transport) send(cmd command) error {
	t.mtx.Lock()
	commands, done := t.commands, t.done
	t.mtx.Unlock()

	if done == nil {
		return ErrNotPlaying
	}

	select {
	case commands <- cmd:
		return nil
	case <-done:
		return ErrNotPlaying
	}
}

func (t *Transport) Pause() error   { return t.send(cmdPause) }
func (t *Transport) Unpause() error { return t.send(cmdUnpause) }

func (t *Transport) TogglePause() error {
	switch t.State() {
	case Playing:
		return t.Pause()
	case Paused:
		return t.Unpause()
	default:
		return ErrNotPlaying
	}
}

// Stop ends playback, waits for the loop to exit and rewinds the cursor.
// Stopping an idle transport is a no-op.
func (t *Transport) Stop() {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	if t.done == nil {
		return
	}

	select {
	case t.commands <- cmdStop:
	case <-t.done:
	}
	<-t.done
	t.cancel()

	t.commands, t.done, t.cancel = nil, nil, nil
	t.cursor.Store(0)

	t.clockMtx.Lock()
	t.startedAt = time.Time{}
	t.pausedTotal = 0
	t.clockMtx.Unlock()

	t.logger.Debug("playback stopped")
}

// Elapsed is the wall-clock time spent playing, excluding pauses. It can
// drift from the cursor position.
func (t *Transport) Elapsed() time.Duration {
	t.clockMtx.Lock()
	defer t.clockMtx.Unlock()

	if t.startedAt.IsZero() {
		return 0
	}

	elapsed := time.Since(t.startedAt) - t.pausedTotal
	if t.State() == Paused {
		elapsed -= time.Since(t.pausedAt)
	}
	return elapsed
}
