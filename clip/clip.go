// SPDX-License-Identifier: EPL-2.0

package clip

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/ik5/audgrid/audio"
	"github.com/ik5/audgrid/buffer"
	"github.com/ik5/audgrid/codec"
	"github.com/ik5/audgrid/internal/metrics"
)

// ChunkFrames is the fixed number of frames the resampler emits per call.
const ChunkFrames = 1024

// requestQueue is how many requests may wait for the worker before new
// ones are dropped.
const requestQueue = 8

// Request asks a clip worker for more resampled audio.
//
// Samples is the desired interleaved output at the native rate and decides
// how many packets are decoded. Destination, when set, is an absolute count
// of produced interleaved samples the worker keeps decoding towards.
type Request struct {
	Destination *int
	Samples     int
}

// Clip is one audio file placed on the timeline, resampled to the project
// rate by its own worker goroutine.
type Clip struct {
	id          uuid.UUID
	name        string
	path        string
	params      audio.StreamParams
	duration    float64
	projectRate int

	samples *buffer.Shared

	requests  chan Request
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	readAhead int
	logger    *slog.Logger
	metrics   *metrics.Engine
}

// New parses path and starts resampling it to projectRate.
func New(name, path string, projectRate int, opts ...Option) (*Clip, error) {
	if projectRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRate, projectRate)
	}

	stream, err := codec.Parse(path)
	if err != nil {
		return nil, err
	}

	return NewFromStream(name, path, stream, projectRate, opts...)
}

// NewFromStream starts a worker over an already parsed stream. The clip takes
// ownership of the stream's decoder.
func NewFromStream(name, path string, stream *codec.Stream, projectRate int, opts ...Option) (*Clip, error) {
	if projectRate <= 0 {
		stream.Decoder.Close()
		return nil, fmt.Errorf("%w: %d", ErrInvalidRate, projectRate)
	}

	rs, err := audio.NewFixedOutResampler(stream.Params.SampleRate, projectRate, ChunkFrames, 2)
	if err != nil {
		stream.Decoder.Close()
		return nil, fmt.Errorf("creating resampler for %s: %w", name, err)
	}

	c := newClip(name, path, stream.Params, stream.Duration, projectRate, opts...)
	c.samples = buffer.New(0)
	c.requests = make(chan Request, requestQueue)

	w := &worker{
		backlog:  append([]codec.Packet(nil), stream.Packets...),
		dec:      stream.Decoder,
		rs:       rs,
		out:      rs.OutputBufferAllocate(),
		samples:  c.samples,
		expected: c.SampleCount(),
		logger:   c.logger.With("clip", name),
		metrics:  c.metrics,
	}

	c.metrics.WorkerStarted()
	go w.run(c.requests, c.quit, c.done)

	c.logger.Debug("clip worker started",
		"clip", name,
		"native_rate", stream.Params.SampleRate,
		"project_rate", projectRate,
		"packets", len(stream.Packets))

	return c, nil
}

// FromSamples builds a clip whose interleaved stereo samples are already at
// projectRate. It has no worker: requests report ErrResamplingUnavailable.
func FromSamples(name string, samples []float32, projectRate int, opts ...Option) (*Clip, error) {
	if projectRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRate, projectRate)
	}
	if len(samples)%2 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrOddSampleCount, len(samples))
	}

	params := audio.StreamParams{
		SampleRate:    projectRate,
		Channels:      2,
		Frames:        uint64(len(samples) / 2),
		SampleFormat:  audio.SampleFormatF32,
		BitsPerSample: 32,
	}

	c := newClip(name, "", params, params.Duration(), projectRate, opts...)
	c.samples = buffer.FromSlice(samples)
	close(c.done)

	return c, nil
}

func newClip(name, path string, params audio.StreamParams, duration float64, projectRate int, opts ...Option) *Clip {
	c := &Clip{
		id:          uuid.New(),
		name:        name,
		path:        path,
		params:      params,
		duration:    duration,
		projectRate: projectRate,
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
		readAhead:   DefaultReadAhead,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Clip) ID() uuid.UUID              { return c.id }
func (c *Clip) Name() string               { return c.name }
func (c *Clip) Path() string               { return c.path }
func (c *Clip) Params() audio.StreamParams { return c.params }
func (c *Clip) ProjectRate() int           { return c.projectRate }

// Duration is the source length in seconds.
func (c *Clip) Duration() float64 { return c.duration }

// Samples is the buffer the worker appends resampled audio to.
func (c *Clip) Samples() *buffer.Shared { return c.samples }

// SampleCount is the interleaved stereo length of the clip once fully
// resampled to the project rate.
func (c *Clip) SampleCount() int {
	return ExpectedSamples(c.params, c.projectRate)
}

// ExpectedSamples is the interleaved stereo length of a stream with params
// once resampled to projectRate.
func ExpectedSamples(params audio.StreamParams, projectRate int) int {
	native := uint64(params.SampleRate)
	if native == 0 || projectRate <= 0 {
		return 0
	}
	frames := (params.Frames*uint64(projectRate) + native - 1) / native
	return int(frames) * 2
}

// Done is closed once the worker has stopped producing samples.
func (c *Clip) Done() <-chan struct{} { return c.done }

// Finished reports whether the worker has stopped.
func (c *Clip) Finished() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Request asks for n more interleaved samples worth of source audio.
func (c *Clip) Request(n int) error {
	return c.send(Request{Samples: n})
}

// RequestDefault asks for the read-ahead window at the native rate.
func (c *Clip) RequestDefault() error {
	return c.Request(c.params.SampleRate * c.readAhead * 2)
}

// RequestUntil asks the worker to keep going until it has produced dest
// interleaved samples or runs out of audio.
func (c *Clip) RequestUntil(dest int) error {
	return c.send(Request{Destination: &dest, Samples: c.params.SampleRate * c.readAhead * 2})
}

// send never blocks. A full queue drops the request since the worker is
// already behind.
func (c *Clip) send(req Request) error {
	select {
	case <-c.done:
		return ErrResamplingUnavailable
	default:
	}

	select {
	case c.requests <- req:
	case <-c.done:
		return ErrResamplingUnavailable
	default:
		c.logger.Debug("request queue full, dropping request", "clip", c.name)
	}
	return nil
}

// Fill blocks until the whole clip has been resampled or ctx ends.
func (c *Clip) Fill(ctx context.Context) error {
	dest := c.SampleCount()
	req := Request{Destination: &dest, Samples: c.params.SampleRate * c.readAhead * 2}

	select {
	case c.requests <- req:
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the worker and waits for it to release the decoder.
// Samples produced so far stay readable.
func (c *Clip) Close() error {
	c.closeOnce.Do(func() {
		close(c.quit)
	})
	<-c.done
	return nil
}
