// SPDX-License-Identifier: EPL-2.0

package sink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/gopxl/beep/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ beep.Streamer = (*queue)(nil)

func TestMemory_CollectsWindows(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	require.NoError(t, m.Enqueue([]float32{1, 2}, 48000))
	require.NoError(t, m.Enqueue([]float32{3, 4, 5, 6}, 48000))

	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, m.Samples())
	assert.Equal(t, 2, m.Windows())
	assert.Equal(t, 48000, m.Rate())

	require.ErrorIs(t, m.Enqueue([]float32{0, 0}, 44100), ErrRateMismatch)

	require.NoError(t, m.Close())
	require.ErrorIs(t, m.Enqueue([]float32{0, 0}, 48000), ErrClosed)
}

func TestWAVFile_WritesPlayableFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.wav")
	w, err := NewWAVFile(path, 48000)
	require.NoError(t, err)

	window := make([]float32, 960)
	for i := range window {
		window[i] = 0.5
	}
	require.NoError(t, w.Enqueue(window, 48000))
	require.NoError(t, w.Enqueue(window, 48000))
	assert.Equal(t, 1920, w.Written())

	require.ErrorIs(t, w.Enqueue(window, 44100), ErrRateMismatch)
	require.ErrorIs(t, w.Enqueue([]float32{1}, 48000), ErrOddSampleCount)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	require.ErrorIs(t, w.Enqueue(window, 48000), ErrClosed)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())

	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	assert.Equal(t, 48000, buf.Format.SampleRate)
	assert.Equal(t, 2, buf.Format.NumChannels)
	require.Len(t, buf.Data, 1920)
	assert.InDelta(t, 16383, buf.Data[0], 1)
}

func TestQueue_StreamsPendingThenSilence(t *testing.T) {
	t.Parallel()

	q := newQueue(func() float32 { return 0.5 })
	q.push([]float32{1, -1, 0.5, -0.5})

	out := make([][2]float64, 4)
	n, ok := q.Stream(out)
	assert.True(t, ok)
	assert.Equal(t, 4, n)
	assert.Equal(t, [][2]float64{{0.5, -0.5}, {0.25, -0.25}, {0, 0}, {0, 0}}, out)
	assert.Zero(t, q.Buffered())
	require.NoError(t, q.Err())
}

func TestQueue_PartialRead(t *testing.T) {
	t.Parallel()

	q := newQueue(nil)
	q.push([]float32{1, 1, 2, 2, 3, 3})

	out := make([][2]float64, 2)
	q.Stream(out)
	assert.Equal(t, [][2]float64{{1, 1}, {2, 2}}, out)
	assert.Equal(t, 2, q.Buffered())

	q.Stream(out)
	assert.Equal(t, [][2]float64{{3, 3}, {0, 0}}, out)
}

func TestSpeaker_StubWithoutAudio(t *testing.T) {
	if AudioAvailable {
		t.Skip("needs a build without audio output")
	}
	t.Parallel()

	s := NewSpeaker(nil)
	require.ErrorIs(t, s.Enqueue([]float32{0, 0}, 48000), ErrAudioUnavailable)
	require.NoError(t, s.Close())
}
