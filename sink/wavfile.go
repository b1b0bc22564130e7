// SPDX-License-Identifier: EPL-2.0

package sink

import (
	"fmt"
	"os"
	"sync"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/audgrid/utils"
)

const wavBitDepth = 16

// WAVFile streams windows into a 16-bit stereo WAV file. The header is
// finalized by Close.
type WAVFile struct {
	mtx  sync.Mutex
	f    *os.File
	enc  *wav.Encoder
	rate int
	buf  *goaudio.IntBuffer

	written int
	closed  bool
}

// NewWAVFile creates path and prepares it for audio at rate.
func NewWAVFile(path string, rate int) (*WAVFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}

	return &WAVFile{
		f:    f,
		enc:  wav.NewEncoder(f, rate, wavBitDepth, 2, 1),
		rate: rate,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: 2, SampleRate: rate},
			SourceBitDepth: wavBitDepth,
		},
	}, nil
}

func (w *WAVFile) Enqueue(samples []float32, rate int) error {
	w.mtx.Lock()
	defer w.mtx.Unlock()

	if w.closed {
		return ErrClosed
	}
	if rate != w.rate {
		return fmt.Errorf("%w: %d Hz into a %d Hz file", ErrRateMismatch, rate, w.rate)
	}
	if len(samples)%2 != 0 {
		return fmt.Errorf("%w: got %d", ErrOddSampleCount, len(samples))
	}

	data := w.buf.Data[:0]
	for _, s := range samples {
		data = append(data, utils.FloatToPCM(s, wavBitDepth))
	}
	w.buf.Data = data

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("writing wav frames: %w", err)
	}
	w.written += len(samples)
	return nil
}

// Written is the number of interleaved samples written so far.
func (w *WAVFile) Written() int {
	w.mtx.Lock()
	defer w.mtx.Unlock()

	return w.written
}

func (w *WAVFile) Close() error {
	w.mtx.Lock()
	defer w.mtx.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	encErr := w.enc.Close()
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("closing wav file: %w", err)
	}
	if encErr != nil {
		return fmt.Errorf("finalizing wav header: %w", encErr)
	}
	return nil
}
