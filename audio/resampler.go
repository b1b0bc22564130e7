// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"

	"github.com/ik5/audgrid/utils"
)

// FixedOutResampler converts planar audio between two sample rates using cubic
// (Catmull-Rom) interpolation. Every call to Process produces exactly ChunkSize
// output frames; the number of input frames it wants for that is reported by
// InputFramesNext and changes from call to call.
//
// Input that was handed to Process but is still needed for interpolation is
// kept internally, so callers only ever pass new frames.
//
// A one-pole low-pass filter is applied to the input when downsampling.
type FixedOutResampler struct {
	srcRate  int
	dstRate  int
	step     float64 // source frames per output frame
	chunk    int
	channels int

	// hist[c][0] is the source frame at index base
	hist [][]float32
	base int64

	// pos is the source position of the next output frame
	pos float64

	useFilter   bool
	filterAlpha float32
	filterState []float32
	primed      bool
}

// NewFixedOutResampler builds a resampler from srcRate to dstRate producing
// chunk output frames per Process call.
func NewFixedOutResampler(srcRate, dstRate, chunk, channels int) (*FixedOutResampler, error) {
	if srcRate <= 0 || dstRate <= 0 {
		return nil, ErrInvalidRate
	}
	if chunk <= 0 {
		return nil, ErrInvalidChunkSize
	}
	if channels <= 0 {
		return nil, ErrInvalidChannels
	}

	step := float64(srcRate) / float64(dstRate)

	r := &FixedOutResampler{
		srcRate:     srcRate,
		dstRate:     dstRate,
		step:        step,
		chunk:       chunk,
		channels:    channels,
		hist:        make([][]float32, channels),
		useFilter:   step > 1.0,
		filterState: make([]float32, channels),
	}
	if r.useFilter {
		r.filterAlpha = 0.5
	}

	return r, nil
}

func (r *FixedOutResampler) Ratio() float64 { return float64(r.dstRate) / float64(r.srcRate) }
func (r *FixedOutResampler) ChunkSize() int  { return r.chunk }
func (r *FixedOutResampler) Channels() int   { return r.channels }

// InputFramesNext is the number of new input frames the next Process call
// consumes. It may be zero when upsampling and the kept history is enough.
func (r *FixedOutResampler) InputFramesNext() int {
	last := int64(math.Floor(r.pos+float64(r.chunk-1)*r.step)) + 2
	have := r.base + int64(r.histLen())

	need := last + 1 - have
	if need < 0 {
		return 0
	}

	return int(need)
}

// InputFramesMax is an upper bound of InputFramesNext for any call.
func (r *FixedOutResampler) InputFramesMax() int {
	return int(math.Ceil(float64(r.chunk)*r.step)) + 4
}

// OutputBufferAllocate returns planar buffers sized for one Process call.
func (r *FixedOutResampler) OutputBufferAllocate() [][]float32 {
	out := make([][]float32, r.channels)
	for c := range out {
		out[c] = make([]float32, r.chunk)
	}

	return out
}

// Process consumes exactly InputFramesNext frames from the head of every
// channel of in and writes ChunkSize frames into out.
// It returns the number of input frames consumed and output frames written.
func (r *FixedOutResampler) Process(in, out [][]float32) (int, int, error) {
	if len(in) < r.channels || len(out) < r.channels {
		return 0, 0, ErrChannelMismatch
	}

	need := r.InputFramesNext()
	for c := 0; c < r.channels; c++ {
		if len(in[c]) < need {
			return 0, 0, ErrInputTooShort
		}
		if len(out[c]) < r.chunk {
			return 0, 0, ErrOutputTooShort
		}
	}

	r.push(in, need)

	for j := 0; j < r.chunk; j++ {
		idx := int64(math.Floor(r.pos))
		alpha := float32(r.pos - float64(idx))

		for c := 0; c < r.channels; c++ {
			out[c][j] = utils.CubicInterpolate(
				r.at(c, idx-1),
				r.at(c, idx),
				r.at(c, idx+1),
				r.at(c, idx+2),
				alpha,
			)
		}

		r.pos += r.step
	}

	r.trim()

	return need, r.chunk, nil
}

// Reset drops all history and returns the resampler to its initial state.
func (r *FixedOutResampler) Reset() {
	for c := range r.hist {
		r.hist[c] = r.hist[c][:0]
		r.filterState[c] = 0
	}
	r.base = 0
	r.pos = 0
	r.primed = false
}

func (r *FixedOutResampler) histLen() int {
	if len(r.hist) == 0 {
		return 0
	}
	return len(r.hist[0])
}

func (r *FixedOutResampler) push(in [][]float32, n int) {
	if n == 0 {
		return
	}

	if r.useFilter && !r.primed {
		// Seed the filter with the first frame to avoid a warm-up transient
		for c := 0; c < r.channels; c++ {
			r.filterState[c] = in[c][0]
		}
	}
	r.primed = true

	for c := 0; c < r.channels; c++ {
		src := in[c][:n]
		if !r.useFilter {
			r.hist[c] = append(r.hist[c], src...)
			continue
		}

		// One-pole low-pass: y[n] = alpha * x[n] + (1-alpha) * y[n-1]
		state := r.filterState[c]
		for _, x := range src {
			state = r.filterAlpha*x + (1-r.filterAlpha)*state
			r.hist[c] = append(r.hist[c], state)
		}
		r.filterState[c] = state
	}
}

// at returns the history sample at global index i, clamped to the known range.
func (r *FixedOutResampler) at(c int, i int64) float32 {
	h := r.hist[c]
	if len(h) == 0 {
		return 0
	}

	k := i - r.base
	switch {
	case k < 0:
		k = 0
	case k >= int64(len(h)):
		k = int64(len(h)) - 1
	}

	return h[k]
}

// trim keeps the history from the frame preceding the next output position.
func (r *FixedOutResampler) trim() {
	keep := int64(math.Floor(r.pos)) - 1
	drop := keep - r.base
	if drop <= 0 {
		return
	}

	n := r.histLen()
	if drop > int64(n) {
		drop = int64(n)
	}

	for c := range r.hist {
		rest := copy(r.hist[c], r.hist[c][drop:])
		r.hist[c] = r.hist[c][:rest]
	}
	r.base += drop
}
