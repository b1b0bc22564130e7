// SPDX-License-Identifier: EPL-2.0

package audio

import "io"

// fakeSource is a fixed-length silent Source with known parameters.
type fakeSource struct {
	params StreamParams
	read   uint64
}

func newFakeSource(sampleRate, channels int, frames uint64) *fakeSource {
	return &fakeSource{
		params: StreamParams{
			SampleRate:   sampleRate,
			Channels:     channels,
			Frames:       frames,
			SampleFormat: SampleFormatF32,
		},
	}
}

func (f *fakeSource) SampleRate() int      { return f.params.SampleRate }
func (f *fakeSource) Channels() int        { return f.params.Channels }
func (f *fakeSource) BufSize() int         { return 4096 }
func (f *fakeSource) Close() error         { return nil }
func (f *fakeSource) Params() StreamParams { return f.params }

func (f *fakeSource) ReadSamples(dst []float32) (int, error) {
	channels := uint64(f.params.Channels)
	left := (f.params.Frames - f.read) * channels
	if left == 0 {
		return 0, io.EOF
	}

	n := min(uint64(len(dst))/channels*channels, left)
	clear(dst[:n])
	f.read += n / channels

	return int(n), nil
}

var _ ParamSource = (*fakeSource)(nil)
