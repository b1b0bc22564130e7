// SPDX-License-Identifier: EPL-2.0

package audgrid

import (
	"context"
	"fmt"
	"io"

	"github.com/ik5/audgrid/formats/wav"
)

// RenderWAV resamples every clip to the end, mixes the timeline and writes
// it as 16-bit stereo PCM at the project rate. It returns the number of
// interleaved samples written.
func (p *Project) RenderWAV(ctx context.Context, w io.Writer) (int, error) {
	if err := p.Fill(ctx); err != nil {
		return 0, err
	}

	mix, err := p.mixer.MixAll()
	if err != nil {
		return 0, fmt.Errorf("rendering: %w", err)
	}

	if err := wav.WriteWAV16(w, p.settings.SampleRate().Hz(), 2, PCM16(mix)); err != nil {
		return 0, fmt.Errorf("writing wav: %w", err)
	}
	return len(mix), nil
}

// PCM16 converts float samples to 16-bit PCM. Summed clips can exceed
// [-1, 1]; those samples saturate.
func PCM16(samples []float32) []int16 {
	const maxInt16 float32 = 32767.0

	pcm := make([]int16, len(samples))
	for i, x := range samples {
		if x > 1 {
			x = 1
		} else if x < -1 {
			x = -1
		}
		pcm[i] = int16(x * maxInt16)
	}
	return pcm
}
