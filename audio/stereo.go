// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"fmt"
	"io"
)

// StereoPair picks the left and right channel out of planar audio.
// Mono audio is used for both sides; more than two channels keep 0 and 1.
func StereoPair(planar [][]float32) (left, right []float32) {
	switch len(planar) {
	case 0:
		return nil, nil
	case 1:
		return planar[0], planar[0]
	default:
		return planar[0], planar[1]
	}
}

// Deinterleave splits interleaved samples into planar buffers, appending to dst.
func Deinterleave(dst [][]float32, src []float32) ([][]float32, error) {
	channels := len(dst)
	if channels == 0 || len(src)%channels != 0 {
		return dst, ErrInvalidDstSize
	}

	frames := len(src) / channels

	// Unroll the two common layouts
	switch channels {
	case 1:
		dst[0] = append(dst[0], src...)
	case 2:
		for i := range frames {
			dst[0] = append(dst[0], src[i*2])
			dst[1] = append(dst[1], src[i*2+1])
		}
	default:
		for i := range frames {
			base := i * channels
			for c := range channels {
				dst[c] = append(dst[c], src[base+c])
			}
		}
	}

	return dst, nil
}

// AppendInterleaved appends the first n frames of left and right to dst as
// L,R pairs.
func AppendInterleaved(dst, left, right []float32, n int) []float32 {
	n = min(n, len(left), len(right))
	for i := range n {
		dst = append(dst, left[i], right[i])
	}

	return dst
}

// ReadSeeker returns r as an io.ReadSeeker, buffering it in memory when it
// cannot seek.
func ReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffering input: %w", err)
	}

	return bytes.NewReader(data), nil
}
