// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"github.com/tphakala/simd/f32"

	"github.com/ik5/audgrid/config"
)

// LaneWidth is the number of samples added per step.
const LaneWidth = 32

// addLanes adds src into dst over their common length, one lane at a time.
// The last short lane is zero padded and only its valid prefix written back.
// Both implementations give bit-identical results.
func addLanes(dst, src []float32, impl config.Implementation) {
	n := min(len(dst), len(src))
	full := n - n%LaneWidth

	if impl == config.SIMD {
		var acc [LaneWidth]float32
		for i := 0; i < full; i += LaneWidth {
			copy(acc[:], dst[i:i+LaneWidth])
			f32.Add(dst[i:i+LaneWidth], acc[:], src[i:i+LaneWidth])
		}
	} else {
		for i := 0; i < full; i += LaneWidth {
			d := dst[i : i+LaneWidth : i+LaneWidth]
			s := src[i : i+LaneWidth : i+LaneWidth]
			for j := range d {
				d[j] += s[j]
			}
		}
	}

	if full == n {
		return
	}

	var a, b [LaneWidth]float32
	valid := copy(a[:], dst[full:n])
	copy(b[:], src[full:n])

	if impl == config.SIMD {
		var sum [LaneWidth]float32
		f32.Add(sum[:], a[:], b[:])
		a = sum
	} else {
		for j := range a {
			a[j] += b[j]
		}
	}

	copy(dst[full:n], a[:valid])
}
