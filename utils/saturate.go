// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// SatMul multiplies two non-negative ints, returning math.MaxInt on overflow.
func SatMul(a, b int) int {
	if a <= 0 || b <= 0 {
		return 0
	}
	if a > math.MaxInt/b {
		return math.MaxInt
	}

	return a * b
}

// SatAdd adds two non-negative ints, returning math.MaxInt on overflow.
func SatAdd(a, b int) int {
	if a < 0 {
		a = 0
	}
	if b < 0 {
		b = 0
	}
	if a > math.MaxInt-b {
		return math.MaxInt
	}

	return a + b
}

// SatSub returns a-b, or zero when b > a.
func SatSub(a, b int) int {
	if b >= a {
		return 0
	}

	return a - b
}
