// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"
	"strings"

	"github.com/klauspost/cpuid/v2"
)

// Implementation selects how the mixer adds sample lanes.
type Implementation int32

const (
	Scalar Implementation = iota
	SIMD
)

func (i Implementation) String() string {
	switch i {
	case Scalar:
		return "scalar"
	case SIMD:
		return "simd"
	default:
		return fmt.Sprintf("Implementation(%d)", int32(i))
	}
}

func ParseImplementation(s string) (Implementation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scalar":
		return Scalar, nil
	case "simd":
		return SIMD, nil
	case "", "auto":
		return DetectImplementation(), nil
	default:
		return Scalar, fmt.Errorf("%w: %q", ErrInvalidImplementation, s)
	}
}

// DetectImplementation picks SIMD when the CPU has wide float vectors.
func DetectImplementation() Implementation {
	if cpuid.CPU.Supports(cpuid.AVX2) || cpuid.CPU.Supports(cpuid.ASIMD) {
		return SIMD
	}
	return Scalar
}
