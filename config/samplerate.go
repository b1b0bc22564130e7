// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"
	"slices"
	"strconv"
)

// SampleRate is one of the project rates the engine supports.
type SampleRate int

const (
	Rate32000  SampleRate = 32000
	Rate41000  SampleRate = 41000
	Rate48000  SampleRate = 48000
	Rate96000  SampleRate = 96000
	Rate192000 SampleRate = 192000

	DefaultSampleRate = Rate48000
)

var sampleRates = []SampleRate{Rate32000, Rate41000, Rate48000, Rate96000, Rate192000}

// SampleRates lists the supported rates in ascending order.
func SampleRates() []SampleRate {
	return slices.Clone(sampleRates)
}

// ParseSampleRate validates hz against the supported rates.
func ParseSampleRate(hz int) (SampleRate, error) {
	r := SampleRate(hz)
	if !slices.Contains(sampleRates, r) {
		return 0, fmt.Errorf("%w: %d Hz", ErrInvalidSampleRate, hz)
	}
	return r, nil
}

func (r SampleRate) Hz() int { return int(r) }

func (r SampleRate) String() string {
	return strconv.Itoa(int(r)) + " Hz"
}
