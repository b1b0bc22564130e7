// SPDX-License-Identifier: EPL-2.0

package clip

import (
	"log/slog"

	"github.com/ik5/audgrid/internal/metrics"
)

// DefaultReadAhead is how many seconds of native audio RequestDefault asks for.
const DefaultReadAhead = 3

// Option configures a Clip at construction.
type Option func(*Clip)

// WithLogger sets the logger used by the clip and its worker.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Clip) {
		if logger != nil {
			c.logger = logger.With("component", "clip")
		}
	}
}

// WithMetrics records worker activity in m.
func WithMetrics(m *metrics.Engine) Option {
	return func(c *Clip) {
		c.metrics = m
	}
}

// WithReadAhead sets the seconds of native audio RequestDefault asks for.
// Values below one are ignored.
func WithReadAhead(seconds int) Option {
	return func(c *Clip) {
		if seconds >= 1 {
			c.readAhead = seconds
		}
	}
}
