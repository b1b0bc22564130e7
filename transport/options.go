// SPDX-License-Identifier: EPL-2.0

package transport

import (
	"log/slog"
	"time"

	"github.com/ik5/audgrid/internal/metrics"
)

type Option func(*Transport)

func WithLogger(logger *slog.Logger) Option {
	return func(t *Transport) {
		if logger != nil {
			t.logger = logger.With("component", "transport")
		}
	}
}

func WithMetrics(m *metrics.Engine) Option {
	return func(t *Transport) {
		t.metrics = m
	}
}

// WithWindow fixes the window size in interleaved samples and the tick
// period. Without it both follow the window seconds in the settings at the
// time Play is called.
func WithWindow(samples int, period time.Duration) Option {
	return func(t *Transport) {
		if samples > 0 && period > 0 {
			t.windowSamples = samples &^ 1
			t.period = period
		}
	}
}
