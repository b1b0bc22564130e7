// SPDX-License-Identifier: EPL-2.0

package audgrid

import (
	"log/slog"

	"github.com/ik5/audgrid/config"
	"github.com/ik5/audgrid/internal/metrics"
)

type Option func(*Project)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Project) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Engine) Option {
	return func(p *Project) {
		p.metrics = m
	}
}

// WithSettings shares s with the project instead of starting from defaults.
func WithSettings(s *config.Settings) Option {
	return func(p *Project) {
		if s != nil {
			p.settings = s
		}
	}
}
