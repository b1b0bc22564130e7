// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. AUDGRID_TEMPO.
const EnvPrefix = "AUDGRID"

// FileConfig mirrors the keys of a project config file.
type FileConfig struct {
	SampleRate       int    `mapstructure:"sample_rate"`
	Tempo            int    `mapstructure:"tempo"`
	Volume           int    `mapstructure:"volume"`
	Implementation   string `mapstructure:"implementation"`
	WindowSeconds    int    `mapstructure:"window_seconds"`
	ReadAheadSeconds int    `mapstructure:"read_ahead_seconds"`
	MetricsAddr      string `mapstructure:"metrics_addr"`
}

// NewViper returns a viper instance with defaults and environment overrides
// set up.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("sample_rate", int(DefaultSampleRate))
	v.SetDefault("tempo", DefaultTempo)
	v.SetDefault("volume", DefaultVolume)
	v.SetDefault("implementation", "auto")
	v.SetDefault("window_seconds", DefaultWindowSeconds)
	v.SetDefault("read_ahead_seconds", DefaultReadAheadSeconds)
	v.SetDefault("metrics_addr", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads path into v, or only defaults and environment when path is
// empty, and decodes the result.
func Load(v *viper.Viper, path string) (FileConfig, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return FileConfig{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var fc FileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return fc, nil
}

// Apply validates every field and stores the valid ones in s. All invalid
// fields are reported together.
func (fc FileConfig) Apply(s *Settings) error {
	var errs []error

	if err := s.SetSampleRate(fc.SampleRate); err != nil {
		errs = append(errs, err)
	}
	if err := s.SetTempo(fc.Tempo); err != nil {
		errs = append(errs, err)
	}
	if err := s.SetVolume(fc.Volume); err != nil {
		errs = append(errs, err)
	}
	if impl, err := ParseImplementation(fc.Implementation); err != nil {
		errs = append(errs, err)
	} else if err := s.SetImplementation(impl); err != nil {
		errs = append(errs, err)
	}
	if err := s.SetWindowSeconds(fc.WindowSeconds); err != nil {
		errs = append(errs, err)
	}
	if err := s.SetReadAheadSeconds(fc.ReadAheadSeconds); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Watch re-applies the config file to s whenever it changes on disk.
// Invalid fields are logged and keep their previous values.
func Watch(v *viper.Viper, s *Settings, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "config")

	v.OnConfigChange(func(e fsnotify.Event) {
		if err := reload(v, s); err != nil {
			logger.Warn("ignoring invalid config change", "file", e.Name, "error", err)
			return
		}
		logger.Info("config reloaded", "file", e.Name, "op", e.Op.String())
	})
	v.WatchConfig()
}

func reload(v *viper.Viper, s *Settings) error {
	var fc FileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return fc.Apply(s)
}
