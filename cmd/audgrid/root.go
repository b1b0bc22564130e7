// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ik5/audgrid/config"
)

// app is shared by every subcommand.
type app struct {
	v          *viper.Viper
	settings   *config.Settings
	file       config.FileConfig
	logger     *slog.Logger
	configPath string
	debug      bool
}

func newRootCommand() *cobra.Command {
	a := &app{
		v:        config.NewViper(),
		settings: config.NewSettings(),
	}

	root := &cobra.Command{
		Use:           "audgrid",
		Short:         "Multi-track audio timeline engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initialize()
		},
	}

	if err := a.setupFlags(root); err != nil {
		panic(err)
	}

	root.AddCommand(
		renderCommand(a),
		playCommand(a),
		probeCommand(a),
		recountCommand(a),
	)
	return root
}

func (a *app) setupFlags(root *cobra.Command) error {
	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Path to a YAML config file")
	flags.BoolVarP(&a.debug, "debug", "d", false, "Enable debug output")
	flags.Int("sample-rate", int(config.DefaultSampleRate), "Project sample rate in Hz")
	flags.Int("tempo", config.DefaultTempo, "Tempo in beats per minute")
	flags.Int("volume", config.DefaultVolume, "Master volume percent")
	flags.String("implementation", "auto", "Mixing implementation: auto, scalar, simd")

	binds := map[string]string{
		"sample_rate":    "sample-rate",
		"tempo":          "tempo",
		"volume":         "volume",
		"implementation": "implementation",
	}
	for key, flag := range binds {
		if err := a.v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("error binding flag %s: %w", flag, err)
		}
	}
	return nil
}

// initialize loads the config file, applies flags over it and sets up
// logging.
func (a *app) initialize() error {
	level := slog.LevelInfo
	if a.debug {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	fc, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	if err := fc.Apply(a.settings); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.file = fc

	a.logger.Debug("configuration loaded",
		"file", a.configPath,
		"sample_rate", a.settings.SampleRate().String(),
		"tempo", a.settings.Tempo(),
		"implementation", a.settings.Implementation().String())
	return nil
}
