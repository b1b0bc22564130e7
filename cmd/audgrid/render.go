// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/audgrid"
)

func renderCommand(a *app) *cobra.Command {
	var (
		layoutPath string
		clips      []string
		out        string
		save       string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Mix a timeline into a WAV file",
		Example: `  audgrid render --clip 1:0:kick.wav --clip 2:4:pad.flac --out mix.wav
  audgrid render --layout song.yaml --tempo 128`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := audgrid.New(audgrid.WithSettings(a.settings), audgrid.WithLogger(a.logger))
			defer p.Close()

			if err := arrange(p, layoutPath, clips); err != nil {
				return err
			}
			if save != "" {
				if err := p.SaveLayout(save); err != nil {
					return err
				}
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create output: %w", err)
			}
			defer f.Close()

			began := time.Now()
			n, err := p.RenderWAV(cmd.Context(), f)
			if err != nil {
				return err
			}

			rate := a.settings.SampleRate().Hz()
			a.logger.Info("rendered",
				"out", out,
				"clips", p.Timeline().Len(),
				"seconds", float64(n)/2/float64(rate),
				"took", time.Since(began))
			return f.Close()
		},
	}

	cmd.Flags().StringVarP(&layoutPath, "layout", "l", "", "Layout file to load")
	cmd.Flags().StringArrayVar(&clips, "clip", nil, "Clip as track:beat:path, repeatable")
	cmd.Flags().StringVarP(&out, "out", "o", "mix.wav", "Output WAV path")
	cmd.Flags().StringVar(&save, "save-layout", "", "Also write the arrangement to this layout file")

	return cmd
}
