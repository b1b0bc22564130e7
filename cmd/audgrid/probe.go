// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/audgrid/clip"
	"github.com/ik5/audgrid/codec"
)

func probeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "probe file...",
		Short: "Show stream parameters of audio files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache := codec.NewProbeCache(nil, time.Minute)
			rate := a.settings.SampleRate().Hz()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FILE\tFORMAT\tRATE\tCHANNELS\tFRAMES\tSECONDS\tPROJECT SAMPLES")

			var failed int
			for _, path := range args {
				p, err := cache.Probe(path)
				if err != nil {
					a.logger.Warn("cannot probe", "file", path, "error", err)
					failed++
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%.3f\t%d\n",
					path,
					p.Format,
					p.Params.SampleRate,
					p.Params.Channels,
					p.Params.Frames,
					p.Duration,
					clip.ExpectedSamples(p.Params, rate))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be probed", failed, len(args))
			}
			return nil
		},
	}
}
