// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ik5/audgrid/audio"
	"github.com/ik5/audgrid/codec"
	"github.com/ik5/audgrid/timeline"
)

func recountCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recount file...",
		Short: "Count native interleaved samples across audio files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := make([]audio.StreamParams, 0, len(args))
			for _, path := range args {
				s, err := codec.Parse(path)
				if err != nil {
					return err
				}
				if err := s.Decoder.Close(); err != nil {
					a.logger.Debug("closing decoder", "file", path, "error", err)
				}
				params = append(params, s.Params)
			}

			total, err := timeline.Recount(params)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), total)
			return nil
		},
	}
}
