// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/ik5/audgrid"
	"github.com/ik5/audgrid/config"
	"github.com/ik5/audgrid/internal/metrics"
	"github.com/ik5/audgrid/sink"
)

func playCommand(a *app) *cobra.Command {
	var (
		layoutPath  string
		clips       []string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a timeline on the default output device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !sink.AudioAvailable {
				return sink.ErrAudioUnavailable
			}
			ctx := cmd.Context()

			if metricsAddr == "" {
				metricsAddr = a.file.MetricsAddr
			}
			engine, err := serveMetrics(ctx, a, metricsAddr)
			if err != nil {
				return err
			}

			if a.configPath != "" {
				config.Watch(a.v, a.settings, a.logger)
			}

			p := audgrid.New(
				audgrid.WithSettings(a.settings),
				audgrid.WithLogger(a.logger),
				audgrid.WithMetrics(engine))
			defer p.Close()

			if err := arrange(p, layoutPath, clips); err != nil {
				return err
			}

			speaker := sink.NewSpeaker(func() float32 { return a.settings.Snapshot().Gain() })
			defer speaker.Close()

			tr := p.NewTransport(speaker)
			if err := tr.Play(ctx); err != nil {
				return err
			}
			defer tr.Stop()

			waitForEnd(ctx, pollInterval, playback{
				end:      p.Timeline().TotalSamples,
				cursor:   tr.Cursor,
				stop:     tr.Stop,
				buffered: speaker.Buffered,
			})
			return nil
		},
	}

	cmd.Flags().StringVarP(&layoutPath, "layout", "l", "", "Layout file to load")
	cmd.Flags().StringArrayVar(&clips, "clip", nil, "Clip as track:beat:path, repeatable")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")

	return cmd
}

const pollInterval = 100 * time.Millisecond

// playback is what waitForEnd watches.
type playback struct {
	end      func() int
	cursor   func() int
	stop     func()
	buffered func() int
}

// waitForEnd returns once every window up to the end of the timeline has
// been handed to the device, or ctx is canceled. The cursor runs a window
// ahead of what is heard, so the transport is stopped at the end and the
// queued audio is left to drain.
func waitForEnd(ctx context.Context, interval time.Duration, pb playback) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	stopped := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !stopped && pb.cursor() >= pb.end() {
				pb.stop()
				stopped = true
			}
			if stopped && pb.buffered() == 0 {
				return
			}
		}
	}
}

func serveMetrics(ctx context.Context, a *app, addr string) (*metrics.Engine, error) {
	if addr == "" {
		return nil, nil
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	engine, err := metrics.NewEngine(reg)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		ErrorHandling: promhttp.HTTPErrorOnError,
	}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", "addr", addr, "error", err)
		}
	}()
	context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	})

	a.logger.Info("serving metrics", "addr", addr)
	return engine, nil
}
