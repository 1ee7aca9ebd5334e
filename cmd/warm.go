package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hn-sans-ai/internal/config"
	"hn-sans-ai/internal/model"
	"hn-sans-ai/worker"

	"github.com/spf13/cobra"
)

var warmOnce bool

// warmCmd keeps the cache populated for the configured feeds.
var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Periodically resolve feeds to keep the cache warm",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		p, err := newPipeline(ctx, cfg)
		if err != nil {
			return err
		}
		defer p.Close()

		interval := config.Duration(cfg.Warm.Interval, 10*time.Minute)
		var ws []worker.Worker
		var warmers []*worker.Warmer
		for _, name := range cfg.Warm.Feeds {
			kind, err := model.ParseFeedKind(name)
			if err != nil {
				return err
			}
			w := &worker.Warmer{
				Resolver:   p.fetcher,
				Classifier: p.classifier,
				Feed:       kind,
				Interval:   interval,
				Depth:      cfg.Warm.Depth,
			}
			warmers = append(warmers, w)
			ws = append(ws, w)
		}

		if warmOnce {
			for _, w := range warmers {
				w.RunOnce(ctx)
			}
			return nil
		}

		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigc)
		go func() {
			select {
			case s := <-sigc:
				slog.Info("warm: received signal, shutting down", "signal", s.String())
				cancel()
			case <-ctx.Done():
			}
		}()

		slog.Info("warm: starting", "feeds", cfg.Warm.Feeds, "interval", interval, "depth", cfg.Warm.Depth)
		return worker.NewManager(ws...).Start(ctx)
	},
}

func init() {
	warmCmd.Flags().BoolVar(&warmOnce, "once", false, "warm every feed once and exit")
	rootCmd.AddCommand(warmCmd)
}
