package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hn-sans-ai/internal/cache"
	"hn-sans-ai/internal/model"
	"hn-sans-ai/internal/storage"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the persistent cache",
}

// cachePingCmd checks that the configured backend answers.
var cachePingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the persistent cache backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		store := openStore(ctx, cfg)
		if store == nil {
			return fmt.Errorf("cache backend %q is not available", cfg.Cache.Backend)
		}
		defer store.Close()

		if p, ok := store.(storage.Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: PONG\n", cfg.Cache.Backend)
		return nil
	},
}

// cacheStatsCmd reports which feeds and items of their first window are held
// in the persistent tier.
var cacheStatsCmd = &cobra.Command{
	Use:   "stats [feed...]",
	Short: "Show persistent cache coverage per feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		kinds := model.FeedKinds()
		if len(args) > 0 {
			kinds = kinds[:0:0]
			for _, a := range args {
				k, err := model.ParseFeedKind(a)
				if err != nil {
					return err
				}
				kinds = append(kinds, k)
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		store := openStore(ctx, cfg)
		if store == nil {
			return errors.New("persistent cache is disabled")
		}
		defer store.Close()
		layer := newCacheLayer(cfg, store)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "backend: %s\n", cfg.Cache.Backend)
		for _, k := range kinds {
			ids, ok := layer.Feeds.Get(ctx, cache.Persistent, k)
			if !ok {
				fmt.Fprintf(out, "%-5s  not cached\n", k)
				continue
			}
			window := ids
			if len(window) > cfg.Feed.BatchSize {
				window = window[:cfg.Feed.BatchSize]
			}
			held := 0
			for _, id := range window {
				if _, ok := layer.Items.Get(ctx, cache.Persistent, id); ok {
					held++
				}
			}
			fmt.Fprintf(out, "%-5s  %d ids, %d/%d of first window cached\n", k, len(ids), held, len(window))
		}
		items, feeds := layer.Items.Stats(), layer.Feeds.Stats()
		fmt.Fprintf(out, "lookups: %d hits, %d misses, %d evicted\n",
			items.PersistentHits+feeds.PersistentHits, items.Misses+feeds.Misses, items.Evictions+feeds.Evictions)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cachePingCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	rootCmd.AddCommand(cacheCmd)
}
