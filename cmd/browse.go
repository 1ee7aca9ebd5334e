package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hn-sans-ai/internal/feed"
	"hn-sans-ai/internal/model"
	"hn-sans-ai/internal/render"

	"github.com/spf13/cobra"
)

var (
	browsePages  int
	browseFormat string
)

// browseCmd prints the filtered head of a feed.
var browseCmd = &cobra.Command{
	Use:       "browse [top|new|best|ask|show|job]",
	Short:     "Print a Hacker News feed with AI stories removed",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"top", "new", "best", "ask", "show", "job"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		name := cfg.Feed.Default
		if len(args) == 1 {
			name = args[0]
		}
		kind, err := model.ParseFeedKind(name)
		if err != nil {
			return err
		}
		if browsePages < 1 {
			return fmt.Errorf("--pages must be at least 1")
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		p, err := newPipeline(ctx, cfg)
		if err != nil {
			return err
		}
		defer p.Close()

		ctrl := feed.NewController(p.fetcher, p.classifier, cfg.Feed.BatchSize)
		defer ctrl.Close()

		v, err := paginate(ctx, ctrl, kind, browsePages)
		if err != nil {
			return errors.New(v.Err)
		}
		return render.Render(cmd.OutOrStdout(), browseFormat, v, time.Now())
	},
}

// paginate starts a session and loads up to pages windows. Only a failed
// Start is an error; a failed LoadMore keeps what is already visible.
func paginate(ctx context.Context, ctrl *feed.Controller, kind model.FeedKind, pages int) (feed.View, error) {
	if _, err := ctrl.Start(ctx, kind); err != nil {
		return ctrl.View(), err
	}
	for i := 1; i < pages && ctrl.HasMore(); i++ {
		if _, err := ctrl.LoadMore(ctx); err != nil {
			slog.Warn("browse: load more failed", "feed", kind, "page", i+1, "error", err)
			break
		}
	}
	return ctrl.View(), nil
}

func init() {
	browseCmd.Flags().IntVarP(&browsePages, "pages", "p", 1, "number of batches to load")
	browseCmd.Flags().StringVarP(&browseFormat, "format", "f", "text", "output format: "+strings.Join(render.Formats, ", "))
	rootCmd.AddCommand(browseCmd)
}
