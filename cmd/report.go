package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"hn-sans-ai/internal/config"
	"hn-sans-ai/internal/model"
	"hn-sans-ai/internal/report"

	"github.com/spf13/cobra"
)

var reportDryRun bool

// reportCmd sends a story that slipped through the filter to the review form.
var reportCmd = &cobra.Command{
	Use:   "report <id>",
	Short: "Report a story the filter should have hidden",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		id, err := parseItemID(args[0])
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		p, err := newPipeline(ctx, cfg)
		if err != nil {
			return err
		}
		defer p.Close()

		it, err := lookupStory(ctx, p, id)
		if err != nil {
			return err
		}
		if kw, field, ok := p.classifier.Match(it); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "story %d is already excluded (%q in %s)\n", id, kw, field)
			return nil
		}

		rc := report.New(cfg.Report.Endpoint, cfg.Report.Message,
			config.Duration(cfg.Report.Timeout, 10*time.Second), p.store)
		if reportDryRun {
			fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", rc.PayloadFor(it))
			return nil
		}
		switch err := rc.Send(ctx, it); {
		case errors.Is(err, report.ErrAlreadyReported):
			fmt.Fprintf(cmd.OutOrStdout(), "story %d was already reported\n", id)
			return nil
		case err != nil:
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "reported story %d: %s\n", id, it.Title)
		return nil
	},
}

func parseItemID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id %q", s)
	}
	return id, nil
}

// lookupStory resolves one id through the cache and fetcher.
func lookupStory(ctx context.Context, p *pipeline, id int) (model.Item, error) {
	items, err := p.fetcher.ResolveItems(ctx, []int{id})
	if err != nil {
		return model.Item{}, err
	}
	if len(items) == 0 {
		return model.Item{}, fmt.Errorf("item %d is not an available story", id)
	}
	return items[0], nil
}

func init() {
	reportCmd.Flags().BoolVar(&reportDryRun, "dry-run", false, "print the payload instead of sending it")
	rootCmd.AddCommand(reportCmd)
}
