package cmd

import (
	"context"
	"fmt"
	"time"

	"hn-sans-ai/internal/ai"

	"github.com/spf13/cobra"
)

// suggestCmd asks the model which keywords would have hidden a story. The
// suggestions are printed only; adding them is left to the user.
var suggestCmd = &cobra.Command{
	Use:   "suggest <id>",
	Short: "Suggest exclusion keywords for a story",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		id, err := parseItemID(args[0])
		if err != nil {
			return err
		}
		sugg, err := ai.NewOpenAI(ai.Config{
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
			BaseURL: cfg.OpenAI.BaseURL,
		})
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
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
		kws, err := sugg.SuggestKeywords(ctx, it, p.classifier.Keywords().Keywords)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(kws) == 0 {
			fmt.Fprintln(out, "no new keywords suggested")
			return nil
		}
		fmt.Fprintf(out, "# suggestions for %q; add them under classifier.extra_keywords\n", it.Title)
		for _, kw := range kws {
			fmt.Fprintln(out, kw)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}
