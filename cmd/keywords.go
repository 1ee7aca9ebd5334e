package cmd

import (
	"fmt"
	"strings"

	"hn-sans-ai/internal/model"

	"github.com/spf13/cobra"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Inspect the exclusion keyword set",
}

var keywordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the active keyword set and its fingerprint",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClassifier(GetConfig().Classifier)
		if err != nil {
			return err
		}
		set := c.Keywords()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# %s (%d keywords, fingerprint %s)\n", set.Name, len(set.Keywords), set.Fingerprint())
		for _, kw := range set.Keywords {
			fmt.Fprintln(out, kw)
		}
		return nil
	},
}

var keywordsCheckCmd = &cobra.Command{
	Use:   "check <text>",
	Short: "Report whether text would be excluded",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClassifier(GetConfig().Classifier)
		if err != nil {
			return err
		}
		text := strings.Join(args, " ")
		if kw, _, ok := c.Match(model.Item{Title: text}); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "excluded (matched %q)\n", kw)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "kept")
		return nil
	},
}

func init() {
	keywordsCmd.AddCommand(keywordsListCmd)
	keywordsCmd.AddCommand(keywordsCheckCmd)
	rootCmd.AddCommand(keywordsCmd)
}
