package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sozhaa-tech/chatbot-api/internal/snippet"
)

var snippetsJSON bool

var snippetsCmd = &cobra.Command{
	Use:   "snippets",
	Short: "Fetch and print the seed page snippets",
	Long:  "Fetches the configured company pages and prints the snippets the chatbot would prompt with. Useful for checking what the model actually sees.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		fetcher := snippet.NewFetcher(snippet.Options{
			UserAgent:    cfg.Seed.UserAgent,
			Timeout:      time.Duration(cfg.Seed.FetchTimeoutSecs) * time.Second,
			SnippetChars: cfg.Seed.SnippetChars,
			RatePerSec:   cfg.Seed.RatePerSec,
		})
		set := fetcher.FetchAll(ctx, cfg.Seed.URLs)

		out := cmd.OutOrStdout()
		if snippetsJSON {
			return printJSON(out, set.Snippets)
		}

		for _, s := range set.Snippets {
			fmt.Fprintf(out, "== %s (%s)\n%s\n\n", s.Title, s.URL, s.Text)
		}
		return nil
	},
}

func init() {
	snippetsCmd.Flags().BoolVar(&snippetsJSON, "json", false, "print snippets as JSON")
	rootCmd.AddCommand(snippetsCmd)
}
