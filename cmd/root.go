package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sozhaa-tech/chatbot-api/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "chatbot-api",
	Short: "Sozhaa Tech website chatbot backend",
	Long:  "Serves the website chat widget: answers with Claude grounded in pre-fetched company pages, stores transcripts, and notifies the team by email and messaging.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
