package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sozhaa-tech/chatbot-api/internal/chat"
	"github.com/sozhaa-tech/chatbot-api/internal/generate"
	"github.com/sozhaa-tech/chatbot-api/internal/notify"
	"github.com/sozhaa-tech/chatbot-api/internal/prompt"
	"github.com/sozhaa-tech/chatbot-api/internal/server"
	"github.com/sozhaa-tech/chatbot-api/internal/snippet"
	"github.com/sozhaa-tech/chatbot-api/internal/transcript"
	"github.com/sozhaa-tech/chatbot-api/pkg/anthropic"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat widget HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Company pages are fetched once; every session prompts from the
		// same snapshot.
		fetcher := snippet.NewFetcher(snippet.Options{
			UserAgent:    cfg.Seed.UserAgent,
			Timeout:      time.Duration(cfg.Seed.FetchTimeoutSecs) * time.Second,
			SnippetChars: cfg.Seed.SnippetChars,
			RatePerSec:   cfg.Seed.RatePerSec,
		})
		set := fetcher.FetchAll(ctx, cfg.Seed.URLs)
		zap.L().Info("seed snippets ready", zap.Int("count", len(set.Snippets)))

		replies, err := chat.LoadReplies(cfg.Chat.RepliesPath)
		if err != nil {
			zap.L().Warn("loading reply overrides, using defaults", zap.Error(err))
		}

		prompts := prompt.NewBuilder(set, cfg.Chat.HistoryWindow)
		generator := generate.New(
			anthropic.NewClient(cfg.Anthropic.Key),
			cfg.Anthropic.Model,
			cfg.Anthropic.MaxTokens,
			prompts.System(),
			generate.Fallbacks{
				Empty:       replies.ApologyEmpty,
				Unavailable: replies.ApologyUnavailable,
			},
		)

		store, err := transcript.Open(ctx, cfg.Store)
		if err != nil {
			return eris.Wrap(err, "open transcript store")
		}
		defer store.Close() //nolint:errcheck

		email, err := notify.NewEmail(cfg.Email)
		if err != nil {
			return err
		}
		messenger, err := notify.NewMessenger(cfg.Messaging)
		if err != nil {
			return err
		}

		dispatcher := notify.NewDispatcher(cfg.Notify.QueueSize)
		defer dispatcher.Close()
		go func() {
			for err := range dispatcher.Errors() {
				zap.L().Warn("notification delivery", zap.Error(err))
			}
		}()

		svc := chat.NewService(
			prompts, generator, store, email, messenger, dispatcher,
			replies, cfg.Email.CompanyTo, cfg.Messaging.CompanyNumber, cfg.Messaging.CountryPrefix,
		)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: server.NewRouter(svc, cfg.Server.CORSOrigins),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
