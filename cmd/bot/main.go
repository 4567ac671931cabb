package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/charantamarapu/llama4aibot/internal/bot"
	"github.com/charantamarapu/llama4aibot/internal/config"
	"github.com/charantamarapu/llama4aibot/internal/conversation"
	"github.com/charantamarapu/llama4aibot/internal/health"
	"github.com/charantamarapu/llama4aibot/internal/llm"
	"github.com/charantamarapu/llama4aibot/internal/telegram"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Fatal before any connection is attempted.
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	store := conversation.NewStore()
	completions := llm.New(llm.Options{
		URL:          cfg.OpenRouterURL,
		APIKey:       cfg.OpenRouterKey,
		Model:        cfg.Model,
		SystemPrompt: cfg.SystemPrompt,
		MaxTokens:    cfg.MaxTokens,
		Timeout:      cfg.RequestTimeout,
	}, store, logger)

	// The transport timeout must outlast the long poll.
	pollTimeout := time.Duration(cfg.PollTimeoutSecs)*time.Second + 10*time.Second
	tg := telegram.NewClient(cfg.TelegramAPIBase(), pollTimeout)

	b := bot.New(tg, completions, store, cfg.PollTimeoutSecs, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.HealthAddr != "" {
		srv := health.NewServer(cfg.HealthAddr)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("health server stopped", zap.Error(err))
			}
		}()
		defer srv.Shutdown(context.Background())
		logger.Info("health endpoint listening", zap.String("addr", cfg.HealthAddr))
	}

	logger.Info("bot started", zap.String("model", cfg.Model))
	b.Run(ctx)
	logger.Info("bot stopped")
}
