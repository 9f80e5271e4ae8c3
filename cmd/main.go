package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pagebrief/internal/article"
	"pagebrief/internal/bot"
	"pagebrief/internal/config"
	"pagebrief/internal/database"
	"pagebrief/internal/feed"
	"pagebrief/internal/scheduler"
	"pagebrief/internal/session"
	"pagebrief/internal/summarizer"
	"pagebrief/internal/translate"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	start := time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WarnContext(ctx, "Failed to load .env file",
			"error", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.ErrorContext(ctx, "Failed to load config",
			"error", err)

		return
	}

	db, err := database.New(ctx, cfg.DBPath, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize db",
			"error", err,
			"dbPath", cfg.DBPath)

		return
	}
	defer func() {
		if err = db.Close(); err != nil {
			log.ErrorContext(ctx, "Failed to close db",
				"error", err,
				"dbPath", cfg.DBPath)
		}
	}()
	log.InfoContext(ctx, "DB is initialized",
		"dbPath", cfg.DBPath)

	chain := initSummarizerChain(ctx, cfg, log)
	extractor := article.NewExtractor(log)
	translator := translate.NewClient(log)
	sessions := session.NewManager(extractor, chain, translator, log)

	fetcher := feed.NewFetcher(db, log)

	botInst, err := bot.New(cfg.Token, db, fetcher, sessions, cfg.AllowedUsers, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize bot",
			"error", err,
			"allowedUsersCount", len(cfg.AllowedUsers))

		return
	}
	log.InfoContext(ctx, "Bot is initialized",
		"allowedUsersCount", len(cfg.AllowedUsers))

	sched := scheduler.New(ctx, botInst, fetcher, log)

	if err = sched.Start(); err != nil {
		log.ErrorContext(ctx, "Failed to start scheduler",
			"error", err,
			"spec", scheduler.HourlyDigestSpec,
			"timezone", time.FixedZone(scheduler.Timezone, scheduler.TimezoneOffsetSeconds).String())

		return
	}
	defer sched.Stop()
	log.InfoContext(ctx, "Scheduler is started",
		"spec", scheduler.HourlyDigestSpec,
		"timezone", time.FixedZone(scheduler.Timezone, scheduler.TimezoneOffsetSeconds).String())

	go func() {
		botInst.Start(ctx)
	}()
	log.InfoContext(ctx, "Bot is started",
		"updateTimeoutSeconds", bot.BotUpdateTimeout)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	sig := <-c
	log.InfoContext(ctx, "Shutdown signal is received",
		"signal", sig.String())
	cancel()

	log.InfoContext(ctx, "Exiting...",
		"signal", sig.String(),
		"uptimeSeconds", time.Since(start).Seconds())

	botInst.Stop()
	log.InfoContext(ctx, "Bot is stopped",
		"uptimeSeconds", time.Since(start).Seconds())
}

// initSummarizerChain wires the configured providers in fallback order.
// OpenAI goes first when both keys are present.
func initSummarizerChain(ctx context.Context, cfg config.Config, log *slog.Logger) *summarizer.Chain {
	var clients []summarizer.Summarizer

	if apiKey := strings.TrimSpace(cfg.OpenAIAPIKey); apiKey != "" {
		clients = append(clients, summarizer.NewOpenAIClient(apiKey, cfg.OpenAIModel))

		log.InfoContext(ctx, "OpenAI provider is initialized",
			"model", cfg.OpenAIModel)
	}

	if apiKey := strings.TrimSpace(cfg.GeminiAPIKey); apiKey != "" {
		clients = append(clients, summarizer.NewGeminiClient(apiKey, cfg.GeminiModel, log))

		log.InfoContext(ctx, "Gemini provider is initialized",
			"model", cfg.GeminiModel)
	}

	if len(clients) == 0 {
		log.WarnContext(ctx, "No AI provider is configured so summaries will fail",
			"envVars", "OPENAI_API_KEY, GEMINI_API_KEY")
	}

	return summarizer.NewChain(log, clients...)
}
