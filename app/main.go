package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/labirinth/curator/app/api"
	"github.com/labirinth/curator/app/cfg"
	"github.com/labirinth/curator/app/classifier"
	"github.com/labirinth/curator/app/config"
	"github.com/labirinth/curator/app/feed"
	"github.com/labirinth/curator/app/illustrator"
	"github.com/labirinth/curator/app/pipeline"
	"github.com/labirinth/curator/app/publisher"
	"github.com/labirinth/curator/app/store"
	"github.com/labirinth/curator/app/translator"
)

func main() {
	// Secrets come from the environment; a local .env is a convenience
	_ = godotenv.Load()

	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Curator", "version", appCfg.Version)

	editorial, err := config.NewLoader(appCfg.ConfigPath).Load()
	if err != nil {
		slog.Error("Failed to load editorial configuration", "path", appCfg.ConfigPath, "error", err)
		os.Exit(1)
	}
	slog.Info("Editorial configuration loaded", "feeds", len(editorial.Feeds), "channels", len(editorial.Channels))

	stateStore, err := store.Open(appCfg.DataDir)
	if err != nil {
		slog.Error("Failed to open state store", "dir", appCfg.DataDir, "error", err)
		os.Exit(1)
	}
	slog.Info("State store opened",
		"dir", appCfg.DataDir,
		"ledger_size", stateStore.PublishedCount(),
		"daily_count", stateStore.DailyCount(),
		"quota", appCfg.MaxDailyPosts)

	sender, err := publisher.NewTelegramSender(appCfg.BotToken)
	if err != nil {
		slog.Error("Failed to initialize Telegram sender", "error", err)
		os.Exit(1)
	}
	slog.Info("Telegram sender initialized", "username", sender.Username())

	httpClient := &http.Client{Timeout: 30 * time.Second}

	pipe := pipeline.New(pipeline.Options{
		Store:         stateStore,
		Poller:        feed.NewParser(httpClient, appCfg.UserAgent, appCfg.BatchSize),
		Freshness:     feed.NewFreshness(time.Duration(appCfg.MaxEntryAgeHours) * time.Hour),
		Extractor:     feed.NewContentExtractor(httpClient, appCfg.UserAgent),
		Classifier:    classifier.NewClient(appCfg.OllamaURL, appCfg.OllamaModel, editorial.Persona, classifier.DefaultRetryPolicy),
		Translator:    translator.NewClient(appCfg.DeepLURL, appCfg.DeepLKey, appCfg.TargetLang),
		Illustrator:   illustrator.NewClient(appCfg.ImageAPIURL),
		Publisher:     publisher.NewPublisher(sender, editorial.Channels, editorial.CTA),
		MaxDailyPosts: appCfg.MaxDailyPosts,
		MarkEvaluated: appCfg.MarkEvaluated,
	})

	scheduler := pipeline.NewScheduler(pipe, editorial.Feeds, time.Duration(appCfg.SweepInterval)*time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ops HTTP server
	handler := api.NewHandler(stateStore, scheduler, len(editorial.Feeds), appCfg.MaxDailyPosts, appCfg.Version)
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Ops server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	schedulerDone := make(chan struct{})
	go func() {
		scheduler.Run(ctx)
		close(schedulerDone)
	}()
	slog.Info("Scheduler started", "interval_minutes", appCfg.SweepInterval)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	select {
	case <-schedulerDone:
	case <-shutdownCtx.Done():
		slog.Warn("Scheduler did not drain before shutdown deadline")
	}

	slog.Info("Shutdown complete")
}
