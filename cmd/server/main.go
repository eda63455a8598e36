// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/aayush84339/smart-movie-recommendor/internal/api/rest"
	"github.com/aayush84339/smart-movie-recommendor/internal/app/mood"
	"github.com/aayush84339/smart-movie-recommendor/internal/app/watchlist"
	"github.com/aayush84339/smart-movie-recommendor/internal/infra/config"
	"github.com/aayush84339/smart-movie-recommendor/internal/infra/gemini"
	"github.com/aayush84339/smart-movie-recommendor/internal/infra/logger"
	"github.com/aayush84339/smart-movie-recommendor/internal/infra/omdb"
	"github.com/aayush84339/smart-movie-recommendor/internal/infra/storage"
)

var (
	app        = kingpin.New("smr-server", "Smart movie recommendor server")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	// Load config before the logger so the configured level applies,
	// falling back to info until then.
	if err := logger.Init(logger.Config{Level: "info"}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	loggerConfig := logger.Config{
		Level: cfg.Logging.Level,
		File:  cfg.Logging.File,
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.File = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		zlog.Fatal().Msgf("Failed to initialize logger: %v", err)
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	ctx := context.Background()

	omdbClient, err := omdb.New(omdb.Config{
		APIKey:  cfg.OMDb.APIKey,
		BaseURL: cfg.OMDb.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to create OMDb client: %w", err)
	}

	// Gemini is optional; the mood chain falls back to the offline
	// provider when it is absent.
	var geminiClient mood.GeminiClient
	if cfg.Gemini.APIKey != "" {
		client, gerr := gemini.New(gemini.Config{
			APIKey: cfg.Gemini.APIKey,
			Model:  cfg.Gemini.Model,
		})
		if gerr != nil {
			return fmt.Errorf("failed to create Gemini client: %w", gerr)
		}
		geminiClient = client
	}

	moodChain, err := mood.NewChainFromConfig(cfg, geminiClient)
	if err != nil {
		return fmt.Errorf("failed to create mood provider chain: %w", err)
	}

	repo, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to open watchlist storage: %w", err)
	}
	defer repo.Close()

	store := watchlist.New(ctx, repo, omdbClient)
	zlog.Info().Int("entries", store.Len()).Msg("watchlist rehydrated")

	router := rest.NewRouter(store, omdbClient, moodChain)

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: h2c.NewHandler(router, &http2.Server{}),
	}

	serverErrCh := make(chan error, 1)
	go func() {
		zlog.Info().Msgf("Starting server: addr=%s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	// Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")
	return nil
}
