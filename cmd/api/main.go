package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"promail/internal/account"
	"promail/internal/draft"
	"promail/internal/http/handlers"
	"promail/internal/http/httpapi"
	"promail/internal/infra"
	"promail/internal/infra/credentials"
	"promail/internal/infra/geoip"
	draftgen "promail/internal/providers/draft"
	"promail/internal/store"
	"promail/internal/usage"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	var (
		records store.RecordStore
		creds   *credentials.Store
	)
	if cfg.DatabaseURL != "" {
		dbpool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer dbpool.Close()
		runner := infra.NewSQLRunner(dbpool, logger)
		records = store.NewPostgresStore(runner)
		creds = credentials.NewStore(runner)
	} else {
		fileStore, err := store.NewFileStore(cfg.DataDir)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open data directory")
		}
		records = fileStore
		logger.Warn().Str("dir", cfg.DataDir).Msg("DATABASE_URL not set, using file-backed records")
	}

	var locator geoip.Locator
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	switch {
	case err != nil:
		logger.Warn().Err(err).Msg("geoip disabled")
	case resolver != nil:
		locator = resolver
		defer resolver.Close()
	}

	geminiKey := cfg.GeminiAPIKey
	if geminiKey == "" && creds != nil {
		key, err := creds.GeminiAPIKey(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to read stored gemini key")
		} else {
			geminiKey = key
		}
	}

	drafter, err := draftgen.NewGeminiDrafter(draftgen.GeminiOptions{
		APIKey:  geminiKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("drafting provider unavailable")
	}

	accounts := account.NewManager(records)
	recorder := usage.NewRecorder(records, locator, logger, cfg.GeoLookupTimeout)
	orchestrator := draft.NewOrchestrator(accounts, recorder, drafter, logger)

	app := handlers.NewApp(accounts, recorder, orchestrator, cfg.JWTSecret, logger)
	router := httpapi.NewRouter(app, cfg, logger)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Msg("API listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
