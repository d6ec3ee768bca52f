// Package app assembles the application: configuration, logger, database
// pool, vendor clients, services, and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/lexigen-backend/internal/adapter/postgres"
	activitystore "github.com/heartmarshall/lexigen-backend/internal/adapter/postgres/activity"
	"github.com/heartmarshall/lexigen-backend/internal/adapter/postgres/audiofile"
	"github.com/heartmarshall/lexigen-backend/internal/adapter/postgres/word"
	"github.com/heartmarshall/lexigen-backend/internal/adapter/provider/elevenlabs"
	"github.com/heartmarshall/lexigen-backend/internal/adapter/provider/gemini"
	"github.com/heartmarshall/lexigen-backend/internal/auth"
	"github.com/heartmarshall/lexigen-backend/internal/cache"
	"github.com/heartmarshall/lexigen-backend/internal/config"
	"github.com/heartmarshall/lexigen-backend/internal/service/activity"
	"github.com/heartmarshall/lexigen-backend/internal/service/audio"
	"github.com/heartmarshall/lexigen-backend/internal/service/lookup"
	"github.com/heartmarshall/lexigen-backend/internal/transport/middleware"
	"github.com/heartmarshall/lexigen-backend/internal/transport/rest"
)

// Run is the application entry point. It assembles every layer and serves
// HTTP until ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	wordRepo := word.New(pool)
	audioFileRepo := audiofile.New(pool)
	activityRepo := activitystore.New(pool)
	txManager := postgres.NewTxManager(pool)

	geminiClient, err := gemini.NewClient(cfg.Gemini.APIKey, logger,
		gemini.WithBaseURL(cfg.Gemini.BaseURL),
		gemini.WithModel(cfg.Gemini.Model),
	)
	if err != nil {
		return fmt.Errorf("create gemini client: %w", err)
	}

	ttsClient, err := elevenlabs.NewClient(cfg.ElevenLabs.APIKey, logger,
		elevenlabs.WithBaseURL(cfg.ElevenLabs.BaseURL),
	)
	if err != nil {
		return fmt.Errorf("create elevenlabs client: %w", err)
	}

	audioCache := cache.NewTTL[[]byte](cfg.Cache.AudioTTL, clockwork.NewRealClock())

	activityService := activity.NewService(logger, activityRepo)
	lookupService := lookup.NewService(logger, wordRepo, geminiClient, geminiClient, activityService)
	audioService := audio.NewService(logger, wordRepo, audioFileRepo, ttsClient, activityService, txManager, audioCache)

	router := rest.NewRouter(rest.Handlers{
		Dictionary: rest.NewDictionaryHandler(lookupService, logger),
		TTS:        rest.NewTTSHandler(audioService, logger),
		Activity:   rest.NewActivityHandler(activityService, logger),
		Health:     rest.NewHealthHandler(pool, BuildVersion()),
	})

	mws := []middleware.Middleware{
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
	}

	if cfg.IdentityEnabled() {
		verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
		mws = append(mws, middleware.Auth(verifier))
	} else {
		logger.Info("token verification disabled, all requests are anonymous")
	}

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
		defer limiter.Stop()
		mws = append(mws, limiter.Limit(cfg.RateLimit.PerMinute))
	}

	handler := middleware.Chain(mws...)(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
