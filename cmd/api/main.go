// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	scs "github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"

	"github.com/briangreenhill/pokedex/cache"
	"github.com/briangreenhill/pokedex/internal/config"
	"github.com/briangreenhill/pokedex/internal/http/routes"
	"github.com/briangreenhill/pokedex/pokeapi"
	"github.com/briangreenhill/pokedex/web"
)

func main() {
	// optional; real env wins
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// Logger
	logger := cfg.Log.Logger(os.Stdout)
	logger.Info().Str("port", cfg.Port).Str("catalog", cfg.Catalog.BaseURL).Msg("starting app")

	// Catalog client; one entry cache for every viewer
	entries := cache.NewMemory()
	client := pokeapi.New(
		pokeapi.WithBaseURL(cfg.Catalog.BaseURL),
		pokeapi.WithCache(entries),
		pokeapi.WithRateLimit(cfg.Catalog.RPS),
		pokeapi.WithLogger(logger.With().Str("component", "pokeapi").Logger()),
	)

	// Sessions
	sess := scs.New()
	sess.Lifetime = cfg.SessionLifetime
	sess.Cookie.HttpOnly = true
	sess.Cookie.SameSite = http.SameSiteLaxMode
	sess.Cookie.Secure = false

	tmpl, err := web.Templates()
	if err != nil {
		logger.Fatal().Err(err).Msg("parse templates")
	}

	s := routes.New(routes.ServerOptions{
		Sess:     sess,
		Tmpl:     tmpl,
		Resolver: client,
		Logger:   logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
	logger.Info().Int("cached_entries", entries.Len()).Msg("stopped")
}
