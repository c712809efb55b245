// Command sonic-aura-stream runs the emotion-aware music recommendation API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/monisha-alt/sonic-aura-stream/internal/catalog"
	"github.com/monisha-alt/sonic-aura-stream/internal/config"
	"github.com/monisha-alt/sonic-aura-stream/internal/engine"
	"github.com/monisha-alt/sonic-aura-stream/internal/history"
	"github.com/monisha-alt/sonic-aura-stream/internal/matcher"
	"github.com/monisha-alt/sonic-aura-stream/internal/playlist"
	"github.com/monisha-alt/sonic-aura-stream/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env file is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}

	ctx := context.Background()

	provider, err := catalog.NewSpotify(ctx, cfg.Spotify.ClientID, cfg.Spotify.ClientSecret)
	if err != nil {
		return fmt.Errorf("creating catalog provider: %w", err)
	}

	var engineOpts []engine.Option
	var serverOpts []web.ServerOption
	if cfg.Database.URL != "" {
		store, err := history.New(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("connecting to history database: %w", err)
		}
		defer store.Close()
		engineOpts = append(engineOpts, engine.WithHistory(store))
		serverOpts = append(serverOpts, web.WithListeningHistory(store))
		log.Info().Msg("listening history enabled")
	} else {
		log.Info().Msg("no database configured, personalization from history disabled")
	}

	eng := engine.New(
		matcher.New(provider, log, matcher.WithBatchPause(cfg.Matcher.BatchPause)),
		playlist.NewCurator(),
		log,
		engineOpts...,
	)

	srv := web.NewServer(web.ServerConfig{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Timeout: cfg.Server.Timeout,
	}, eng, log, serverOpts...)

	return srv.Run()
}

func newLogger(cfg config.LogConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	log := zerolog.New(os.Stderr)
	if cfg.Format == "console" {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return log.Level(level).With().Timestamp().Logger(), nil
}
