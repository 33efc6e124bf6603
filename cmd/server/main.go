package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bbernstein/ambulance-finder/internal/ambulance"
	"github.com/bbernstein/ambulance-finder/internal/cache"
	"github.com/bbernstein/ambulance-finder/internal/config"
	"github.com/bbernstein/ambulance-finder/internal/handler"
	"github.com/bbernstein/ambulance-finder/internal/server"
	"github.com/bbernstein/ambulance-finder/internal/store"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional, real environment variables win
	_ = godotenv.Load()

	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	fleetStore, err := store.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing %s store: %w", cfg.StoreBackend, err)
	}

	snapshotCache, err := cache.NewFromConfig(ctx, config.GetCacheConfig())
	if err != nil {
		return fmt.Errorf("initializing snapshot cache: %w", err)
	}

	finder, err := ambulance.NewFinder(fleetStore, snapshotCache)
	if err != nil {
		return fmt.Errorf("initializing ambulance finder: %w", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           server.New(cfg, handler.NewAmbulanceHandler(finder, cfg.AllowedOrigins...)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Port).Str("store", fleetStore.Name()).Msg("Server is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
