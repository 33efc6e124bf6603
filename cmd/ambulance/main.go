package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/bbernstein/ambulance-finder/internal/ambulance"
	"github.com/bbernstein/ambulance-finder/internal/cache"
	"github.com/bbernstein/ambulance-finder/internal/config"
	"github.com/bbernstein/ambulance-finder/internal/handler"
	"github.com/bbernstein/ambulance-finder/internal/store"
	"github.com/rs/zerolog/log"
)

var (
	lambdaStart      = lambda.Start // Allow mocking of lambda.Start in tests
	ambulanceHandler *handler.AmbulanceHandler
	setupOnce        sync.Once

	finderFactory ambulance.FinderFactory = &ambulance.DefaultFinderFactory{}
	newStore                              = store.New
	initHandler                           = defaultInitHandler
)

func defaultInitHandler(ctx context.Context, cfg *config.Config) (*handler.AmbulanceHandler, error) {
	fleetStore, err := newStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing %s store: %w", cfg.StoreBackend, err)
	}

	snapshotCache, err := cache.NewFromConfig(ctx, config.GetCacheConfig())
	if err != nil {
		return nil, fmt.Errorf("initializing snapshot cache: %w", err)
	}

	finder, err := finderFactory.NewFinder(fleetStore, snapshotCache)
	if err != nil {
		return nil, fmt.Errorf("initializing ambulance finder: %w", err)
	}

	return handler.NewAmbulanceHandler(finder, cfg.AllowedOrigins...), nil
}

func InitializeService() error {
	var initError error
	setupOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()

		log.Debug().Str("store", cfg.StoreBackend).Msg("Initializing ambulance service...")
		h, err := initHandler(context.Background(), cfg)
		if err != nil {
			initError = fmt.Errorf("failed to initialize handler: %w", err)
			log.Error().Err(err).Msg("Failed to initialize handler")
			return
		}
		ambulanceHandler = h
		log.Debug().Msg("Ambulance service initialized successfully")
	})
	return initError
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if ambulanceHandler == nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"error":"Handler not initialized"}`,
		}, fmt.Errorf("handler not initialized")
	}
	return ambulanceHandler.HandleRequest(ctx, request)
}

func main() {
	if err := InitializeService(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize service")
	}
	lambdaStart(handleRequest)
}
