package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bbernstein/ambulance-finder/internal/ambulance"
	"github.com/bbernstein/ambulance-finder/internal/api"
	"github.com/bbernstein/ambulance-finder/internal/cache"
	"github.com/bbernstein/ambulance-finder/internal/config"
	"github.com/bbernstein/ambulance-finder/internal/geo"
	"github.com/bbernstein/ambulance-finder/internal/logger"
	"github.com/bbernstein/ambulance-finder/internal/store"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	exitOK      = 0
	exitError   = 1
	exitNoMatch = 2
)

type Options struct {
	Latitude  float64 `long:"lat" description:"Latitude of the incident" required:"true"`
	Longitude float64 `long:"lon" description:"Longitude of the incident" required:"true"`
	Store     string  `short:"s" long:"store" env:"STORE_BACKEND" description:"Ambulance data store" default:"supabase" choice:"supabase" choice:"postgres" choice:"dynamodb" choice:"s3" choice:"file"`
	Table     string  `short:"t" long:"table" env:"AMBULANCE_TABLE" description:"Ambulance table name" default:"ambulance"`
	File      string  `short:"f" long:"file" env:"FLEET_FILE" description:"Fleet roster for the file store (yaml, json or xlsx)"`
	Pretty    bool    `short:"p" long:"pretty" description:"Indent JSON output"`

	Logging logger.Logger `group:"Logging Options"`
}

func main() {
	// .env is optional, real environment variables win
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return exitOK
		}
		return exitError
	}

	logger.SetOutput(os.Stderr)
	opts.Logging.Setup()

	cfg := config.LoadFromEnv()
	config.WithStoreBackend(opts.Store)(cfg)
	config.WithAmbulanceTable(opts.Table)(cfg)
	config.WithFleetFile(opts.File)(cfg)

	ctx := context.Background()
	fleetStore, err := store.New(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Str("store", opts.Store).Msg("Failed to initialize store")
		return exitError
	}

	// a single lookup per process has nothing to reuse
	snapshotCache, err := cache.NewSnapshotCache(&config.CacheConfig{
		SnapshotLRUSize:    1,
		SnapshotTTLSeconds: 0,
	}, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize cache")
		return exitError
	}

	finder, err := ambulance.NewFinder(fleetStore, snapshotCache)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize finder")
		return exitError
	}

	result, err := finder.FindNearest(ctx, geo.NewCoordinate(opts.Latitude, opts.Longitude))
	if err != nil {
		var coordErr geo.InvalidCoordinatesError
		if errors.As(err, &coordErr) {
			fmt.Fprintln(os.Stderr, coordErr.Error())
			return exitError
		}
		log.Error().Err(err).Msg("Failed to find nearest ambulance")
		return exitError
	}

	var body interface{} = api.MessageResponse{Message: api.NoMatchMessage(result.Reason)}
	if result.Found {
		body = api.NewNearestAmbulanceResponse(result.Match)
	}

	encoder := json.NewEncoder(stdout)
	if opts.Pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to write result")
		return exitError
	}

	if !result.Found {
		return exitNoMatch
	}
	return exitOK
}
