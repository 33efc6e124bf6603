package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/bbernstein/ambulance-finder/internal/config"
)

const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"
	BackendDynamoDB = "dynamodb"
	BackendS3       = "s3"
	BackendFile     = "file"
)

// Store fetches the current fleet snapshot from a data source
type Store interface {
	FetchAmbulances(ctx context.Context) ([]RawRecord, error)
	Name() string
}

// New builds the store selected by cfg.StoreBackend
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch strings.ToLower(cfg.StoreBackend) {
	case BackendSupabase, "":
		return NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey, cfg.AmbulanceTable, cfg.HTTPTimeout, cfg.MaxRetries)
	case BackendPostgres:
		return OpenPostgresStore(cfg.DatabaseURL, cfg.AmbulanceTable)
	case BackendDynamoDB:
		client, err := NewDynamoClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating DynamoDB client: %w", err)
		}
		return NewDynamoStore(client, cfg.AmbulanceTable), nil
	case BackendS3:
		client, err := NewS3Client(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating S3 client: %w", err)
		}
		return NewS3Store(client, cfg.S3Bucket, cfg.S3Key)
	case BackendFile:
		return NewFileStore(cfg.FleetFile)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.StoreBackend)
	}
}
