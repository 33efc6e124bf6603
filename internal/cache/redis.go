package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bbernstein/ambulance-finder/internal/config"
	"github.com/bbernstein/ambulance-finder/internal/models"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ambulance-finder:snapshot:"

// RedisClient is the subset of go-redis commands used for snapshots
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// NewRedisClient connects to the configured Redis server
func NewRedisClient(ctx context.Context, cfg *config.CacheConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}
	return client, nil
}

// RedisSnapshotStore shares fleet snapshots between instances through Redis
type RedisSnapshotStore struct {
	client RedisClient
}

var _ SharedSnapshotStore = (*RedisSnapshotStore)(nil)

func NewRedisSnapshotStore(client RedisClient) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client}
}

func (s *RedisSnapshotStore) GetSnapshot(ctx context.Context, key string) ([]models.Ambulance, bool, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("getting snapshot from Redis: %w", err)
	}

	var ambulances []models.Ambulance
	if err := json.Unmarshal(data, &ambulances); err != nil {
		return nil, false, fmt.Errorf("decoding snapshot: %w", err)
	}
	return ambulances, true, nil
}

func (s *RedisSnapshotStore) SaveSnapshot(ctx context.Context, key string, ambulances []models.Ambulance, ttl time.Duration) error {
	data, err := json.Marshal(ambulances)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := s.client.Set(ctx, redisKeyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("saving snapshot to Redis: %w", err)
	}
	return nil
}
