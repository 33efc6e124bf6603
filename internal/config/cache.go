package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds all cache-related configuration
type CacheConfig struct {
	// LRU Cache settings
	SnapshotLRUSize    int
	SnapshotTTLSeconds int

	// Redis Cache settings
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// DynamoDB Cache settings
	DynamoTable string

	// General settings
	EnableLRUCache    bool
	EnableRedisCache  bool
	EnableDynamoCache bool
}

const (
	// Default values
	defaultSnapshotLRUSize    = 16
	defaultSnapshotTTLSeconds = 0
	defaultRedisAddr          = "localhost:6379"
	defaultDynamoTable        = "ambulance-snapshot-cache"
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		SnapshotLRUSize:    getEnvInt("CACHE_SNAPSHOT_LRU_SIZE", defaultSnapshotLRUSize),
		SnapshotTTLSeconds: getEnvInt("CACHE_SNAPSHOT_TTL_SECONDS", defaultSnapshotTTLSeconds),
		RedisAddr:          getEnvString("REDIS_ADDR", defaultRedisAddr),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		DynamoTable:        getEnvString("CACHE_DYNAMO_TABLE", defaultDynamoTable),
		EnableLRUCache:     getEnvBool("CACHE_ENABLE_LRU", true),
		EnableRedisCache:   getEnvBool("CACHE_ENABLE_REDIS", false),
		EnableDynamoCache:  getEnvBool("CACHE_ENABLE_DYNAMO", false),
	}

	log.Debug().
		Int("SnapshotLRUSize", config.SnapshotLRUSize).
		Int("SnapshotTTLSeconds", config.SnapshotTTLSeconds).
		Str("RedisAddr", config.RedisAddr).
		Int("RedisDB", config.RedisDB).
		Bool("EnableLRUCache", config.EnableLRUCache).
		Bool("EnableRedisCache", config.EnableRedisCache).
		Bool("EnableDynamoCache", config.EnableDynamoCache).
		Str("DynamoTable", config.DynamoTable).
		Msg("Cache configuration loaded")

	return config
}

// SharedLayerEnabled reports whether snapshots are shared between instances
func (c *CacheConfig) SharedLayerEnabled() bool {
	return c.EnableRedisCache || c.EnableDynamoCache
}

func (c *CacheConfig) GetSnapshotTTL() time.Duration {
	return time.Duration(c.SnapshotTTLSeconds) * time.Second
}

// Helper functions to get environment variables with defaults
func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return defaultVal
}
