package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var cacheEnvVars = []string{
	"CACHE_SNAPSHOT_LRU_SIZE",
	"CACHE_SNAPSHOT_TTL_SECONDS",
	"CACHE_ENABLE_LRU",
	"CACHE_ENABLE_REDIS",
	"REDIS_ADDR",
	"REDIS_PASSWORD",
	"REDIS_DB",
	"CACHE_ENABLE_DYNAMO",
	"CACHE_DYNAMO_TABLE",
}

func TestGetCacheConfig(t *testing.T) {
	tests := []struct {
		name            string
		envVars         map[string]string
		wantLRUSize     int
		wantTTL         time.Duration
		wantEnableLRU   bool
		wantEnableRedis bool
	}{
		{
			name:            "custom configuration",
			envVars:         map[string]string{"CACHE_SNAPSHOT_LRU_SIZE": "64", "CACHE_SNAPSHOT_TTL_SECONDS": "30"},
			wantLRUSize:     64,
			wantTTL:         30 * time.Second,
			wantEnableLRU:   true,
			wantEnableRedis: false,
		},
		{
			name:            "disabled LRU cache",
			envVars:         map[string]string{"CACHE_ENABLE_LRU": "false"},
			wantLRUSize:     defaultSnapshotLRUSize,
			wantTTL:         defaultSnapshotTTLSeconds * time.Second,
			wantEnableLRU:   false,
			wantEnableRedis: false,
		},
		{
			name:            "redis enabled",
			envVars:         map[string]string{"CACHE_ENABLE_REDIS": "yes"},
			wantLRUSize:     defaultSnapshotLRUSize,
			wantTTL:         defaultSnapshotTTLSeconds * time.Second,
			wantEnableLRU:   true,
			wantEnableRedis: true,
		},
		{
			name:            "invalid numeric values fall back to defaults",
			envVars:         map[string]string{"CACHE_SNAPSHOT_LRU_SIZE": "big", "CACHE_SNAPSHOT_TTL_SECONDS": "soon"},
			wantLRUSize:     defaultSnapshotLRUSize,
			wantTTL:         defaultSnapshotTTLSeconds * time.Second,
			wantEnableLRU:   true,
			wantEnableRedis: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range cacheEnvVars {
				if _, ok := tt.envVars[k]; !ok {
					unsetForTest(t, k)
				}
			}
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			config := GetCacheConfig()

			assert.Equal(t, tt.wantLRUSize, config.SnapshotLRUSize)
			assert.Equal(t, tt.wantTTL, config.GetSnapshotTTL())
			assert.Equal(t, tt.wantEnableLRU, config.EnableLRUCache)
			assert.Equal(t, tt.wantEnableRedis, config.EnableRedisCache)
		})
	}
}

func TestCacheDefaultValues(t *testing.T) {
	for _, k := range cacheEnvVars {
		unsetForTest(t, k)
	}

	config := GetCacheConfig()

	assert.Equal(t, defaultSnapshotLRUSize, config.SnapshotLRUSize)
	assert.Equal(t, defaultSnapshotTTLSeconds, config.SnapshotTTLSeconds)
	assert.Equal(t, defaultRedisAddr, config.RedisAddr)
	assert.Equal(t, 0, config.RedisDB)
	assert.Equal(t, defaultDynamoTable, config.DynamoTable)
	assert.True(t, config.EnableLRUCache)
	assert.False(t, config.EnableRedisCache)
	assert.False(t, config.EnableDynamoCache)
	assert.False(t, config.SharedLayerEnabled())
}

func TestDynamoCacheConfig(t *testing.T) {
	for _, k := range cacheEnvVars {
		unsetForTest(t, k)
	}
	t.Setenv("CACHE_ENABLE_DYNAMO", "1")
	t.Setenv("CACHE_DYNAMO_TABLE", "fleet-cache")

	config := GetCacheConfig()

	assert.True(t, config.EnableDynamoCache)
	assert.Equal(t, "fleet-cache", config.DynamoTable)
	assert.True(t, config.SharedLayerEnabled())
}
