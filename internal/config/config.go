package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bbernstein/ambulance-finder/internal/logger"
	"github.com/rs/zerolog"
)

type Config struct {
	Environment string
	LogLevel    zerolog.Level
	HTTPTimeout time.Duration
	MaxRetries  int

	// Data store
	StoreBackend   string
	AmbulanceTable string
	SupabaseURL    string
	SupabaseKey    string
	DatabaseURL    string
	S3Bucket       string
	S3Key          string
	FleetFile      string

	// HTTP server
	Port           int
	AllowedOrigins []string
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithHTTPTimeout allows setting the HTTP timeout
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HTTPTimeout = timeout
	}
}

func WithMaxRetries(retries int) Option {
	return func(c *Config) {
		c.MaxRetries = retries
	}
}

func WithStoreBackend(backend string) Option {
	return func(c *Config) {
		c.StoreBackend = backend
	}
}

func WithAmbulanceTable(table string) Option {
	return func(c *Config) {
		c.AmbulanceTable = table
	}
}

// WithSupabase sets the project URL and API key used by the supabase store
func WithSupabase(url, key string) Option {
	return func(c *Config) {
		c.SupabaseURL = url
		c.SupabaseKey = key
	}
}

func WithDatabaseURL(dsn string) Option {
	return func(c *Config) {
		c.DatabaseURL = dsn
	}
}

func WithS3Object(bucket, key string) Option {
	return func(c *Config) {
		c.S3Bucket = bucket
		c.S3Key = key
	}
}

func WithFleetFile(path string) Option {
	return func(c *Config) {
		c.FleetFile = path
	}
}

func WithPort(port int) Option {
	return func(c *Config) {
		c.Port = port
	}
}

func WithAllowedOrigins(origins []string) Option {
	return func(c *Config) {
		c.AllowedOrigins = origins
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:    "production",
		LogLevel:       zerolog.InfoLevel,
		HTTPTimeout:    10 * time.Second,
		MaxRetries:     3,
		StoreBackend:   "supabase",
		AmbulanceTable: "ambulance",
		S3Key:          "ambulances.json",
		Port:           3000,
		AllowedOrigins: []string{"*"},
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	logger.Init(c.Environment, c.LogLevel)
}

// LoadFromEnv loads configuration from environment variables. URL and KEY
// are accepted as fallbacks for the supabase settings.
func LoadFromEnv() *Config {
	return New(
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithHTTPTimeout(getDurationEnvOrDefault("HTTP_TIMEOUT", 10*time.Second)),
		WithMaxRetries(getIntEnvOrDefault("HTTP_MAX_RETRIES", 3)),
		WithStoreBackend(getEnvOrDefault("STORE_BACKEND", "supabase")),
		WithAmbulanceTable(getEnvOrDefault("AMBULANCE_TABLE", "ambulance")),
		WithSupabase(
			getEnvOrDefault("SUPABASE_URL", os.Getenv("URL")),
			getEnvOrDefault("SUPABASE_KEY", os.Getenv("KEY")),
		),
		WithDatabaseURL(os.Getenv("DATABASE_URL")),
		WithS3Object(os.Getenv("S3_BUCKET"), getEnvOrDefault("S3_KEY", "ambulances.json")),
		WithFleetFile(os.Getenv("FLEET_FILE")),
		WithPort(getIntEnvOrDefault("PORT", 3000)),
		WithAllowedOrigins(getListEnvOrDefault("ALLOWED_ORIGINS", []string{"*"})),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getIntEnvOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getListEnvOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	if len(list) == 0 {
		return defaultValue
	}
	return list
}
