package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var output io.Writer = os.Stdout

// SetOutput redirects log output for subsequent Init calls
func SetOutput(w io.Writer) {
	output = w
}

// Init configures the global logger. Local and development environments get
// console output, everything else structured JSON.
func Init(env string, level zerolog.Level) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(level)

	if env == "local" || env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339})
		return
	}

	log.Logger = zerolog.New(output).
		With().
		Timestamp().
		Logger()
}

// Logger holds command line logging options
type Logger struct {
	Level  string `long:"log-level"  env:"LOG_LEVEL"  description:"Log level" default:"info" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error"`
	Format string `long:"log-format" env:"LOG_FORMAT" description:"Log output format" default:"console" choice:"console" choice:"json"`
}

// Setup applies the options to the global logger
func (l Logger) Setup() {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil || l.Level == "" {
		level = zerolog.InfoLevel
	}

	env := "production"
	if l.Format == "console" {
		env = "local"
	}
	Init(env, level)
}
