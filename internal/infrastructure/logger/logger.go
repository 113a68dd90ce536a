package logger

import (
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	globalLogger zerolog.Logger
	once         sync.Once
)

// GetLogger returns the global logger instance
func GetLogger() zerolog.Logger {
	once.Do(func() {
		consoleWriter := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		globalLogger = zerolog.New(consoleWriter).With().Timestamp().Logger().Level(zerolog.InfoLevel)
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})
	return globalLogger
}

// Options configures New.
type Options struct {
	Level       string
	Format      string
	Service     string
	Environment string
	Out         io.Writer
}

// New constructs a zerolog logger based on level and format configuration.
func New(opts Options) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil {
		return zerolog.Logger{}, err
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	var writer zerolog.Logger
	switch strings.ToLower(opts.Format) {
	case "json":
		writer = zerolog.New(out).With().Timestamp().Logger()
	case "console", "":
		writer = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	default:
		return zerolog.Logger{}, errors.New("unsupported log format")
	}

	ctx := writer.With()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	if opts.Environment != "" {
		ctx = ctx.Str("environment", opts.Environment)
	}

	zerolog.SetGlobalLevel(lvl)
	globalLogger = ctx.Logger().Level(lvl)

	return globalLogger, nil
}
