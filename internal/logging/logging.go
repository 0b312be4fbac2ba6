// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"search-summarizer/internal/config"
)

// Setup builds the root logger from cfg. Output always goes to stderr; when
// cfg.Log.File is set it is also written to a size-rotated file. The returned
// closer releases the file and must be called on shutdown.
func Setup(cfg *config.Config) (zerolog.Logger, io.Closer, error) {
	return setup(cfg, os.Stderr)
}

func setup(cfg *config.Config, stderr io.Writer) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if cfg.Log.Level != "" {
		parsed, err := zerolog.ParseLevel(cfg.Log.Level)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
		}
		level = parsed
	}

	var out io.Writer = stderr
	var closer io.Closer = nopCloser{}
	if cfg.Log.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    15, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		out = zerolog.MultiLevelWriter(stderr, file)
		closer = file
	}

	logger := zerolog.New(out).Level(level).With().
		Timestamp().
		Str("service", ServiceName).
		Logger()
	zerolog.DefaultContextLogger = &logger
	return logger, closer, nil
}

// ServiceName identifies this service in logs and on /health.
const ServiceName = "langextract-summarizer"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
