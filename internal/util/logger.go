// internal/util/logger.go
package util

import (
	"io"
	"log/slog"
	"os"
)

// Supported APP_ENV values.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

var logger *slog.Logger

// InitLogger initializes the global structured logger for the given environment.
// local logs human-readable text at debug level, dev logs JSON at debug level,
// and anything else (prod) logs JSON at info level.
func InitLogger(env string) {
	logger = NewLogger(env, os.Stdout)
	slog.SetDefault(logger) // Set as default logger for convenience
}

// NewLogger builds a logger for env writing to w without touching the global one.
func NewLogger(env string, w io.Writer) *slog.Logger {
	switch env {
	case EnvLocal:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
			AddSource: true,
			Level:     slog.LevelDebug,
		}))
	case EnvDev:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource: true,
			Level:     slog.LevelDebug,
		}))
	default:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource: true,           // Add file and line number to logs
			Level:     slog.LevelInfo, // Production default
		}))
	}
}

// GetLogger returns the initialized global logger.
func GetLogger() *slog.Logger {
	if logger == nil {
		InitLogger(EnvProd) // Initialize if not already initialized (should be called explicitly at app start)
	}
	return logger
}
