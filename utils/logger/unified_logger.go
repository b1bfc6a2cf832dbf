// ABOUTME: This file provides the slog-based unified JSON logger
// ABOUTME: Lowercase levels, service/version fields, context and trace correlation, optional OTel export
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const serviceVersion = "1.0.0"

// LoggerConfig represents logger configuration read from the environment
type LoggerConfig struct {
	Level       string `env:"LOG_LEVEL" default:"info"`
	ServiceName string `env:"SERVICE_NAME" default:"genai-news"`
}

// LoadLoggerConfigFromEnv loads configuration from environment variables
func LoadLoggerConfigFromEnv() *LoggerConfig {
	return &LoggerConfig{
		Level:       getEnvOrDefault("LOG_LEVEL", "info"),
		ServiceName: getEnvOrDefault("SERVICE_NAME", "genai-news"),
	}
}

// UnifiedLogger wraps the service-wide slog logger
type UnifiedLogger struct {
	logger      *slog.Logger
	serviceName string
}

// NewUnifiedLogger creates a JSON logger writing to output. When enableOTel is
// true records are also sent through the otelslog bridge.
func NewUnifiedLogger(output io.Writer, serviceName, level string, enableOTel bool) *UnifiedLogger {
	slogLevel := ParseLevel(level)

	options := &slog.HandlerOptions{
		Level:     slogLevel,
		AddSource: false,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				// lowercase for the log forwarder
				if level, ok := a.Value.Any().(slog.Level); ok {
					return slog.Attr{Key: "level", Value: slog.StringValue(strings.ToLower(level.String()))}
				}
			}
			return a
		},
	}

	var handler slog.Handler = NewContextFieldsHandler(slog.NewJSONHandler(output, options))
	if enableOTel {
		handler = newFanoutHandler(handler, newOTelExportHandler(serviceName, serviceVersion))
	}

	logger := slog.New(handler).With("service", serviceName, "version", serviceVersion)

	return &UnifiedLogger{
		logger:      logger,
		serviceName: serviceName,
	}
}

// InitializeUnifiedLogger creates a UnifiedLogger writing to stdout
func InitializeUnifiedLogger(config *LoggerConfig, enableOTel bool) *UnifiedLogger {
	return NewUnifiedLogger(os.Stdout, config.ServiceName, config.Level, enableOTel)
}

// Logger returns the underlying slog logger
func (ul *UnifiedLogger) Logger() *slog.Logger {
	return ul.logger
}

// ParseLevel maps a level name to slog.Level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
