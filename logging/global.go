package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/giygas/medibot-api/config"
)

// LoggingService owns the process logger and the rotating file it writes to
type LoggingService struct {
	Logger   *slog.Logger
	rotating *RotatingLogger
}

var DefaultLoggingService *LoggingService

// Options configures InitLoggerWithOptions
type Options struct {
	LogDir         string
	Env            config.Environment
	Level          string // console level override, empty for the environment default
	RetentionWeeks int
	MaxFileSize    int64
	Verbose        bool      // only consulted in the test environment
	Console        io.Writer // console sink, stdout when nil
}

// InitLogger initializes the global logger with development defaults
func InitLogger(logDir string) {
	InitLoggerWithOptions(Options{
		LogDir:         logDir,
		Env:            config.EnvDevelopment,
		RetentionWeeks: 4,
		MaxFileSize:    100 * 1024 * 1024,
	})
}

// InitLoggerFromConfig initializes the global logger from the loaded configuration
func InitLoggerFromConfig(cfg *config.Config) {
	InitLoggerWithOptions(Options{
		LogDir:         cfg.LogDir,
		Env:            cfg.Env,
		Level:          cfg.LogLevel,
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
		Verbose:        os.Getenv("VERBOSE") != "",
	})
}

// InitLoggerWithOptions replaces the global logger. A previously opened log
// file is closed.
func InitLoggerWithOptions(opts Options) {
	if DefaultLoggingService != nil {
		DefaultLoggingService.Close()
	}

	consoleLevel := GetConsoleLogLevel(opts.Env, opts.Level, opts.Verbose)
	logger, rotating := setupLogger(opts, consoleLevel)
	DefaultLoggingService = &LoggingService{Logger: logger, rotating: rotating}
	slog.SetDefault(logger)
}

// Close releases the log file, if any
func (s *LoggingService) Close() {
	if s == nil || s.rotating == nil {
		return
	}
	if err := s.rotating.Close(); err != nil {
		slog.Warn("Failed to close log file", "error", err)
	}
	s.rotating = nil
}

// CleanupOldLogs removes rotated files past retention. It is a no-op when
// the logger writes to the console only.
func CleanupOldLogs() (int, error) {
	if DefaultLoggingService == nil || DefaultLoggingService.rotating == nil {
		return 0, nil
	}
	return DefaultLoggingService.rotating.CleanupOldLogs()
}

// GetConsoleLogLevel picks the console level. Tests stay quiet unless run
// verbosely, and an explicit level wins everywhere else.
func GetConsoleLogLevel(env config.Environment, logLevel string, verbose bool) slog.Level {
	if env == config.EnvTest {
		if verbose {
			return slog.LevelInfo
		}
		return slog.LevelError
	}

	if logLevel != "" {
		return parseLogLevel(logLevel)
	}

	switch env {
	case config.EnvProduction, config.EnvStaging:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// GetFileLogLevel returns the file log level. Files always keep debug records.
func GetFileLogLevel() slog.Level {
	return slog.LevelDebug
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

func logger() *slog.Logger {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		return slog.Default()
	}
	return DefaultLoggingService.Logger
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	logger().Info(msg, args...)
}

func Error(msg string, args ...any) {
	logger().Error(msg, args...)
}

func Warn(msg string, args ...any) {
	logger().Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	logger().Debug(msg, args...)
}

// With returns the global logger with args attached to every record
func With(args ...any) *slog.Logger {
	return logger().With(args...)
}
