package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/giygas/medibot-api/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseLogLevel(tt.input)
			if got != tt.expected {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGetConsoleLogLevel(t *testing.T) {
	tests := []struct {
		name        string
		env         config.Environment
		logLevelStr string
		verbose     bool
		expected    slog.Level
	}{
		{"dev defaults to info", config.EnvDevelopment, "", false, slog.LevelInfo},
		{"test quiet defaults to error", config.EnvTest, "", false, slog.LevelError},
		{"test verbose defaults to info", config.EnvTest, "", true, slog.LevelInfo},
		{"prod defaults to warn", config.EnvProduction, "", false, slog.LevelWarn},
		{"staging defaults to warn", config.EnvStaging, "", false, slog.LevelWarn},
		{"prod with debug override", config.EnvProduction, "debug", false, slog.LevelDebug},
		{"dev with error override", config.EnvDevelopment, "error", false, slog.LevelError},
		{"test with debug override (ignored)", config.EnvTest, "debug", false, slog.LevelError},
		{"test with debug override (ignored) verbose", config.EnvTest, "debug", true, slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetConsoleLogLevel(tt.env, tt.logLevelStr, tt.verbose)
			if got != tt.expected {
				t.Errorf("GetConsoleLogLevel(%v, %q, %v) = %v, want %v", tt.env, tt.logLevelStr, tt.verbose, got, tt.expected)
			}
		})
	}
}

func TestGetFileLogLevel(t *testing.T) {
	got := GetFileLogLevel()
	if got != slog.LevelDebug {
		t.Errorf("GetFileLogLevel() = %v, want %v", got, slog.LevelDebug)
	}
}

func TestInitLoggerWithOptionsConsoleOnly(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithOptions(Options{Env: config.EnvDevelopment, Level: "warn", Console: &buf})
	t.Cleanup(func() { DefaultLoggingService = nil })

	Info("hidden")
	Warn("oracle unavailable", "mode", "rest")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "oracle unavailable") || !strings.Contains(out, "mode=rest") {
		t.Errorf("warn record missing from console: %q", out)
	}

	if n, err := CleanupOldLogs(); n != 0 || err != nil {
		t.Errorf("CleanupOldLogs() = %d, %v without a log file", n, err)
	}
}

func TestInitLoggerWithOptionsWritesFile(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	InitLoggerWithOptions(Options{
		LogDir:         dir,
		Env:            config.EnvDevelopment,
		RetentionWeeks: 1,
		MaxFileSize:    1024 * 1024,
		Console:        &buf,
	})

	Debug("resolved from knowledge base", "drug", "paracetamol")
	DefaultLoggingService.Close()
	DefaultLoggingService = nil

	matches, _ := filepath.Glob(filepath.Join(dir, logFilePrefix+"*.log"))
	if len(matches) != 1 {
		t.Fatalf("expected one log file, got %v", matches)
	}
	content, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), `"drug":"paracetamol"`) {
		t.Errorf("debug record missing from file: %s", content)
	}
	if strings.Contains(buf.String(), "paracetamol") {
		t.Errorf("debug record should not reach the info console: %q", buf.String())
	}
}

func TestWithAttachesAttributes(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithOptions(Options{Env: config.EnvDevelopment, Console: &buf})
	t.Cleanup(func() { DefaultLoggingService = nil })

	With("component", "resolver").Info("cache miss")
	if !strings.Contains(buf.String(), "component=resolver") {
		t.Errorf("attribute missing: %q", buf.String())
	}
}

func TestInitLoggerUsesDevelopmentDefaults(t *testing.T) {
	dir := t.TempDir()
	InitLogger(dir)
	t.Cleanup(func() {
		DefaultLoggingService.Close()
		DefaultLoggingService = nil
	})

	if DefaultLoggingService == nil || DefaultLoggingService.rotating == nil {
		t.Fatal("expected a file-backed logging service")
	}
	if got := DefaultLoggingService.rotating.maxFileSize; got != 100*1024*1024 {
		t.Errorf("maxFileSize = %d, want 100MB", got)
	}
}
