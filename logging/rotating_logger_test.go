package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/giygas/medibot-api/config"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestWeekKey(t *testing.T) {
	got := weekKey(time.Date(2025, 10, 7, 12, 0, 0, 0, time.UTC))
	if got != "2025-W41" {
		t.Errorf("weekKey() = %s, want 2025-W41", got)
	}
}

func TestRotatingLoggerWritesWeeklyFile(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLogger(dir, 1, 0)
	rl.now = fixedClock(time.Date(2025, 10, 7, 12, 0, 0, 0, time.UTC))
	defer rl.Close()

	if _, err := rl.Write([]byte("first line\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	content, err := os.ReadFile(filepath.Join(dir, "medibot-2025-W41.log"))
	if err != nil {
		t.Fatalf("expected weekly log file: %v", err)
	}
	if !strings.Contains(string(content), "first line") {
		t.Errorf("log file content = %q", content)
	}
}

func TestRotatingLoggerSwitchesWeek(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLogger(dir, 1, 0)
	defer rl.Close()

	rl.now = fixedClock(time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC))
	rl.Write([]byte("week 40\n"))
	rl.now = fixedClock(time.Date(2025, 10, 8, 12, 0, 0, 0, time.UTC))
	rl.Write([]byte("week 41\n"))

	for _, name := range []string{"medibot-2025-W40.log", "medibot-2025-W41.log"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}

func TestRotatingLoggerSizeLimit(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLogger(dir, 1, 64)
	rl.now = fixedClock(time.Date(2025, 10, 7, 12, 0, 0, 0, time.UTC))
	defer rl.Close()

	line := []byte(strings.Repeat("x", 40) + "\n")
	for i := 0; i < 3; i++ {
		if _, err := rl.Write(line); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	for _, name := range []string{"medibot-2025-W41.log", "medibot-2025-W41_01.log", "medibot-2025-W41_02.log"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
		if info.Size() > 64 {
			t.Errorf("%s size = %d, exceeds limit", name, info.Size())
		}
	}
}

func TestRotatingLoggerReusesFileWithRoom(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "medibot-2025-W41.log")
	if err := os.WriteFile(existing, []byte("old\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rl := NewRotatingLogger(dir, 1, 1024)
	rl.now = fixedClock(time.Date(2025, 10, 7, 12, 0, 0, 0, time.UTC))
	rl.Write([]byte("new\n"))
	rl.Close()

	content, _ := os.ReadFile(existing)
	if string(content) != "old\nnew\n" {
		t.Errorf("content = %q, want append to existing file", content)
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 10, 7, 12, 0, 0, 0, time.UTC)

	old := filepath.Join(dir, "medibot-2025-W30.log")
	recent := filepath.Join(dir, "medibot-2025-W41.log")
	other := filepath.Join(dir, "notes.txt")
	for _, p := range []string{old, recent, other} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	past := now.Add(-30 * 24 * time.Hour)
	os.Chtimes(old, past, past)
	os.Chtimes(other, past, past)
	os.Chtimes(recent, now, now)

	rl := NewRotatingLogger(dir, 1, 0)
	rl.now = fixedClock(now)

	deleted, err := rl.CleanupOldLogs()
	if err != nil {
		t.Fatalf("CleanupOldLogs() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("old log file should be removed")
	}
	if _, err := os.Stat(recent); err != nil {
		t.Error("recent log file should be kept")
	}
	if _, err := os.Stat(other); err != nil {
		t.Error("non-log file should be kept")
	}
}

func TestCleanupOldLogsMissingDir(t *testing.T) {
	rl := NewRotatingLogger(filepath.Join(t.TempDir(), "missing"), 1, 0)
	if _, err := rl.CleanupOldLogs(); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestRotatingLoggerConcurrentWrites(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLogger(dir, 1, 0)
	defer rl.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				rl.Write([]byte("line\n"))
			}
		}()
	}
	wg.Wait()

	rl.mu.Lock()
	size := rl.size
	rl.mu.Unlock()
	if size != 10*50*5 {
		t.Errorf("size = %d, want %d", size, 10*50*5)
	}
}

func TestMultiHandlerFansOut(t *testing.T) {
	var quiet, loud bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&quiet, &slog.HandlerOptions{Level: slog.LevelError}),
		slog.NewTextHandler(&loud, &slog.HandlerOptions{Level: slog.LevelDebug}),
	}}
	logger := slog.New(h).With("component", "test").WithGroup("g")

	logger.Info("hello", "k", "v")

	if quiet.Len() != 0 {
		t.Errorf("error-level handler received info record: %s", quiet.String())
	}
	if !strings.Contains(loud.String(), "component=test") || !strings.Contains(loud.String(), "g.k=v") {
		t.Errorf("debug-level handler output = %s", loud.String())
	}
}

func TestInitLoggerWithOptions(t *testing.T) {
	dir := t.TempDir()
	prev := slog.Default()
	InitLoggerWithOptions(Options{
		LogDir:         dir,
		Env:            config.EnvTest,
		RetentionWeeks: 1,
		MaxFileSize:    1024 * 1024,
	})
	defer func() {
		DefaultLoggingService.Close()
		DefaultLoggingService = nil
		slog.SetDefault(prev)
	}()

	Debug("debug record")
	Info("info record")

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one log file, got %v (%v)", entries, err)
	}
	content, _ := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if !strings.Contains(string(content), "debug record") {
		t.Errorf("file sink should keep debug records, got %s", content)
	}

	if n, err := CleanupOldLogs(); err != nil || n != 0 {
		t.Errorf("CleanupOldLogs() = %d, %v", n, err)
	}
}
