package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

const logFilePrefix = "medibot-"

var numberedFileRe = regexp.MustCompile(`^medibot-\d{4}-W\d{2}_(\d{2})\.log$`)

// RotatingLogger writes to one file per ISO week and starts a numbered file
// when the current one reaches maxFileSize
type RotatingLogger struct {
	mu          sync.Mutex
	logDir      string
	retention   time.Duration
	maxFileSize int64
	file        *os.File
	week        string
	size        int64
	now         func() time.Time
}

// NewRotatingLogger creates a rotating logger. maxFileSize 0 disables size rotation.
func NewRotatingLogger(logDir string, retentionWeeks int, maxFileSize int64) *RotatingLogger {
	return &RotatingLogger{
		logDir:      logDir,
		retention:   time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxFileSize: maxFileSize,
		now:         time.Now,
	}
}

// weekKey returns the week key in YYYY-Www format (ISO week)
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// Write appends p to the current file, rotating first when the week changed
// or p would push the file past its size limit
func (rl *RotatingLogger) Write(p []byte) (int, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	week := weekKey(rl.now())
	full := rl.maxFileSize > 0 && rl.size+int64(len(p)) > rl.maxFileSize && rl.size > 0
	if rl.file == nil || week != rl.week || full {
		if err := rl.openLocked(week, full); err != nil {
			return 0, err
		}
	}

	n, err := rl.file.Write(p)
	rl.size += int64(n)
	return n, err
}

// openLocked opens the file to write for week. forceNew skips any existing
// file for the week that still has room.
func (rl *RotatingLogger) openLocked(week string, forceNew bool) error {
	if rl.file != nil {
		rl.file.Close()
		rl.file = nil
	}

	name := rl.pickFile(week, forceNew)
	path := filepath.Join(rl.logDir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	rl.file = f
	rl.week = week
	rl.size = 0
	if info, err := f.Stat(); err == nil {
		rl.size = info.Size()
	}
	return nil
}

func (rl *RotatingLogger) pickFile(week string, forceNew bool) string {
	base := fmt.Sprintf("%s%s.log", logFilePrefix, week)
	highest, lastName, lastSize := rl.highestNumbered(week)

	if highest == 0 {
		info, err := os.Stat(filepath.Join(rl.logDir, base))
		if err != nil || (!forceNew && (rl.maxFileSize == 0 || info.Size() < rl.maxFileSize)) {
			return base
		}
	} else if !forceNew && lastSize < rl.maxFileSize {
		return lastName
	}

	return fmt.Sprintf("%s%s_%02d.log", logFilePrefix, week, highest+1)
}

// highestNumbered returns the highest sequence number used for week, with
// that file's name and size
func (rl *RotatingLogger) highestNumbered(week string) (int, string, int64) {
	matches, _ := filepath.Glob(filepath.Join(rl.logDir, fmt.Sprintf("%s%s_??.log", logFilePrefix, week)))

	var (
		highest int
		name    string
		size    int64
	)
	for _, match := range matches {
		m := numberedFileRe.FindStringSubmatch(filepath.Base(match))
		if m == nil {
			continue
		}
		num, _ := strconv.Atoi(m[1])
		if num <= highest {
			continue
		}
		highest, name, size = num, filepath.Base(match), 0
		if info, err := os.Stat(match); err == nil {
			size = info.Size()
		}
	}
	return highest, name, size
}

// CleanupOldLogs removes log files whose modification time is past retention.
// It returns the number of removed files.
func (rl *RotatingLogger) CleanupOldLogs() (int, error) {
	entries, err := os.ReadDir(rl.logDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read log directory: %w", err)
	}

	cutoff := rl.now().Add(-rl.retention)
	deleted := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, logFilePrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(rl.logDir, name)); err == nil {
			deleted++
		}
	}
	return deleted, nil
}

// Close closes the current file
func (rl *RotatingLogger) Close() error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.file == nil {
		return nil
	}
	err := rl.file.Close()
	rl.file = nil
	return err
}

// setupLogger builds a logger writing text to the console and JSON to the
// rotating file. It falls back to console only when the directory is unusable.
func setupLogger(opts Options, consoleLevel slog.Level) (*slog.Logger, *RotatingLogger) {
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}
	consoleHandler := slog.NewTextHandler(console, &slog.HandlerOptions{Level: consoleLevel})

	if opts.LogDir == "" {
		return slog.New(consoleHandler), nil
	}

	if err := os.MkdirAll(opts.LogDir, 0o755); err != nil {
		l := slog.New(consoleHandler)
		l.Error("Failed to create logs directory", "dir", opts.LogDir, "error", err)
		return l, nil
	}

	rotating := NewRotatingLogger(opts.LogDir, opts.RetentionWeeks, opts.MaxFileSize)
	rotating.mu.Lock()
	err := rotating.openLocked(weekKey(rotating.now()), false)
	rotating.mu.Unlock()
	if err != nil {
		l := slog.New(consoleHandler)
		l.Error("Failed to initialize rotating logger", "error", err)
		return l, nil
	}

	fileHandler := slog.NewJSONHandler(rotating, &slog.HandlerOptions{Level: GetFileLogLevel()})
	return slog.New(&multiHandler{handlers: []slog.Handler{consoleHandler, fileHandler}}), rotating
}

// multiHandler fans records out to every handler enabled for their level
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: next}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		next[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: next}
}
