// Package logger is the process-wide structured logger of gridacct.
//
// It wraps log/slog behind package-level helpers. The level can change at
// runtime (config reload) without rebuilding the handler; the output and
// format are swapped under a lock.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levels = [...]struct {
	name string
	slog slog.Level
}{
	LevelDebug: {"DEBUG", slog.LevelDebug},
	LevelInfo:  {"INFO", slog.LevelInfo},
	LevelWarn:  {"WARN", slog.LevelWarn},
	LevelError: {"ERROR", slog.LevelError},
}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levels[l].name
}

func parseLevel(s string) (Level, bool) {
	s = strings.ToUpper(s)
	for l, def := range levels {
		if def.name == s {
			return Level(l), true
		}
	}
	return 0, false
}

// Config holds logger configuration.
type Config struct {
	Level  string // DEBUG, INFO, WARN, ERROR
	Format string // text, json
	Output string // stdout, stderr, or file path
}

// sinkState is where and how records are written.
type sinkState struct {
	out    io.Writer
	file   *os.File // non-nil when out is a log file opened by Init
	color  bool
	format string
}

var (
	levelVar slog.LevelVar

	mu      sync.RWMutex
	sink    = sinkState{out: os.Stdout, color: isTerminal(os.Stdout.Fd()), format: "text"}
	slogger *slog.Logger
)

func init() {
	levelVar.Set(slog.LevelInfo)
	reconfigure()
}

// CurrentLevel returns the active minimum level.
func CurrentLevel() Level {
	switch lvl := levelVar.Level(); {
	case lvl <= slog.LevelDebug:
		return LevelDebug
	case lvl <= slog.LevelInfo:
		return LevelInfo
	case lvl <= slog.LevelWarn:
		return LevelWarn
	default:
		return LevelError
	}
}

// reconfigure rebuilds the handler from the current sink.
func reconfigure() {
	mu.Lock()
	defer mu.Unlock()

	opts := &slog.HandlerOptions{Level: &levelVar}
	var h slog.Handler
	if sink.format == "json" {
		h = slog.NewJSONHandler(sink.out, opts)
	} else {
		h = NewColorTextHandler(sink.out, opts, sink.color)
	}
	slogger = slog.New(h)
}

// Init applies cfg. Empty fields keep their current value. Output is
// "stdout", "stderr" or a file path opened for append.
func Init(cfg Config) error {
	if cfg.Output != "" {
		out, file, color, err := openOutput(cfg.Output)
		if err != nil {
			return err
		}
		mu.Lock()
		if sink.file != nil {
			_ = sink.file.Close()
		}
		sink.out, sink.file, sink.color = out, file, color
		mu.Unlock()
	}

	if cfg.Level != "" {
		SetLevel(cfg.Level)
	}
	if cfg.Format != "" {
		SetFormat(cfg.Format)
	}
	reconfigure()
	return nil
}

func openOutput(name string) (io.Writer, *os.File, bool, error) {
	switch strings.ToLower(name) {
	case "stdout":
		return os.Stdout, nil, isTerminal(os.Stdout.Fd()), nil
	case "stderr":
		return os.Stderr, nil, isTerminal(os.Stderr.Fd()), nil
	}
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to open log file %q: %w", name, err)
	}
	return f, f, false, nil
}

// InitWithWriter sends output to w. Used by tests.
func InitWithWriter(w io.Writer, level, format string, enableColor bool) {
	mu.Lock()
	sink.out, sink.file, sink.color = w, nil, enableColor
	mu.Unlock()

	if level != "" {
		SetLevel(level)
	}
	if format != "" {
		SetFormat(format)
	}
	reconfigure()
}

// SetLevel sets the minimum level. Unknown names are ignored.
func SetLevel(level string) {
	if l, ok := parseLevel(level); ok {
		levelVar.Set(levels[l].slog)
	}
}

// SetFormat switches between "text" and "json". Unknown names are ignored.
func SetFormat(format string) {
	format = strings.ToLower(format)
	if format != "text" && format != "json" {
		return
	}
	mu.Lock()
	changed := sink.format != format
	sink.format = format
	mu.Unlock()
	if changed {
		reconfigure()
	}
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return slogger
}

func logAt(ctx context.Context, l Level, msg string, args []any) {
	lvl := levels[l].slog
	if lvl < levelVar.Level() {
		return
	}
	current().Log(ctx, lvl, msg, FromContext(ctx).prepend(args)...)
}

// Debug logs key/value pairs at debug level.
func Debug(msg string, args ...any) { logAt(context.Background(), LevelDebug, msg, args) }

// Info logs key/value pairs at info level.
func Info(msg string, args ...any) { logAt(context.Background(), LevelInfo, msg, args) }

// Warn logs key/value pairs at warn level.
func Warn(msg string, args ...any) { logAt(context.Background(), LevelWarn, msg, args) }

// Error logs key/value pairs at error level.
func Error(msg string, args ...any) { logAt(context.Background(), LevelError, msg, args) }

// DebugCtx is Debug with the LogContext fields of ctx prepended.
func DebugCtx(ctx context.Context, msg string, args ...any) { logAt(ctx, LevelDebug, msg, args) }

// InfoCtx is Info with the LogContext fields of ctx prepended.
func InfoCtx(ctx context.Context, msg string, args ...any) { logAt(ctx, LevelInfo, msg, args) }

// WarnCtx is Warn with the LogContext fields of ctx prepended.
func WarnCtx(ctx context.Context, msg string, args ...any) { logAt(ctx, LevelWarn, msg, args) }

// ErrorCtx is Error with the LogContext fields of ctx prepended.
func ErrorCtx(ctx context.Context, msg string, args ...any) { logAt(ctx, LevelError, msg, args) }

// With returns a logger with pre-bound attributes.
func With(args ...any) *slog.Logger {
	return current().With(args...)
}

// Duration returns the milliseconds elapsed since start.
func Duration(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
