// Package logging installs the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the name of the rotating log file inside Config.Dir.
const FileName = "stock-forecast.log"

// Config controls the log level and the optional file sink.
type Config struct {
	Level slog.Level
	Dir   string // empty disables the file sink
}

// LoadConfig reads LOG_LEVEL and LOG_DIR.
func LoadConfig() Config {
	return Config{
		Level: ParseLevel(os.Getenv("LOG_LEVEL")),
		Dir:   os.Getenv("LOG_DIR"),
	}
}

// ParseLevel maps debug, info, warn and error to slog levels. Unknown values mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Init sets the default slog logger. Records go to stderr and, with Dir set,
// to a rotating file. The format is text only when stderr is a terminal and
// no file sink is attached. The returned Closer closes the file sink.
func Init(cfg Config) (io.Closer, error) {
	fd := os.Stderr.Fd()
	text := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	var (
		out    io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory %q: %w", cfg.Dir, err)
		}
		file := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Dir, FileName),
			MaxSize:    16, // megabytes
			MaxBackups: 8,
			MaxAge:     30, // days
			Compress:   true,
		}
		out = io.MultiWriter(os.Stderr, file)
		closer = file
		text = false
	}

	slog.SetDefault(New(out, cfg.Level, !text))
	return closer, nil
}

// New builds a logger writing JSON or text records to w.
func New(w io.Writer, level slog.Level, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
