package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelBasedMuxHandler writes every enabled record to stdout and mirrors
// records at fileLevel and above into the file handler.
type LevelBasedMuxHandler struct {
	stdoutHandler slog.Handler
	fileHandler   slog.Handler
	fileLevel     slog.Level
}

type LoggerWithFile struct {
	Logger  *slog.Logger
	LogFile io.Closer
}

func NewLevelBasedMuxHandler(stdout, file io.Writer, level slog.Level) *LevelBasedMuxHandler {
	fileLevel := max(level, slog.LevelInfo)
	return &LevelBasedMuxHandler{
		stdoutHandler: slog.NewJSONHandler(stdout, &slog.HandlerOptions{
			Level: level,
		}),
		fileHandler: slog.NewJSONHandler(file, &slog.HandlerOptions{
			Level:     fileLevel,
			AddSource: true,
		}),
		fileLevel: fileLevel,
	}
}

func (h *LevelBasedMuxHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.stdoutHandler.Enabled(ctx, level) || h.fileHandler.Enabled(ctx, level)
}

func (h *LevelBasedMuxHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.fileLevel {
		if err := h.fileHandler.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}

	if !h.stdoutHandler.Enabled(ctx, r.Level) {
		return nil
	}
	return h.stdoutHandler.Handle(ctx, r)
}

func (h *LevelBasedMuxHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LevelBasedMuxHandler{
		stdoutHandler: h.stdoutHandler.WithAttrs(attrs),
		fileHandler:   h.fileHandler.WithAttrs(attrs),
		fileLevel:     h.fileLevel,
	}
}

func (h *LevelBasedMuxHandler) WithGroup(name string) slog.Handler {
	return &LevelBasedMuxHandler{
		stdoutHandler: h.stdoutHandler.WithGroup(name),
		fileHandler:   h.fileHandler.WithGroup(name),
		fileLevel:     h.fileLevel,
	}
}

// NewLoggerWithFile logs to stdout and to a size-rotated file.
func NewLoggerWithFile(fileName, level string) (*LoggerWithFile, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	file := &lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}

	handler := NewLevelBasedMuxHandler(os.Stdout, file, lvl)
	return &LoggerWithFile{
		Logger:  slog.New(handler),
		LogFile: file,
	}, nil
}

func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}
