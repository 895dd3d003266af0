package logger

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// Log is the process-wide logger. It starts out as a plain JSON logger at
// info level so that anything logged before Init runs still lands
// somewhere structured; Init swaps in the real handler once startup flags
// are parsed.
var Log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

// Init points Log (and slog's package default) at a handler appropriate
// for level and output mode: JSON for machine consumption, or tint's
// colorized writer for a human at a terminal.
func Init(level slog.Level, jsonOutput bool) {
	Log = slog.New(newHandler(level, jsonOutput))
	slog.SetDefault(Log)
}

func newHandler(level slog.Level, jsonOutput bool) slog.Handler {
	if jsonOutput {
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	return tint.NewHandler(os.Stdout, &tint.Options{Level: level, TimeFormat: "15:04:05"})
}

func Debug(msg string, args ...any) { Log.Debug(msg, args...) }
func Info(msg string, args ...any)  { Log.Info(msg, args...) }
func Warn(msg string, args ...any)  { Log.Warn(msg, args...) }
func Error(msg string, args ...any) { Log.Error(msg, args...) }

func With(args ...any) *slog.Logger {
	return Log.With(args...)
}

// WithRequestID returns a logger that tags every record with the given
// request id, for correlating a dispatch's log lines across its lifetime.
func WithRequestID(requestID string) *slog.Logger {
	return Log.With("request_id", requestID)
}
