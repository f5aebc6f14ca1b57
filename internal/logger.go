package internal

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// NewLogger builds the process logger. Production writes JSON with UTC
// timestamps for the log shipper; every other env writes text. An unknown
// level falls back to info.
func NewLogger(w io.Writer, env, level, release string) *slog.Logger {
	lvl := new(slog.LevelVar)
	if level != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
			slog.Default().Warn("unknown LOG_LEVEL, using info", "value", level)
		}
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler
	if env == "prod" {
		opts.ReplaceAttr = utcTime
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	return slog.New(h).With(
		slog.String("service", "bookworld"),
		slog.String("release", release),
	)
}

func utcTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
		return slog.String(slog.TimeKey, a.Value.Time().UTC().Format(time.RFC3339Nano))
	}
	return a
}
