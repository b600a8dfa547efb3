// Package debug provides category-gated debug logging on top of log/slog.
//
// Categories select WHAT is logged (AICOGCHAT_DEBUG or config), the level
// selects HOW MUCH (AICOGCHAT_LOG_LEVEL or config). At TRACE, payloads are
// logged in full instead of truncated.
//
//	debug.Log("providers", "request", "url", url, "model", model)
//	debug.Payload("streaming", "stream-data", data)
//
// Categories: providers, streaming, storage, config, all.
package debug

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// LevelTrace is below slog.LevelDebug for maximum verbosity.
const LevelTrace = slog.LevelDebug - 4

// payloadLimit bounds payloads logged below TRACE.
const payloadLimit = 512

// Options configures Init.
type Options struct {
	// Categories is a comma separated list of enabled categories.
	Categories string

	// Level is one of TRACE, DEBUG, INFO, WARN, ERROR.
	Level string

	// Format is "text" (default) or "json".
	Format string

	// Output defaults to os.Stderr.
	Output io.Writer
}

var categories atomic.Pointer[map[string]bool]

func init() {
	m := parseCategories(os.Getenv("AICOGCHAT_DEBUG"))
	categories.Store(&m)
}

// Init installs the default slog logger and the enabled categories.
// Environment variables take precedence over opts.
func Init(opts Options) {
	cats := os.Getenv("AICOGCHAT_DEBUG")
	if cats == "" {
		cats = opts.Categories
	}
	m := parseCategories(cats)
	categories.Store(&m)

	level := os.Getenv("AICOGCHAT_LOG_LEVEL")
	if level == "" {
		level = opts.Level
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var h slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		h = slog.NewJSONHandler(out, handlerOpts)
	} else {
		h = slog.NewTextHandler(out, handlerOpts)
	}
	slog.SetDefault(slog.New(h))
}

// Enabled reports whether the category is active.
func Enabled(category string) bool {
	m := *categories.Load()
	return m["all"] || m[category]
}

// Log emits a debug message if the category is enabled.
func Log(category, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Debug(msg, append([]any{"debug", category}, args...)...)
}

// Payload logs a wire payload for the category: truncated at DEBUG,
// complete at TRACE.
func Payload(category, msg, payload string) {
	if !Enabled(category) {
		return
	}
	if slog.Default().Enabled(context.Background(), LevelTrace) {
		slog.Log(context.Background(), LevelTrace, msg, "debug", category, "data", payload)
		return
	}
	slog.Debug(msg, "debug", category, "data", Truncate(payload, payloadLimit))
}

// ParseLevel converts a level string to a slog.Level. Unknown values map
// to INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Truncate returns s cut to maxLen bytes, with "..." appended if cut.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func parseCategories(s string) map[string]bool {
	m := make(map[string]bool)
	for _, cat := range strings.Split(s, ",") {
		cat = strings.TrimSpace(strings.ToLower(cat))
		if cat != "" {
			m[cat] = true
		}
	}
	return m
}
