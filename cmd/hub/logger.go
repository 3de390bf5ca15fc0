package main

import (
	"log/slog"
	"os"
	"strings"
)

// InitLogger installs a JSON slog handler on stderr. Unknown levels fall
// back to info.
func InitLogger(level string) {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(level)})))
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo
	}
	return l
}
