package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/pesawallet/wallet-ledger/internal/config"
)

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// NewLogger builds the JSON logger both binaries share. Unknown level
// strings fall back to info; source locations are added only at debug.
func NewLogger(cfg *config.Config) *slog.Logger {
	level, ok := levels[strings.ToLower(cfg.Logging.Level)]
	if !ok {
		level = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	})

	logger := slog.New(handler)
	logger.Info("logger initialized", "level", level)

	return logger
}
