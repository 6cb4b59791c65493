package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the global logger. Packages log through it directly; Init must be
// called once during startup. Before Init, Log is a no-op logger so tests
// of leaf packages need no setup.
var Log = zap.NewNop()

// Init configures the global logger. level is one of debug/info/warn/error
// (default info); format is "json" or "console" (default console). The
// STOCKDB_LOG_LEVEL environment variable wins over the level argument so
// tests and deployments can override config.
func Init(level, format string) {
	lvl := strings.ToLower(strings.TrimSpace(os.Getenv("STOCKDB_LOG_LEVEL")))
	if lvl == "" {
		lvl = strings.ToLower(strings.TrimSpace(level))
	}
	var zl zapcore.Level
	switch lvl {
	case "debug":
		zl = zapcore.DebugLevel
	case "warn", "warning":
		zl = zapcore.WarnLevel
	case "error":
		zl = zapcore.ErrorLevel
	default:
		zl = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if strings.ToLower(strings.TrimSpace(format)) == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stdout), zl)
	Log = zap.New(core)
}

// Sync flushes buffered log entries; safe to call at shutdown.
func Sync() {
	_ = Log.Sync()
}
