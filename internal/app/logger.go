package app

import (
	"io"
	"log/slog"
)

// logLevels maps the accepted --log-level names onto slog levels. Unknown
// names fall back to info; a misspelled log flag never stops a run.
var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// newLogger builds the app's logger from its validated config. The logger
// is instance-scoped; the process default is never touched.
func newLogger(appConfig *Config, outW io.Writer) *slog.Logger {
	level, ok := logLevels[appConfig.LogLevel]
	if !ok {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if appConfig.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
