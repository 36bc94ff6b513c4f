package timing

import (
	"context"
	"log/slog"
)

// LogEmitter emits timing records through a structured logger.
type LogEmitter struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLogEmitter creates a LogEmitter that logs at info level. A nil logger
// resolves to slog.Default at emission time.
func NewLogEmitter(logger *slog.Logger) *LogEmitter {
	return NewLogEmitterAtLevel(logger, slog.LevelInfo)
}

// NewLogEmitterAtLevel creates a LogEmitter that logs at the given level.
func NewLogEmitterAtLevel(logger *slog.Logger, level slog.Level) *LogEmitter {
	return &LogEmitter{
		logger: logger,
		level:  level,
	}
}

// Emit logs the rendered message with the record's fields attached.
func (e *LogEmitter) Emit(rec Record) {
	logger := e.logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.Log(context.Background(), e.level, rec.Message,
		"fn", rec.Fn,
		"cost", rec.Value,
		"unit", rec.Unit.Suffix(),
		"id", rec.ID,
	)
}
