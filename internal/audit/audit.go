// Package audit records a structured entry after each successful mutation.
package audit

import (
	"context"

	"github.com/rs/zerolog"
)

// Recorder receives one entry per successful mutation. Implementations must
// not fail the calling operation.
type Recorder interface {
	Record(ctx context.Context, action string, fields map[string]any)
}

// Log writes audit entries through zerolog.
type Log struct {
	logger zerolog.Logger
}

func NewLog(logger zerolog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Record(ctx context.Context, action string, fields map[string]any) {
	l.logger.Info().Fields(fields).Msg(action)
}

// Nop discards all entries.
type Nop struct{}

func (Nop) Record(context.Context, string, map[string]any) {}
