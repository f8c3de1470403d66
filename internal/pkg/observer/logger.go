// Package observer holds the audit.Observer implementations wired in cmd/api.
package observer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/audit"
)

// Logger writes each event as one structured log line.
type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (l *Logger) Record(event audit.Event) {
	attrs := []slog.Attr{
		slog.String("event_id", event.ID),
		slog.String("action", string(event.Action)),
		slog.String("entity_type", event.EntityType),
		slog.String("entity_id", event.EntityID),
		slog.Time("occurred_at", event.OccurredAt),
	}
	if event.ActorID != "" {
		attrs = append(attrs, slog.String("actor_id", event.ActorID))
	}
	if len(event.Attributes) > 0 {
		group := make([]any, 0, len(event.Attributes))
		for k, v := range event.Attributes {
			group = append(group, slog.Any(k, v))
		}
		attrs = append(attrs, slog.Group("attributes", group...))
	}

	level := slog.LevelInfo
	if isFailure(event.Action) {
		level = slog.LevelWarn
	}
	l.logger.LogAttrs(context.Background(), level, "audit event", attrs...)
}

func isFailure(action audit.Action) bool {
	return strings.HasSuffix(string(action), "_failed")
}

// Topic is the event's domain: the action prefix before the first dot.
func Topic(action audit.Action) string {
	topic, _, _ := strings.Cut(string(action), ".")
	return topic
}
