package audit

import (
	"context"
	"log/slog"
)

// SlogSink writes every event as one structured log record.
type SlogSink struct {
	logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{logger: logger.With("component", "audit")}
}

func (s *SlogSink) Name() string { return "slog" }

func (s *SlogSink) Record(ctx context.Context, ev Event) error {
	attrs := []any{
		"action", ev.Action,
		"entity", ev.Entity,
		"workshop_id", ev.WorkshopID.String(),
		"at", ev.At,
	}
	if ev.EntityID != nil {
		attrs = append(attrs, "entity_id", ev.EntityID.String())
	}
	if len(ev.Metadata) > 0 {
		attrs = append(attrs, "metadata", ev.Metadata)
	}

	s.logger.InfoContext(ctx, "audit event", attrs...)
	return nil
}
