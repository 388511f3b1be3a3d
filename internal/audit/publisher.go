package audit

import (
	"context"
	"log/slog"
)

// Publisher fans audit events out to the configured sinks.
//
// Audit here is fail-open: compliance decisions are already enforced by the
// registries themselves, so a sink failure is logged and the business
// operation proceeds.
type Publisher struct {
	sinks  []Sink
	logger *slog.Logger
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(sinks []Sink, opts ...Option) *Publisher {
	p := &Publisher{sinks: sinks}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit records the event on every sink. Never returns an error to the caller.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if p == nil {
		return
	}
	for _, sink := range p.sinks {
		if err := sink.Append(ctx, event); err != nil && p.logger != nil {
			p.logger.ErrorContext(ctx, "audit sink append failed",
				"action", event.Action,
				"subject", event.Subject,
				"error", err,
			)
		}
	}
}
