package observability

import (
	"context"

	"github.com/getsentry/sentry-go"
)

// Span wraps a sentry span. Without an initialized sentry client the span is
// never sent, so callers can start spans unconditionally.
type Span struct {
	span *sentry.Span
}

func StartSpan(ctx context.Context, op string) (context.Context, *Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	span := sentry.StartSpan(ctx, op)
	return span.Context(), &Span{span: span}
}

// SetData attaches a key/value pair to the span.
func (s *Span) SetData(key string, value any) {
	if s == nil || s.span == nil {
		return
	}
	s.span.SetData(key, value)
}

// Fail marks the span as failed.
func (s *Span) Fail() {
	if s == nil || s.span == nil {
		return
	}
	s.span.Status = sentry.SpanStatusInternalError
}

func (s *Span) End() {
	if s == nil || s.span == nil {
		return
	}
	s.span.Finish()
}
