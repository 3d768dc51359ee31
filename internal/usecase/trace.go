package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("pool-league/internal/usecase")

// startUsecaseSpan only opens a child span; background work such as the
// reminder scheduler runs without a parent and stays untraced.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if name == "" || !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func sessionAttr(id int64) attribute.KeyValue  { return attribute.Int64("league.session_id", id) }
func divisionAttr(id int64) attribute.KeyValue { return attribute.Int64("league.division_id", id) }
func fixtureAttr(id int64) attribute.KeyValue  { return attribute.Int64("league.fixture_id", id) }
