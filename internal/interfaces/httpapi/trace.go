package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("pool-league/internal/interfaces/httpapi")

// Docs handlers serve static bytes; a span for them is noise.
var untracedHandlers = map[string]struct{}{
	"httpapi.Handler.OpenAPI":   {},
	"httpapi.Handler.SwaggerUI": {},
	"httpapi.Handler.Healthz":   {},
}

// startSpan opens a handler span under the otelhttp server span. Requests
// filtered out by RequestTracing carry no parent and get the parent's noop span.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() || !shouldCreateHTTPAPISpan(name) {
		return ctx, parent
	}
	return apiTracer.Start(ctx, name)
}

func shouldCreateHTTPAPISpan(name string) bool {
	if _, skip := untracedHandlers[name]; skip {
		return false
	}
	return strings.HasPrefix(name, "httpapi.Handler.")
}
