package httpapi

import (
	"context"
	"strings"

	"github.com/riskibarqy/matchday-engine/internal/platform/tracing"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = tracing.New("matchday-engine/internal/interfaces/httpapi", shouldCreateHTTPAPISpan)

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return apiTracer.Start(ctx, name)
}

// Only handler entry points get their own span. Middleware and response
// helpers run inside the otelhttp or handler span.
func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}
