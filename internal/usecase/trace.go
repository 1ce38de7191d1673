package usecase

import (
	"context"

	"github.com/riskibarqy/matchday-engine/internal/domain/match"
	"github.com/riskibarqy/matchday-engine/internal/platform/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = tracing.New("matchday-engine/internal/usecase", nil)

func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return usecaseTracer.Start(ctx, name, attrs...)
}

func sportAttr(sport match.Sport) attribute.KeyValue {
	return attribute.String("match.sport", string(sport))
}
