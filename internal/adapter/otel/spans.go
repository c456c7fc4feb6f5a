package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "concierge"

// StartSessionSpan starts a span covering one session's lifecycle stage.
func StartSessionSpan(ctx context.Context, sessionID, userID, stage string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "session."+stage,
		trace.WithAttributes(
			attribute.String("session.id", sessionID),
			attribute.String("user.id", userID),
		),
	)
}

// StartStepSpan starts a span for one plan step execution.
func StartStepSpan(ctx context.Context, sessionID, action, capability string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "step",
		trace.WithAttributes(
			attribute.String("session.id", sessionID),
			attribute.String("step.action", action),
			attribute.String("step.capability", capability),
		),
	)
}

// StartLearnSpan starts a span for folding an outcome into a profile.
func StartLearnSpan(ctx context.Context, userID, outcomeID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "profile.learn",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("outcome.id", outcomeID),
		),
	)
}
