// Package otel provides a stub for OpenTelemetry tracing setup.
// Spans and metrics use the global providers; wiring an OTLP exporter
// is deployment configuration, not application code.
package otel

import (
	"context"
	"log/slog"
)

// ShutdownFunc is called to flush and shut down the trace provider.
type ShutdownFunc func(ctx context.Context) error

// InitTracer returns a no-op shutdown function. A deployment that wants
// exported traces installs its own TracerProvider before calling this.
func InitTracer(serviceName string) ShutdownFunc {
	slog.Info("otel: using global providers", "service", serviceName)
	return func(_ context.Context) error {
		return nil
	}
}
