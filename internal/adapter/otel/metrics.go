package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "concierge"

// Metrics holds all Concierge metric instruments.
type Metrics struct {
	SessionsStarted  metric.Int64Counter
	SessionsApproved metric.Int64Counter
	SessionsRejected metric.Int64Counter
	SessionsExpired  metric.Int64Counter
	SessionsFailed   metric.Int64Counter
	StepsExecuted    metric.Int64Counter
	StepsFailed      metric.Int64Counter
	SessionDuration  metric.Float64Histogram
	PlanConfidence   metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.SessionsStarted, err = meter.Int64Counter("concierge.sessions.started",
		metric.WithDescription("Number of sessions started"))
	if err != nil {
		return nil, err
	}

	m.SessionsApproved, err = meter.Int64Counter("concierge.sessions.approved",
		metric.WithDescription("Number of sessions approved by a human"))
	if err != nil {
		return nil, err
	}

	m.SessionsRejected, err = meter.Int64Counter("concierge.sessions.rejected",
		metric.WithDescription("Number of sessions rejected by a human"))
	if err != nil {
		return nil, err
	}

	m.SessionsExpired, err = meter.Int64Counter("concierge.sessions.expired",
		metric.WithDescription("Number of sessions whose approval window elapsed"))
	if err != nil {
		return nil, err
	}

	m.SessionsFailed, err = meter.Int64Counter("concierge.sessions.failed",
		metric.WithDescription("Number of sessions that ended in the failed stage"))
	if err != nil {
		return nil, err
	}

	m.StepsExecuted, err = meter.Int64Counter("concierge.steps.executed",
		metric.WithDescription("Number of plan steps executed"))
	if err != nil {
		return nil, err
	}

	m.StepsFailed, err = meter.Int64Counter("concierge.steps.failed",
		metric.WithDescription("Number of plan steps that failed"))
	if err != nil {
		return nil, err
	}

	m.SessionDuration, err = meter.Float64Histogram("concierge.session.duration_seconds",
		metric.WithDescription("Session duration from intake to terminal stage in seconds"))
	if err != nil {
		return nil, err
	}

	m.PlanConfidence, err = meter.Float64Histogram("concierge.plan.confidence",
		metric.WithDescription("Confidence of generated plan candidates"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
