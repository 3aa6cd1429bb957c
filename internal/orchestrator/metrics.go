package orchestrator

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// initMetrics creates the run counters. Metric creation failures are logged
// and leave the counter nil; callers nil-check before recording.
func (s *Service) initMetrics() {
	var err error

	s.agentRuns, err = s.meter.Int64Counter(
		"vetgate.agent.runs_total",
		metric.WithDescription("Total agent invocations, labeled by agent and pass/fail"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		s.logger.Warn("failed to create agent runs counter", zap.Error(err))
	}

	s.agentDuration, err = s.meter.Float64Histogram(
		"vetgate.agent.duration_seconds",
		metric.WithDescription("Duration of individual agent invocations"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600),
	)
	if err != nil {
		s.logger.Warn("failed to create agent duration histogram", zap.Error(err))
	}

	s.escalations, err = s.meter.Int64Counter(
		"vetgate.escalations_total",
		metric.WithDescription("Modules escalated for human review"),
		metric.WithUnit("{module}"),
	)
	if err != nil {
		s.logger.Warn("failed to create escalations counter", zap.Error(err))
	}
}

func withAttrs(attrs ...attribute.KeyValue) metric.MeasurementOption {
	return metric.WithAttributes(attrs...)
}
