// Package observability provides a metrics extension for the engine
// that records pipeline lifecycle event counts via a MetricFactory.
package observability

import (
	"context"

	"github.com/synthledger/engine/plugin"
)

// Ensure MetricsExtension implements the plugin hooks it tracks.
var (
	_ plugin.Plugin               = (*MetricsExtension)(nil)
	_ plugin.OnRunStart           = (*MetricsExtension)(nil)
	_ plugin.OnStageComplete      = (*MetricsExtension)(nil)
	_ plugin.OnEntryGenerated     = (*MetricsExtension)(nil)
	_ plugin.OnAnomalyInjected    = (*MetricsExtension)(nil)
	_ plugin.OnClusterFormed      = (*MetricsExtension)(nil)
	_ plugin.OnEvaluationComplete = (*MetricsExtension)(nil)
	_ plugin.OnRunComplete        = (*MetricsExtension)(nil)
	_ plugin.OnRunFailed          = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records pipeline-wide lifecycle metrics. Register it
// as an engine plugin to automatically track run and generation metrics.
type MetricsExtension struct {
	factory MetricFactory

	RunsStarted   Counter
	RunsCompleted Counter
	RunsFailed    Counter

	StageDuration Histogram

	EntriesGenerated Counter

	AnomaliesInjected Counter
	ClustersFormed    Counter

	EvaluationsRun          Counter
	EvaluationViolationRate Histogram
}

// NewMetricsExtension creates a MetricsExtension with the provided
// MetricFactory.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		RunsStarted:   factory.Counter("synthledger.run.started"),
		RunsCompleted: factory.Counter("synthledger.run.completed"),
		RunsFailed:    factory.Counter("synthledger.run.failed"),

		StageDuration: factory.Histogram("synthledger.stage.duration_ms"),

		EntriesGenerated: factory.Counter("synthledger.journal.entries_generated"),

		AnomaliesInjected: factory.Counter("synthledger.anomaly.injected"),
		ClustersFormed:    factory.Counter("synthledger.anomaly.clusters_formed"),

		EvaluationsRun:          factory.Counter("synthledger.evaluation.runs"),
		EvaluationViolationRate: factory.Histogram("synthledger.evaluation.violation_rate"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnRunStart implements plugin.OnRunStart.
func (m *MetricsExtension) OnRunStart(_ context.Context, _ string, _ uint64) error {
	m.RunsStarted.Inc()
	return nil
}

// OnStageComplete implements plugin.OnStageComplete.
func (m *MetricsExtension) OnStageComplete(_ context.Context, _ string, durationMillis int64) error {
	m.StageDuration.Observe(float64(durationMillis))
	return nil
}

// OnEntryGenerated implements plugin.OnEntryGenerated.
func (m *MetricsExtension) OnEntryGenerated(_ context.Context, _ interface{}) error {
	m.EntriesGenerated.Inc()
	return nil
}

// OnAnomalyInjected implements plugin.OnAnomalyInjected.
func (m *MetricsExtension) OnAnomalyInjected(_ context.Context, _ interface{}) error {
	m.AnomaliesInjected.Inc()
	return nil
}

// OnClusterFormed implements plugin.OnClusterFormed.
func (m *MetricsExtension) OnClusterFormed(_ context.Context, _ interface{}) error {
	m.ClustersFormed.Inc()
	return nil
}

// OnEvaluationComplete implements plugin.OnEvaluationComplete.
func (m *MetricsExtension) OnEvaluationComplete(_ context.Context, _ interface{}) error {
	m.EvaluationsRun.Inc()
	return nil
}

// OnRunComplete implements plugin.OnRunComplete.
func (m *MetricsExtension) OnRunComplete(_ context.Context, _ interface{}) error {
	m.RunsCompleted.Inc()
	return nil
}

// OnRunFailed implements plugin.OnRunFailed.
func (m *MetricsExtension) OnRunFailed(_ context.Context, _ error) error {
	m.RunsFailed.Inc()
	return nil
}
