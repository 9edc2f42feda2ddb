// Package plugin provides an extensible lifecycle-hook system for the
// engine. Plugins observe pipeline stage transitions, anomaly
// injections, and run completion without the core importing their
// packages — hook parameters are passed as interface{} to avoid import
// cycles between the engine and observer packages (audit_hook,
// observability).
package plugin

import "context"

// Plugin is the base interface every plugin must implement.
type Plugin interface {
	Name() string
}

// OnRunStart is called once at the start of a pipeline run, before C1.
type OnRunStart interface {
	Plugin
	OnRunStart(ctx context.Context, runID string, seed uint64) error
}

// OnStageComplete is called when a pipeline stage completes. Only the
// ledger generator dispatches it, once per run, with stage "C4:ledgergen";
// the other stages do not.
type OnStageComplete interface {
	Plugin
	OnStageComplete(ctx context.Context, stage string, durationMillis int64) error
}

// OnEntryGenerated is called after C4 emits a journal entry.
type OnEntryGenerated interface {
	Plugin
	OnEntryGenerated(ctx context.Context, entry interface{}) error
}

// OnAnomalyInjected is called after C5 injects a labeled anomaly.
type OnAnomalyInjected interface {
	Plugin
	OnAnomalyInjected(ctx context.Context, anomaly interface{}) error
}

// OnClusterFormed is called when C5's cluster manager opens a new cluster.
type OnClusterFormed interface {
	Plugin
	OnClusterFormed(ctx context.Context, cluster interface{}) error
}

// OnEvaluationComplete is called after C6 produces its evaluation report.
type OnEvaluationComplete interface {
	Plugin
	OnEvaluationComplete(ctx context.Context, report interface{}) error
}

// OnRunComplete is called once at the end of a pipeline run with its
// summary.
type OnRunComplete interface {
	Plugin
	OnRunComplete(ctx context.Context, summary interface{}) error
}

// OnRunFailed is called when a fatal error stops a run.
type OnRunFailed interface {
	Plugin
	OnRunFailed(ctx context.Context, err error) error
}
