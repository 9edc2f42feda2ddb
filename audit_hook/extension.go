// Package audithook bridges engine pipeline lifecycle events to an audit
// trail backend.
//
// It defines a local Recorder interface so the package does not import
// any specific audit sink directly. Callers inject a RecorderFunc adapter
// that bridges to their backend of choice at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/synthledger/engine/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin               = (*Extension)(nil)
	_ plugin.OnRunStart           = (*Extension)(nil)
	_ plugin.OnStageComplete      = (*Extension)(nil)
	_ plugin.OnAnomalyInjected    = (*Extension)(nil)
	_ plugin.OnClusterFormed      = (*Extension)(nil)
	_ plugin.OnEvaluationComplete = (*Extension)(nil)
	_ plugin.OnRunComplete        = (*Extension)(nil)
	_ plugin.OnRunFailed          = (*Extension)(nil)
)

// Recorder is the interface audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges pipeline lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{recorder: r, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// OnRunStart implements plugin.OnRunStart.
func (e *Extension) OnRunStart(ctx context.Context, runID string, seed uint64) error {
	return e.record(ctx, ActionRunStarted, SeverityInfo, OutcomeSuccess,
		ResourceRun, runID, CategoryPipeline, nil,
		"run_id", runID, "seed", seed,
	)
}

// OnStageComplete implements plugin.OnStageComplete.
func (e *Extension) OnStageComplete(ctx context.Context, stage string, durationMillis int64) error {
	return e.record(ctx, ActionStageCompleted, SeverityInfo, OutcomeSuccess,
		ResourceStage, stage, CategoryPipeline, nil,
		"stage", stage, "duration_ms", durationMillis,
	)
}

// OnAnomalyInjected implements plugin.OnAnomalyInjected.
func (e *Extension) OnAnomalyInjected(ctx context.Context, anomaly interface{}) error {
	return e.record(ctx, ActionAnomalyInjected, SeverityInfo, OutcomeSuccess,
		ResourceAnomaly, "", CategoryAnomaly, nil,
		"event", "anomaly_injected",
	)
}

// OnClusterFormed implements plugin.OnClusterFormed.
func (e *Extension) OnClusterFormed(ctx context.Context, cluster interface{}) error {
	return e.record(ctx, ActionClusterFormed, SeverityInfo, OutcomeSuccess,
		ResourceCluster, "", CategoryAnomaly, nil,
		"event", "cluster_formed",
	)
}

// OnEvaluationComplete implements plugin.OnEvaluationComplete.
func (e *Extension) OnEvaluationComplete(ctx context.Context, report interface{}) error {
	return e.record(ctx, ActionEvaluationComplete, SeverityInfo, OutcomeSuccess,
		ResourceEvaluation, "", CategoryQuality, nil,
		"event", "evaluation_complete",
	)
}

// OnRunComplete implements plugin.OnRunComplete.
func (e *Extension) OnRunComplete(ctx context.Context, summary interface{}) error {
	return e.record(ctx, ActionRunCompleted, SeverityInfo, OutcomeSuccess,
		ResourceRun, "", CategoryPipeline, nil,
		"event", "run_completed",
	)
}

// OnRunFailed implements plugin.OnRunFailed.
func (e *Extension) OnRunFailed(ctx context.Context, runErr error) error {
	return e.record(ctx, ActionRunFailed, SeverityCritical, OutcomeFailure,
		ResourceRun, "", CategoryPipeline, runErr,
		"event", "run_failed",
	)
}

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
