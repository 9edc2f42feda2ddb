package audithook

import (
	"context"
	"errors"
	"testing"
)

func TestRecordInvokesRecorder(t *testing.T) {
	var captured *AuditEvent
	rec := RecorderFunc(func(ctx context.Context, event *AuditEvent) error {
		captured = event
		return nil
	})
	ext := New(rec)

	if err := ext.OnRunStart(context.Background(), "run-1", 42); err != nil {
		t.Fatalf("OnRunStart: %v", err)
	}
	if captured == nil {
		t.Fatal("expected recorder to be called")
	}
	if captured.Action != ActionRunStarted {
		t.Errorf("expected action %s, got %s", ActionRunStarted, captured.Action)
	}
}

func TestDisabledActionsAreSkipped(t *testing.T) {
	called := false
	rec := RecorderFunc(func(ctx context.Context, event *AuditEvent) error {
		called = true
		return nil
	})
	ext := New(rec, WithDisabledActions(ActionRunStarted))

	if err := ext.OnRunStart(context.Background(), "run-1", 42); err != nil {
		t.Fatalf("OnRunStart: %v", err)
	}
	if called {
		t.Error("expected disabled action to be skipped")
	}
}

func TestOnRunFailedRecordsReason(t *testing.T) {
	var captured *AuditEvent
	rec := RecorderFunc(func(ctx context.Context, event *AuditEvent) error {
		captured = event
		return nil
	})
	ext := New(rec)

	if err := ext.OnRunFailed(context.Background(), errors.New("boom")); err != nil {
		t.Fatalf("OnRunFailed: %v", err)
	}
	if captured.Reason != "boom" {
		t.Errorf("expected reason 'boom', got %q", captured.Reason)
	}
	if captured.Severity != SeverityCritical {
		t.Errorf("expected critical severity, got %s", captured.Severity)
	}
}
