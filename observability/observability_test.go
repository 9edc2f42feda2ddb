package observability

import (
	"context"
	"testing"
)

type fakeCounter struct{ count int }

func (c *fakeCounter) Inc()          { c.count++ }
func (c *fakeCounter) Add(v float64) { c.count += int(v) }

type fakeHistogram struct{ observations []float64 }

func (h *fakeHistogram) Observe(v float64) { h.observations = append(h.observations, v) }

type fakeFactory struct {
	counters   map[string]*fakeCounter
	histograms map[string]*fakeHistogram
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{
		counters:   make(map[string]*fakeCounter),
		histograms: make(map[string]*fakeHistogram),
	}
}

func (f *fakeFactory) Counter(name string) Counter {
	c := &fakeCounter{}
	f.counters[name] = c
	return c
}

func (f *fakeFactory) Histogram(name string) Histogram {
	h := &fakeHistogram{}
	f.histograms[name] = h
	return h
}

func TestNewMetricsExtensionRegistersAllMetrics(t *testing.T) {
	factory := newFakeFactory()
	ext := NewMetricsExtension(factory)

	if ext.Name() != "observability-metrics" {
		t.Errorf("expected name observability-metrics, got %s", ext.Name())
	}
	want := []string{
		"synthledger.run.started",
		"synthledger.run.completed",
		"synthledger.run.failed",
		"synthledger.journal.entries_generated",
		"synthledger.anomaly.injected",
		"synthledger.anomaly.clusters_formed",
		"synthledger.evaluation.runs",
	}
	for _, name := range want {
		if _, ok := factory.counters[name]; !ok {
			t.Errorf("expected counter %s to be registered", name)
		}
	}
	if _, ok := factory.histograms["synthledger.stage.duration_ms"]; !ok {
		t.Error("expected stage duration histogram to be registered")
	}
	if _, ok := factory.histograms["synthledger.evaluation.violation_rate"]; !ok {
		t.Error("expected evaluation violation rate histogram to be registered")
	}
}

func TestLifecycleHooksIncrementCounters(t *testing.T) {
	factory := newFakeFactory()
	ext := NewMetricsExtension(factory)
	ctx := context.Background()

	if err := ext.OnRunStart(ctx, "run-1", 7); err != nil {
		t.Fatalf("OnRunStart: %v", err)
	}
	if err := ext.OnEntryGenerated(ctx, nil); err != nil {
		t.Fatalf("OnEntryGenerated: %v", err)
	}
	if err := ext.OnEntryGenerated(ctx, nil); err != nil {
		t.Fatalf("OnEntryGenerated: %v", err)
	}
	if err := ext.OnAnomalyInjected(ctx, nil); err != nil {
		t.Fatalf("OnAnomalyInjected: %v", err)
	}
	if err := ext.OnRunComplete(ctx, nil); err != nil {
		t.Fatalf("OnRunComplete: %v", err)
	}

	if factory.counters["synthledger.run.started"].count != 1 {
		t.Errorf("expected run started count 1, got %d", factory.counters["synthledger.run.started"].count)
	}
	if factory.counters["synthledger.journal.entries_generated"].count != 2 {
		t.Errorf("expected entries generated count 2, got %d", factory.counters["synthledger.journal.entries_generated"].count)
	}
	if factory.counters["synthledger.anomaly.injected"].count != 1 {
		t.Errorf("expected anomalies injected count 1, got %d", factory.counters["synthledger.anomaly.injected"].count)
	}
	if factory.counters["synthledger.run.completed"].count != 1 {
		t.Errorf("expected run completed count 1, got %d", factory.counters["synthledger.run.completed"].count)
	}
}

func TestOnStageCompleteObservesDuration(t *testing.T) {
	factory := newFakeFactory()
	ext := NewMetricsExtension(factory)

	if err := ext.OnStageComplete(context.Background(), "journal", 125); err != nil {
		t.Fatalf("OnStageComplete: %v", err)
	}
	obs := factory.histograms["synthledger.stage.duration_ms"].observations
	if len(obs) != 1 || obs[0] != 125 {
		t.Errorf("expected single observation of 125, got %v", obs)
	}
}

func TestOnRunFailedIncrementsFailureCounter(t *testing.T) {
	factory := newFakeFactory()
	ext := NewMetricsExtension(factory)

	if err := ext.OnRunFailed(context.Background(), errTest); err != nil {
		t.Fatalf("OnRunFailed: %v", err)
	}
	if factory.counters["synthledger.run.failed"].count != 1 {
		t.Errorf("expected run failed count 1, got %d", factory.counters["synthledger.run.failed"].count)
	}
}

var errTest = testError("boom")

type testError string

func (e testError) Error() string { return string(e) }
