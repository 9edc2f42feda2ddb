package memory

import (
	"context"
	"testing"
	"time"

	"github.com/synthledger/engine/config"
	"github.com/synthledger/engine/id"
	"github.com/synthledger/engine/store"
)

func sampleRecord() *store.RunRecord {
	return &store.RunRecord{
		RunID:       id.NewRunID(),
		Seed:        42,
		Status:      store.StatusCompleted,
		StartedAt:   time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		CompletedAt: time.Date(2025, time.January, 1, 0, 1, 0, 0, time.UTC),
		Config:      config.Default(),
		EntryCount:  120,
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := New()
	ctx := context.Background()
	r := sampleRecord()

	if err := s.SaveRun(ctx, r); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := s.GetRun(ctx, r.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.RunID != r.RunID || got.EntryCount != r.EntryCount {
		t.Fatalf("got %+v, want %+v", got, r)
	}
}

func TestSaveRunRejectsDuplicate(t *testing.T) {
	s := New()
	ctx := context.Background()
	r := sampleRecord()

	if err := s.SaveRun(ctx, r); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := s.SaveRun(ctx, r); err != store.ErrRunAlreadyExists {
		t.Fatalf("expected ErrRunAlreadyExists, got %v", err)
	}
}

func TestGetRunNotFound(t *testing.T) {
	s := New()
	if _, err := s.GetRun(context.Background(), id.NewRunID()); err != store.ErrRunNotFound {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestListRunsFiltersAndPaginates(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		r := sampleRecord()
		r.RunID = id.NewRunID()
		r.StartedAt = r.StartedAt.Add(time.Duration(i) * time.Hour)
		if i%2 == 0 {
			r.Status = store.StatusFailed
		}
		if err := s.SaveRun(ctx, r); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	completed, err := s.ListRuns(ctx, store.ListOpts{Status: store.StatusCompleted})
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(completed) != 2 {
		t.Fatalf("expected 2 completed runs, got %d", len(completed))
	}

	all, err := s.ListRuns(ctx, store.ListOpts{Limit: 2})
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected limit=2 to yield 2 runs, got %d", len(all))
	}
}

func TestDeleteRun(t *testing.T) {
	s := New()
	ctx := context.Background()
	r := sampleRecord()

	if err := s.SaveRun(ctx, r); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := s.DeleteRun(ctx, r.RunID); err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}
	if _, err := s.GetRun(ctx, r.RunID); err != store.ErrRunNotFound {
		t.Fatalf("expected ErrRunNotFound after delete, got %v", err)
	}
}
