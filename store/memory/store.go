// Package memory is an in-memory store.Store, useful for tests and for
// single-process runs that don't need archival to survive the process.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/synthledger/engine/id"
	"github.com/synthledger/engine/store"
)

var _ store.Store = (*Store)(nil)

// Store is a sync.RWMutex-guarded map of RunRecords, keyed by run ID.
type Store struct {
	mu   sync.RWMutex
	runs map[string]*store.RunRecord
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{runs: make(map[string]*store.RunRecord)}
}

func (s *Store) SaveRun(_ context.Context, r *store.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[r.RunID.String()]; exists {
		return store.ErrRunAlreadyExists
	}
	cp := *r
	s.runs[r.RunID.String()] = &cp
	return nil
}

func (s *Store) GetRun(_ context.Context, runID id.ID) (*store.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[runID.String()]
	if !ok {
		return nil, store.ErrRunNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *Store) ListRuns(_ context.Context, opts store.ListOpts) ([]*store.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*store.RunRecord
	for _, r := range s.runs {
		if opts.Status != "" && r.Status != opts.Status {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })

	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return nil, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (s *Store) DeleteRun(_ context.Context, runID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[runID.String()]; !ok {
		return store.ErrRunNotFound
	}
	delete(s.runs, runID.String())
	return nil
}

// Migrate is a no-op: the in-memory store has no schema to create.
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping always succeeds: there is no connection to lose.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close discards every archived run.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = make(map[string]*store.RunRecord)
	return nil
}
