// Package store archives completed run provenance: the config snapshot,
// produced-record counts, evaluation report, auto-tune patches, and an
// anomaly label digest for a finished generation run. The generation
// pipeline itself stays pure and in-memory; only a run's result is
// durable, for audit and reproducibility.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/synthledger/engine/config"
	"github.com/synthledger/engine/evaluator"
	"github.com/synthledger/engine/id"
)

// Sentinel errors. ErrRunNotFound is returned by every Store
// implementation; ErrRunAlreadyExists only by the memory store (the
// postgres, sqlite and mongo stores return the driver's own error on a
// duplicate run ID).
var (
	ErrRunNotFound      = errors.New("store: run not found")
	ErrRunAlreadyExists = errors.New("store: run already exists")
)

// RunRecord is the durable record of one completed (or failed)
// generation run.
type RunRecord struct {
	RunID  id.ID
	Seed   uint64
	Status Status

	StartedAt   time.Time
	CompletedAt time.Time

	// Config is a snapshot of the configuration the run was generated
	// from, captured at run start so a later replay is reproducible even
	// if the caller's config.Config value is mutated afterward.
	Config config.Config

	EntryCount      int
	AnomalyCount    int
	ICPairCount     int
	EliminationCount int

	Report  evaluator.Report
	Patches []evaluator.ConfigPatch

	// AnomalyLabelDigest is a hex xxhash digest over the run's sorted
	// anomaly subtype:count pairs, letting a caller detect whether two
	// archived runs produced the same label set without re-walking
	// every entry.
	AnomalyLabelDigest string

	FailureReason string
}

// Status is the lifecycle state of an archived run.
type Status string

// Run statuses.
const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// ListOpts filters and paginates ListRuns.
type ListOpts struct {
	Status Status
	Limit  int
	Offset int
}

// Store is the storage interface for archived runs. Instead of
// embedding a sub-interface per concern, every method is declared
// explicitly — there is only one concern here, so the distinction
// would be pure ceremony.
type Store interface {
	SaveRun(ctx context.Context, r *RunRecord) error
	GetRun(ctx context.Context, runID id.ID) (*RunRecord, error)
	ListRuns(ctx context.Context, opts ListOpts) ([]*RunRecord, error)
	DeleteRun(ctx context.Context, runID id.ID) error

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
