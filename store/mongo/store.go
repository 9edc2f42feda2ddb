// Package mongo implements store.Store using MongoDB via Grove ORM.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/synthledger/engine/id"
	ledgerstore "github.com/synthledger/engine/store"
)

const colRuns = "synthledger_runs"

var _ ledgerstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{db: db, mdb: mongodriver.Unwrap(db)}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for the run-archival collection.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "started_at", Value: 1}}},
	}
	if _, err := s.mdb.Collection(colRuns).Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("synthledger/mongo: migrate %s indexes: %w", colRuns, err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) SaveRun(ctx context.Context, r *ledgerstore.RunRecord) error {
	m, err := toRunModel(r)
	if err != nil {
		return err
	}
	_, err = s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("synthledger/mongo: save run: %w", err)
	}
	return nil
}

func (s *Store) GetRun(ctx context.Context, runID id.ID) (*ledgerstore.RunRecord, error) {
	var m runModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": runID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, ledgerstore.ErrRunNotFound
		}
		return nil, fmt.Errorf("synthledger/mongo: get run: %w", err)
	}
	return fromRunModel(&m)
}

func (s *Store) ListRuns(ctx context.Context, opts ledgerstore.ListOpts) ([]*ledgerstore.RunRecord, error) {
	var models []runModel

	filter := bson.M{}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "started_at", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("synthledger/mongo: list runs: %w", err)
	}

	out := make([]*ledgerstore.RunRecord, len(models))
	for i := range models {
		r, err := fromRunModel(&models[i])
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func (s *Store) DeleteRun(ctx context.Context, runID id.ID) error {
	res, err := s.mdb.NewDelete((*runModel)(nil)).
		Filter(bson.M{"_id": runID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("synthledger/mongo: delete run: %w", err)
	}
	if res.DeletedCount() == 0 {
		return ledgerstore.ErrRunNotFound
	}
	return nil
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
