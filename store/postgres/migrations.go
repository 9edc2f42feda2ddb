package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the run-archival store
// (PostgreSQL).
var Migrations = migrate.NewGroup("synthledger")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_synthledger_runs",
			Version: "20250101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS synthledger_runs (
    id             TEXT PRIMARY KEY,
    seed           BIGINT NOT NULL,
    status         TEXT NOT NULL DEFAULT 'completed',
    started_at     TIMESTAMPTZ NOT NULL,
    completed_at   TIMESTAMPTZ NOT NULL,
    config         JSONB NOT NULL DEFAULT '{}',
    entry_count    INTEGER NOT NULL DEFAULT 0,
    anomaly_count  INTEGER NOT NULL DEFAULT 0,
    ic_pair_count  INTEGER NOT NULL DEFAULT 0,
    elimination_count INTEGER NOT NULL DEFAULT 0,
    report         JSONB NOT NULL DEFAULT '{}',
    patches        JSONB NOT NULL DEFAULT '[]',
    label_digest   TEXT NOT NULL DEFAULT '',
    failure_reason TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_synthledger_runs_status ON synthledger_runs (status);
CREATE INDEX IF NOT EXISTS idx_synthledger_runs_started_at ON synthledger_runs (started_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS synthledger_runs`)
				return err
			},
		},
	)
}
