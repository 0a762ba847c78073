package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the carbon store (SQLite).
var Migrations = migrate.NewGroup("carbon")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_carbon_emission_records",
			Version: "20250101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS carbon_emission_records (
    seq        INTEGER PRIMARY KEY AUTOINCREMENT,
    id         TEXT NOT NULL UNIQUE,
    account    TEXT NOT NULL,
    ts         INTEGER NOT NULL,
    amount     INTEGER NOT NULL CHECK (amount >= 0),
    category   TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_carbon_records_account_seq ON carbon_emission_records (account, seq);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS carbon_emission_records`)
				return err
			},
		},
	)
}
