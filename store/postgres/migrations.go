package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the carbon store.
var Migrations = migrate.NewGroup("carbon")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_carbon_emission_records",
			Version: "20250101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS carbon_emission_records (
    seq        BIGSERIAL PRIMARY KEY,
    id         TEXT NOT NULL UNIQUE,
    account    TEXT NOT NULL,
    ts         BIGINT NOT NULL,
    amount     BIGINT NOT NULL CHECK (amount >= 0),
    category   TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
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
