package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the two tables this service owns. Proper migration
// tooling is intentionally out of scope; the statements are idempotent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS registrants (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			grade TEXT NOT NULL,
			address TEXT NOT NULL,
			phone TEXT NOT NULL,
			email TEXT NOT NULL,
			school TEXT NOT NULL,
			guardian_name TEXT NOT NULL,
			national_id TEXT NOT NULL,
			order_id TEXT NOT NULL,
			prev_attended TEXT NOT NULL DEFAULT 'N',
			payment_status TEXT NOT NULL DEFAULT 'paid',
			submitted_ip TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS registrants_national_id_uniq
			ON registrants (national_id)`,
		`CREATE TABLE IF NOT EXISTS visits (
			id INT PRIMARY KEY,
			count BIGINT NOT NULL DEFAULT 0
		)`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
