package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/olympiadhq/regservice/internal/observability"
)

// VisitsRepo holds the singleton home-page counter.
type VisitsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewVisitsRepo(pool *pgxpool.Pool, prom *observability.Prom) *VisitsRepo {
	return &VisitsRepo{
		pool: pool,
		prom: prom,
	}
}

func (repo *VisitsRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

// Increment bumps the counter in a single upsert, so concurrent loads never
// lose updates and the row is created lazily on first hit.
func (repo *VisitsRepo) Increment(ctx context.Context) (int64, error) {
	var count int64

	err := repo.observe("visits.increment", func() error {
		return repo.pool.QueryRow(ctx, `
			INSERT INTO visits (id, count) VALUES (1, 1)
			ON CONFLICT (id) DO UPDATE SET count = visits.count + 1
			RETURNING count
		`).Scan(&count)
	})

	return count, err
}

func (repo *VisitsRepo) Current(ctx context.Context) (int64, error) {
	var count int64

	err := repo.observe("visits.current", func() error {
		return repo.pool.QueryRow(ctx, `SELECT count FROM visits WHERE id = 1`).Scan(&count)
	})

	if errors.Is(err, pgx.ErrNoRows) {
		// nobody has hit the home page yet
		return 0, nil
	}

	return count, err
}
