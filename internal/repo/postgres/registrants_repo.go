package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/olympiadhq/regservice/internal/domain/registrant"
	"github.com/olympiadhq/regservice/internal/observability"
)

type RegistrantsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewRegistrantsRepo(pool *pgxpool.Pool, prom *observability.Prom) *RegistrantsRepo {
	return &RegistrantsRepo{
		pool: pool,
		prom: prom,
	}
}

func (repo *RegistrantsRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create inserts a registrant inside its own transaction so a failed insert
// leaves nothing behind.
func (repo *RegistrantsRepo) Create(ctx context.Context, r registrant.Registrant) (err error) {
	tx, err := repo.pool.BeginTx(ctx, pgx.TxOptions{})

	if err != nil {
		return
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	err = repo.observe("registrants.create.insert", func() error {
		_, e := tx.Exec(ctx, `
			INSERT INTO registrants
				(id, name, grade, address, phone, email, school, guardian_name,
				 national_id, order_id, prev_attended, payment_status, submitted_ip, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		`, r.ID, r.Name, r.Grade, r.Address, r.Phone, r.Email, r.School, r.GuardianName,
			r.NationalID, r.OrderID, r.PrevAttended, r.PaymentStatus, r.SubmittedIP, r.CreatedAt)
		return e
	})

	if err != nil {
		if IsUniqueViolation(err) {
			err = registrant.ErrDuplicate
		}
		return
	}

	err = tx.Commit(ctx)

	if err != nil {
		return
	}

	return
}

func (repo *RegistrantsRepo) ExistsByNationalID(ctx context.Context, ano string) (exists bool, err error) {
	err = repo.observe("registrants.exists_by_national_id", func() error {
		return repo.pool.QueryRow(ctx, `SELECT EXISTS(
			SELECT 1 FROM registrants WHERE national_id = $1
		)`, ano).Scan(&exists)
	})
	return
}

func (repo *RegistrantsRepo) GetByNationalID(ctx context.Context, ano string) (found registrant.Registrant, err error) {
	var r registrant.Registrant

	e := repo.observe("registrants.get_by_national_id", func() error {
		return repo.pool.QueryRow(ctx, `
			SELECT id, name, grade, address, phone, email, school, guardian_name,
			       national_id, order_id, prev_attended, payment_status, submitted_ip, created_at
			FROM registrants
			WHERE national_id = $1
		`, ano).Scan(&r.ID, &r.Name, &r.Grade, &r.Address, &r.Phone, &r.Email, &r.School,
			&r.GuardianName, &r.NationalID, &r.OrderID, &r.PrevAttended, &r.PaymentStatus,
			&r.SubmittedIP, &r.CreatedAt)
	})

	if e != nil {
		if errors.Is(e, pgx.ErrNoRows) {
			err = registrant.ErrNotFound
			return
		}

		err = e
		return
	}

	found = r
	return
}

func (repo *RegistrantsRepo) CountAll(ctx context.Context) (int, error) {
	var total int
	err := repo.observe("registrants.count_all", func() error {
		return repo.pool.QueryRow(ctx, `SELECT COUNT(*) FROM registrants`).Scan(&total)
	})
	return total, err
}

func (repo *RegistrantsRepo) CountByGrade(ctx context.Context, grade string) (int, error) {
	var total int
	err := repo.observe("registrants.count_by_grade", func() error {
		return repo.pool.QueryRow(ctx, `SELECT COUNT(*) FROM registrants WHERE grade = $1`, grade).Scan(&total)
	})
	return total, err
}
