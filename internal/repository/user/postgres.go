package user

import (
	"context"
	"io"
	"log"

	"redmango-orders/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		r.logger.Printf("user repo: exists id=%s error=%v", id, err)
		return false, err
	}
	return exists, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (email, name, role)
VALUES ($1, $2, $3)
ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, role = EXCLUDED.role
RETURNING id::text, created_at
`
	err := r.pool.QueryRow(ctx, q, u.Email, u.Name, u.Role).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		r.logger.Printf("user repo: upsert email=%s error=%v", u.Email, err)
		return nil, err
	}
	r.logger.Printf("user repo: upserted id=%s email=%s role=%s", u.ID, u.Email, u.Role)
	return &u, nil
}
