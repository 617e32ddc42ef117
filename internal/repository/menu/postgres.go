package menu

import (
	"context"
	"errors"
	"io"
	"log"

	"redmango-orders/internal/domain"
	"github.com/jackc/pgx/v5"
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

func (r *postgresRepo) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	existing := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT id FROM menu_items WHERE id = ANY($1)`, ids)
	if err != nil {
		r.logger.Printf("menu repo: existing ids error=%v", err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing[id] = true
	}
	return existing, rows.Err()
}

func (r *postgresRepo) GetByName(ctx context.Context, name string) (*domain.MenuItem, error) {
	const q = `
SELECT id, name, COALESCE(description, ''), COALESCE(category, ''), price_cents, COALESCE(image_url, ''), created_at
FROM menu_items
WHERE name = $1
`
	var item domain.MenuItem
	err := r.pool.QueryRow(ctx, q, name).Scan(&item.ID, &item.Name, &item.Description, &item.Category, &item.PriceCents, &item.ImageURL, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *postgresRepo) Insert(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error) {
	const q = `
INSERT INTO menu_items (name, description, category, price_cents, image_url)
VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, NULLIF($5, ''))
RETURNING id, created_at
`
	err := r.pool.QueryRow(ctx, q, item.Name, item.Description, item.Category, item.PriceCents, item.ImageURL).
		Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		r.logger.Printf("menu repo: insert name=%s error=%v", item.Name, err)
		return nil, err
	}
	r.logger.Printf("menu repo: inserted id=%d name=%s", item.ID, item.Name)
	return &item, nil
}
