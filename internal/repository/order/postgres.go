package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

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

const headerColumns = `id, user_id::text, pickup_name, pickup_phone, pickup_email, total_cents, total_items, payment_intent_id, status, created_at`

func (r *postgresRepo) Create(ctx context.Context, in CreateOrderInput) (*domain.OrderHeader, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const insertHeader = `
INSERT INTO order_headers (user_id, pickup_name, pickup_phone, pickup_email, total_cents, total_items, payment_intent_id, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at
`
	header := domain.OrderHeader{
		UserID:          in.UserID,
		PickupName:      in.PickupName,
		PickupPhone:     in.PickupPhone,
		PickupEmail:     in.PickupEmail,
		TotalCents:      in.TotalCents,
		TotalItems:      in.TotalItems,
		PaymentIntentID: in.PaymentIntentID,
		Status:          in.Status,
	}
	if err := tx.QueryRow(ctx, insertHeader,
		in.UserID,
		in.PickupName,
		in.PickupPhone,
		in.PickupEmail,
		in.TotalCents,
		in.TotalItems,
		in.PaymentIntentID,
		string(in.Status),
	).Scan(&header.ID, &header.CreatedAt); err != nil {
		r.logger.Printf("order repo: insert header user_id=%s error=%v", in.UserID, err)
		return nil, err
	}

	batch := &pgx.Batch{}
	const insertLine = `
INSERT INTO order_lines (order_id, menu_item_id, item_name, price_cents, quantity)
VALUES ($1, $2, $3, $4, $5)
`
	for _, line := range in.Lines {
		batch.Queue(insertLine, header.ID, line.MenuItemID, line.ItemName, line.PriceCents, line.Quantity)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		r.logger.Printf("order repo: insert lines order_id=%d error=%v", header.ID, err)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: created order_id=%d user_id=%s lines=%d total_cents=%d", header.ID, in.UserID, len(in.Lines), in.TotalCents)
	return &header, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.OrderHeader, error) {
	q := fmt.Sprintf(`SELECT %s FROM order_headers WHERE id = $1`, headerColumns)
	header, err := r.scanHeader(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get id=%d error=%v", id, err)
		return nil, err
	}

	const linesQuery = `
SELECT id, order_id, menu_item_id, item_name, price_cents, quantity
FROM order_lines
WHERE order_id = $1
ORDER BY id ASC
`
	rows, err := r.pool.Query(ctx, linesQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.MenuItemID, &line.ItemName, &line.PriceCents, &line.Quantity); err != nil {
			return nil, err
		}
		header.Lines = append(header.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return header, nil
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]domain.OrderHeader, int, error) {
	where, args := buildFilter(f)

	var total int
	countQuery := `SELECT COUNT(*) FROM order_headers` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Printf("order repo: count error=%v", err)
		return nil, 0, err
	}

	pageQuery := fmt.Sprintf(`SELECT %s FROM order_headers%s ORDER BY id DESC LIMIT $%d OFFSET $%d`,
		headerColumns, where, len(args)+1, len(args)+2)
	args = append(args, f.PageSize, (f.Page-1)*f.PageSize)

	rows, err := r.pool.Query(ctx, pageQuery, args...)
	if err != nil {
		r.logger.Printf("order repo: list error=%v", err)
		return nil, 0, err
	}
	defer rows.Close()

	headers := make([]domain.OrderHeader, 0, f.PageSize)
	for rows.Next() {
		header, err := r.scanHeader(rows)
		if err != nil {
			return nil, 0, err
		}
		headers = append(headers, *header)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	r.logger.Printf("order repo: list page=%d size=%d total=%d", f.Page, f.PageSize, total)
	return headers, total, nil
}

func (r *postgresRepo) Update(ctx context.Context, id int64, in UpdateInput) (*domain.OrderHeader, error) {
	q := fmt.Sprintf(`
UPDATE order_headers
SET pickup_name = $1, pickup_phone = $2, pickup_email = $3, status = $4
WHERE id = $5 AND status = $6
RETURNING %s`, headerColumns)
	header, err := r.scanHeader(r.pool.QueryRow(ctx, q, in.PickupName, in.PickupPhone, in.PickupEmail, string(in.Status), id, string(in.FromStatus)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if checkErr := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM order_headers WHERE id = $1)`, id).Scan(&exists); checkErr == nil && exists {
				return nil, domain.ErrConflict
			}
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: update id=%d error=%v", id, err)
		return nil, err
	}
	r.logger.Printf("order repo: updated order_id=%d status=%s", id, in.Status)
	return header, nil
}

func buildFilter(f ListFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if f.UserID != "" {
		args = append(args, f.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if f.SearchString != "" {
		args = append(args, "%"+f.SearchString+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(pickup_name ILIKE $%d OR pickup_phone ILIKE $%d OR pickup_email ILIKE $%d)", n, n, n))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		clauses = append(clauses, fmt.Sprintf("LOWER(status) = LOWER($%d)", len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *postgresRepo) scanHeader(row pgx.Row) (*domain.OrderHeader, error) {
	var header domain.OrderHeader
	var status string
	if err := row.Scan(
		&header.ID,
		&header.UserID,
		&header.PickupName,
		&header.PickupPhone,
		&header.PickupEmail,
		&header.TotalCents,
		&header.TotalItems,
		&header.PaymentIntentID,
		&status,
		&header.CreatedAt,
	); err != nil {
		return nil, err
	}
	header.Status = domain.Status(status)
	return &header, nil
}
