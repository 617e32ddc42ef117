package cart

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

func (r *postgresRepo) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	const cartQuery = `
SELECT id, user_id::text, payment_intent_id, client_secret, version, created_at, updated_at
FROM carts
WHERE user_id = $1
`
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, cartQuery, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.PaymentIntentID,
		&cart.ClientSecret,
		&cart.Version,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("cart repo: get user_id=%s error=%v", userID, err)
		return nil, err
	}

	// Item names and prices come from the live menu; only orders snapshot.
	const itemsQuery = `
SELECT ci.id, ci.cart_id, ci.menu_item_id, mi.name, mi.price_cents, ci.quantity
FROM cart_items ci
JOIN menu_items mi ON mi.id = ci.menu_item_id
WHERE ci.cart_id = $1
ORDER BY ci.id ASC
`
	rows, err := r.pool.Query(ctx, itemsQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ID, &item.CartID, &item.MenuItemID, &item.ItemName, &item.PriceCents, &item.Quantity); err != nil {
			return nil, err
		}
		cart.TotalCents += item.PriceCents * int64(item.Quantity)
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *postgresRepo) UpsertItem(ctx context.Context, userID string, menuItemID int64, quantityDelta int) (*domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM menu_items WHERE id = $1)`, menuItemID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	var cartID int64
	err = tx.QueryRow(ctx, `
INSERT INTO carts (user_id)
VALUES ($1)
ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
RETURNING id
`, userID).Scan(&cartID)
	if err != nil {
		r.logger.Printf("cart repo: upsert cart user_id=%s error=%v", userID, err)
		return nil, err
	}

	var existingQty int
	err = tx.QueryRow(ctx, `
SELECT quantity FROM cart_items WHERE cart_id = $1 AND menu_item_id = $2
`, cartID, menuItemID).Scan(&existingQty)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	newQty := existingQty + quantityDelta
	switch {
	case newQty <= 0:
		if _, err := tx.Exec(ctx, `
DELETE FROM cart_items WHERE cart_id = $1 AND menu_item_id = $2
`, cartID, menuItemID); err != nil {
			return nil, err
		}
	default:
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (cart_id, menu_item_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (cart_id, menu_item_id) DO UPDATE SET quantity = EXCLUDED.quantity
`, cartID, menuItemID, newQty); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("cart repo: upsert item user_id=%s menu_item_id=%d qty=%d", userID, menuItemID, newQty)
	return r.GetByUser(ctx, userID)
}

func (r *postgresRepo) SetPaymentIntent(ctx context.Context, cartID int64, version int, intentID, clientSecret string) error {
	const q = `
UPDATE carts
SET payment_intent_id = $1,
    client_secret = $2,
    version = version + 1,
    updated_at = now()
WHERE id = $3 AND version = $4
`
	cmd, err := r.pool.Exec(ctx, q, intentID, clientSecret, cartID, version)
	if err != nil {
		r.logger.Printf("cart repo: set intent cart_id=%d error=%v", cartID, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	r.logger.Printf("cart repo: set intent cart_id=%d intent=%s", cartID, intentID)
	return nil
}
