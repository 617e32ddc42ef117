package seed

import (
	"context"
	"os"
	"testing"

	"redmango-orders/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
)

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func TestApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE order_lines, order_headers, cart_items, carts, menu_items, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}

	if err := Apply(ctx, pool); err != nil {
		t.Fatalf("first Apply: %v", err)
	}
	if err := Apply(ctx, pool); err != nil {
		t.Fatalf("second Apply: %v", err)
	}

	var users, items int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&users); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM menu_items`).Scan(&items); err != nil {
		t.Fatalf("count menu items: %v", err)
	}
	if users != 2 || items != 6 {
		t.Fatalf("expected 2 users and 6 menu items after repeated seeding, got %d and %d", users, items)
	}

	var role string
	if err := pool.QueryRow(ctx, `SELECT role FROM users WHERE email = 'admin@redmango.test'`).Scan(&role); err != nil {
		t.Fatalf("look up admin: %v", err)
	}
	if role != "admin" {
		t.Fatalf("expected admin role, got %q", role)
	}
}
