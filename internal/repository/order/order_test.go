package order

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"redmango-orders/internal/domain"
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

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE order_lines, order_headers, cart_items, carts, menu_items, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func insertUser(ctx context.Context, t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx, `INSERT INTO users (email, name, role) VALUES (gen_random_uuid()::text || '@test', 'Test', 'customer') RETURNING id::text`).Scan(&id)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}

func createInput(userID string) CreateOrderInput {
	return CreateOrderInput{
		UserID:      userID,
		PickupName:  "Ada",
		PickupPhone: "555-0100",
		PickupEmail: "ada@example.com",
		TotalCents:  2350,
		TotalItems:  2,
		Status:      domain.StatusConfirmed,
		Lines: []domain.OrderLine{
			{MenuItemID: 1, ItemName: "Spring Roll", PriceCents: 799, Quantity: 1},
			{MenuItemID: 2, ItemName: "Paneer Tikka", PriceCents: 1551, Quantity: 1},
		},
	}
}

func TestPostgres_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	userID := insertUser(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	created, err := repo.Create(ctx, createInput(userID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 || created.Status != domain.StatusConfirmed {
		t.Fatalf("unexpected header %+v", created)
	}

	fetched, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(fetched.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(fetched.Lines))
	}
	var sum int64
	for _, line := range fetched.Lines {
		sum += line.LineTotalCents()
	}
	if sum != fetched.TotalCents {
		t.Fatalf("line sum %d does not equal header total %d", sum, fetched.TotalCents)
	}
}

func TestPostgres_GetMissingOrder(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	if _, err := repo.GetByID(ctx, 12345); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgres_ListPaginatesDescending(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	userID := insertUser(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	for i := 0; i < 12; i++ {
		in := createInput(userID)
		in.PickupName = fmt.Sprintf("Customer %d", i)
		if _, err := repo.Create(ctx, in); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	page1, total, err := repo.List(ctx, ListFilter{Page: 1, PageSize: 5})
	if err != nil {
		t.Fatalf("List page 1: %v", err)
	}
	if total != 12 || len(page1) != 5 {
		t.Fatalf("expected total=12 len=5, got total=%d len=%d", total, len(page1))
	}
	for i := 1; i < len(page1); i++ {
		if page1[i].ID >= page1[i-1].ID {
			t.Fatalf("expected descending ids, got %d then %d", page1[i-1].ID, page1[i].ID)
		}
	}

	page3, total, err := repo.List(ctx, ListFilter{Page: 3, PageSize: 5})
	if err != nil {
		t.Fatalf("List page 3: %v", err)
	}
	if total != 12 || len(page3) != 2 {
		t.Fatalf("expected total=12 len=2, got total=%d len=%d", total, len(page3))
	}
}

func TestPostgres_ListFilters(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	alice := insertUser(ctx, t, pool)
	bob := insertUser(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	aliceIn := createInput(alice)
	aliceIn.PickupName = "Alice Liddell"
	aliceIn.Status = domain.StatusPending
	if _, err := repo.Create(ctx, aliceIn); err != nil {
		t.Fatalf("Create alice: %v", err)
	}
	bobIn := createInput(bob)
	bobIn.PickupName = "Bob Gray"
	bobIn.Status = domain.StatusConfirmed
	if _, err := repo.Create(ctx, bobIn); err != nil {
		t.Fatalf("Create bob: %v", err)
	}

	byUser, total, err := repo.List(ctx, ListFilter{UserID: alice, Page: 1, PageSize: 5})
	if err != nil {
		t.Fatalf("List by user: %v", err)
	}
	if total != 1 || byUser[0].PickupName != "Alice Liddell" {
		t.Fatalf("unexpected user filter result total=%d %+v", total, byUser)
	}

	bySearch, total, err := repo.List(ctx, ListFilter{SearchString: "liddell", Page: 1, PageSize: 5})
	if err != nil {
		t.Fatalf("List by search: %v", err)
	}
	if total != 1 || bySearch[0].UserID != alice {
		t.Fatalf("unexpected search result total=%d %+v", total, bySearch)
	}

	byStatus, total, err := repo.List(ctx, ListFilter{Status: "confirmed", Page: 1, PageSize: 5})
	if err != nil {
		t.Fatalf("List by status: %v", err)
	}
	if total != 1 || byStatus[0].UserID != bob {
		t.Fatalf("unexpected status result total=%d %+v", total, byStatus)
	}
}

func TestPostgres_UpdateConditionalOnStatus(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	userID := insertUser(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	in := createInput(userID)
	in.Status = domain.StatusPending
	created, err := repo.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := repo.Update(ctx, created.ID, UpdateInput{
		PickupName:  created.PickupName,
		PickupPhone: created.PickupPhone,
		PickupEmail: created.PickupEmail,
		Status:      domain.StatusConfirmed,
		FromStatus:  domain.StatusPending,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != domain.StatusConfirmed {
		t.Fatalf("expected Confirmed, got %s", updated.Status)
	}

	// A second writer that also observed Pending loses.
	_, err = repo.Update(ctx, created.ID, UpdateInput{
		PickupName:  created.PickupName,
		PickupPhone: created.PickupPhone,
		PickupEmail: created.PickupEmail,
		Status:      domain.StatusCancelled,
		FromStatus:  domain.StatusPending,
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	_, err = repo.Update(ctx, 99999, UpdateInput{Status: domain.StatusConfirmed, FromStatus: domain.StatusPending, PickupName: "x", PickupPhone: "x", PickupEmail: "x"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
