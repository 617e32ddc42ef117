package seed

import (
	"context"
	"errors"
	"fmt"

	"redmango-orders/internal/domain"
	menurepo "redmango-orders/internal/repository/menu"
	userrepo "redmango-orders/internal/repository/user"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Apply inserts basic seed data for manual testing through the same
// repositories the API uses. It is idempotent: users upsert by email and menu
// items skip when one with the same name exists.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	users := userrepo.NewPostgres(pool, nil)
	menu := menurepo.NewPostgres(pool, nil)

	for _, u := range []domain.User{
		{Email: "admin@redmango.test", Name: "Admin", Role: domain.RoleAdmin},
		{Email: "customer@redmango.test", Name: "Demo Customer", Role: domain.RoleCustomer},
	} {
		if _, err := users.Upsert(ctx, u); err != nil {
			return fmt.Errorf("upsert user %s: %w", u.Email, err)
		}
	}

	for _, item := range []domain.MenuItem{
		{Name: "Spring Roll", Description: "Crispy vegetable rolls", Category: "Appetizer", PriceCents: 799},
		{Name: "Paneer Tikka", Description: "Char-grilled cottage cheese", Category: "Appetizer", PriceCents: 1399},
		{Name: "Hakka Noodles", Description: "Wok-tossed noodles with vegetables", Category: "Entrée", PriceCents: 1050},
		{Name: "Malai Kofta", Description: "Dumplings in creamy tomato gravy", Category: "Entrée", PriceCents: 1250},
		{Name: "Carrot Love", Description: "Carrot halwa dessert cup", Category: "Dessert", PriceCents: 499},
		{Name: "Rasmalai", Description: "Milk dumplings in saffron cream", Category: "Dessert", PriceCents: 599},
	} {
		_, err := menu.GetByName(ctx, item.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("look up menu item %s: %w", item.Name, err)
		}
		if _, err := menu.Insert(ctx, item); err != nil {
			return fmt.Errorf("insert menu item %s: %w", item.Name, err)
		}
	}

	return nil
}
