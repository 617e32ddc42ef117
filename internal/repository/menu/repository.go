package menu

import (
	"context"

	"redmango-orders/internal/domain"
)

type Repository interface {
	// ExistingIDs reports which of the given menu item ids exist.
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
	// GetByName returns the menu item with the exact name, or
	// domain.ErrNotFound. Names are unique in practice; seeding keys on them.
	GetByName(ctx context.Context, name string) (*domain.MenuItem, error)
	// Insert adds a menu item.
	Insert(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error)
}
