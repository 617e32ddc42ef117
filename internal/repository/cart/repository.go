package cart

import (
	"context"

	"redmango-orders/internal/domain"
)

type Repository interface {
	// GetByUser returns the user's cart with items priced from the live
	// menu, or domain.ErrNotFound when the user has no cart.
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	// UpsertItem adds quantityDelta of a menu item to the user's cart,
	// creating the cart on first use. A resulting quantity of zero or
	// less removes the item.
	UpsertItem(ctx context.Context, userID string, menuItemID int64, quantityDelta int) (*domain.Cart, error)
	// SetPaymentIntent stores the gateway intent reference and client
	// secret, conditioned on the cart version observed by the caller.
	// Returns domain.ErrConflict when a concurrent writer got there first.
	SetPaymentIntent(ctx context.Context, cartID int64, version int, intentID, clientSecret string) error
}
