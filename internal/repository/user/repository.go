package user

import (
	"context"

	"redmango-orders/internal/domain"
)

type Repository interface {
	// Exists reports whether the user id is known.
	Exists(ctx context.Context, id string) (bool, error)
	// Upsert inserts or refreshes a user keyed by email.
	Upsert(ctx context.Context, u domain.User) (*domain.User, error)
}
