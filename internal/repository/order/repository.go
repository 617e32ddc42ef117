package order

import (
	"context"

	"redmango-orders/internal/domain"
)

// CreateOrderInput carries a validated order ready to be written. Totals
// must already equal the line sums.
type CreateOrderInput struct {
	UserID          string
	PickupName      string
	PickupPhone     string
	PickupEmail     string
	TotalCents      int64
	TotalItems      int
	PaymentIntentID string
	Status          domain.Status
	Lines           []domain.OrderLine
}

// UpdateInput mutates an order's status and pickup contact in one write.
// The write is conditioned on FromStatus so concurrent staff updates cannot
// both apply a transition checked against a stale status.
type UpdateInput struct {
	PickupName  string
	PickupPhone string
	PickupEmail string
	Status      domain.Status
	FromStatus  domain.Status
}

// ListFilter narrows and pages the order listing. Zero values mean "no
// filter"; Page is 1-based.
type ListFilter struct {
	UserID       string
	SearchString string
	Status       string
	Page         int
	PageSize     int
}

type Repository interface {
	// Create inserts the header and all lines in one transaction. A header
	// without its lines is never left visible.
	Create(ctx context.Context, in CreateOrderInput) (*domain.OrderHeader, error)
	// GetByID returns the header with its lines, or domain.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*domain.OrderHeader, error)
	// List returns one page ordered by descending id plus the filtered
	// total before paging.
	List(ctx context.Context, f ListFilter) ([]domain.OrderHeader, int, error)
	// Update writes status and contact fields, returning the updated
	// header, domain.ErrNotFound for a missing order, or
	// domain.ErrConflict when the order's status is no longer FromStatus.
	Update(ctx context.Context, id int64, in UpdateInput) (*domain.OrderHeader, error)
}
