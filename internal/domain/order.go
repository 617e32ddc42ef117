package domain

import (
	"strings"
	"time"
)

// Status is the fulfillment state of an order header.
type Status string

const (
	StatusPending        Status = "Pending"
	StatusConfirmed      Status = "Confirmed"
	StatusPacked         Status = "Packed"
	StatusOutForDelivery Status = "OutForDelivery"
	StatusDelivered      Status = "Delivered"
	StatusCancelled      Status = "Cancelled"
)

// ParseStatus resolves a case-insensitive status string to its canonical
// form. The second return is false for unknown values.
func ParseStatus(s string) (Status, bool) {
	for _, known := range []Status{
		StatusPending, StatusConfirmed, StatusPacked,
		StatusOutForDelivery, StatusDelivered, StatusCancelled,
	} {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}

// IsTerminal reports whether no further transition may leave the status.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// transitions is the single source of truth for legal status changes:
// the linear pickup pipeline plus cancellation from any non-terminal state.
var transitions = map[Status]map[Status]bool{
	StatusPending:        {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed:      {StatusPacked: true, StatusCancelled: true},
	StatusPacked:         {StatusOutForDelivery: true, StatusCancelled: true},
	StatusOutForDelivery: {StatusDelivered: true, StatusCancelled: true},
}

// CanTransition reports whether an order may move from one status to
// another in a single step.
func CanTransition(from, to Status) bool {
	return transitions[from][to]
}

// CreatableStatus reports whether a caller may supply the status on order
// creation. Orders enter the pipeline Pending, or Confirmed when payment
// completed synchronously before the order was persisted.
func CreatableStatus(s Status) bool {
	return s == StatusPending || s == StatusConfirmed
}

// OrderHeader is the immutable record of a placed order. Only Status and
// the pickup contact fields may change after creation, via UpdateStatus.
type OrderHeader struct {
	ID              int64       `json:"id"`
	UserID          string      `json:"userId"`
	PickupName      string      `json:"pickupName"`
	PickupPhone     string      `json:"pickupPhoneNumber"`
	PickupEmail     string      `json:"pickupEmail"`
	TotalCents      int64       `json:"orderTotalCents"`
	TotalItems      int         `json:"totalItems"`
	PaymentIntentID string      `json:"paymentIntentId,omitempty"`
	Status          Status      `json:"status"`
	CreatedAt       time.Time   `json:"createdAt"`
	Lines           []OrderLine `json:"orderDetails,omitempty"`
}

// OrderLine is a priced, quantity-snapshotted menu item reference within an
// order. ItemName and PriceCents are copied at order time and survive later
// menu edits or deletion.
type OrderLine struct {
	ID         int64  `json:"id"`
	OrderID    int64  `json:"orderHeaderId"`
	MenuItemID int64  `json:"menuItemId"`
	ItemName   string `json:"itemName"`
	PriceCents int64  `json:"priceCents"`
	Quantity   int    `json:"quantity"`
}

// LineTotalCents is the line's contribution to the header total.
func (l OrderLine) LineTotalCents() int64 {
	return l.PriceCents * int64(l.Quantity)
}
