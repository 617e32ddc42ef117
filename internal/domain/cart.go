package domain

import "time"

// Cart is a user's mutable pre-order basket. It is superseded, not deleted,
// once an order is created from it. Version is an optimistic concurrency
// token bumped on every payment-intent write.
type Cart struct {
	ID              int64      `json:"id"`
	UserID          string     `json:"userId"`
	PaymentIntentID string     `json:"paymentIntentId,omitempty"`
	ClientSecret    string     `json:"clientSecret,omitempty"`
	Version         int        `json:"-"`
	TotalCents      int64      `json:"cartTotalCents"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	Items           []CartItem `json:"cartItems"`
}

// CartItem references a live menu item; its price is resolved from the menu
// at read time, unlike an order line's snapshot.
type CartItem struct {
	ID         int64  `json:"id"`
	CartID     int64  `json:"cartId"`
	MenuItemID int64  `json:"menuItemId"`
	ItemName   string `json:"itemName"`
	PriceCents int64  `json:"priceCents"`
	Quantity   int    `json:"quantity"`
}

// TotalItems is the summed quantity across all cart items.
func (c Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}
