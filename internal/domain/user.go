package domain

import "time"

// Roles carried in the bearer token and stored on users.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is the owning identity for carts and orders. Authentication itself
// happens elsewhere; this service only checks existence and role.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}
