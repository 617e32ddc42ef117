package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrEmptyCart indicates a payment intent was requested for a cart
	// with no line items.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrConflict indicates a conditional write lost to a concurrent
	// writer and should be retried by the caller.
	ErrConflict = errors.New("concurrent modification")
)

// ValidationError collects one or more input problems detected before any
// write. Messages are safe to return to clients.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// NewValidationError builds a ValidationError from plain messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// GatewayError wraps the last underlying cause after the payment gateway
// failed fatally or exhausted its retries.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway: %v", e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
