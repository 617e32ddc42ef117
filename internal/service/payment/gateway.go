package payment

import (
	"context"
	"fmt"
)

// Intent is the narrow view of a gateway payment intent the platform needs.
type Intent struct {
	ID           string
	ClientSecret string
	AmountCents  int64
}

// Gateway wraps the third-party payment-intent API. Implementations report
// retryable faults by wrapping them in TransientError; anything else is
// treated as fatal and never retried.
type Gateway interface {
	CreateIntent(ctx context.Context, amountCents int64) (*Intent, error)
	RetrieveIntent(ctx context.Context, id string) (*Intent, error)
	UpdateIntentAmount(ctx context.Context, id string, amountCents int64) (*Intent, error)
}

// TransientError marks a gateway fault worth retrying: rate limits, 5xx
// responses, transport failures.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient gateway error: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}
