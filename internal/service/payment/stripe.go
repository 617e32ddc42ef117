package payment

import (
	"context"
	"errors"
	"net/http"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// Orders are charged in a single fixed currency, card-only.
const intentCurrency = "usd"

// StripeGateway implements Gateway against the Stripe payment-intent API.
type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(apiKey string) *StripeGateway {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &StripeGateway{api: api}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amountCents int64) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Params:             stripe.Params{Context: ctx},
		Amount:             stripe.Int64(amountCents),
		Currency:           stripe.String(intentCurrency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, classify(err)
	}
	return fromStripe(pi), nil
}

func (g *StripeGateway) RetrieveIntent(ctx context.Context, id string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{Params: stripe.Params{Context: ctx}}
	pi, err := g.api.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, classify(err)
	}
	return fromStripe(pi), nil
}

func (g *StripeGateway) UpdateIntentAmount(ctx context.Context, id string, amountCents int64) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
		Amount: stripe.Int64(amountCents),
	}
	pi, err := g.api.PaymentIntents.Update(id, params)
	if err != nil {
		return nil, classify(err)
	}
	return fromStripe(pi), nil
}

func fromStripe(pi *stripe.PaymentIntent) *Intent {
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		AmountCents:  pi.Amount,
	}
}

// classify separates retryable gateway faults from client errors such as an
// invalid amount, which must propagate immediately.
func classify(err error) error {
	var sErr *stripe.Error
	if errors.As(err, &sErr) {
		if sErr.Type == stripe.ErrorTypeAPI ||
			sErr.HTTPStatusCode == http.StatusTooManyRequests ||
			sErr.HTTPStatusCode >= http.StatusInternalServerError {
			return &TransientError{Err: err}
		}
		return err
	}
	// Transport-level failure; the request may never have reached Stripe.
	return &TransientError{Err: err}
}
