package payment

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"redmango-orders/internal/domain"
	"github.com/cenkalti/backoff/v5"
)

const maxAttempts = 3

type cartRepo interface {
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	SetPaymentIntent(ctx context.Context, cartID int64, version int, intentID, clientSecret string) error
}

// Service reconciles a cart's payment intent with its current total.
type Service struct {
	carts     cartRepo
	gateway   Gateway
	logger    *log.Logger
	baseDelay time.Duration

	mu    sync.Mutex
	locks map[string]*userLock
}

// userLock serializes reconciliation per user. refs counts the holder plus
// any waiters; the map entry is removed when it drops to zero, so the map
// only ever holds users with a reconcile in flight.
type userLock struct {
	sync.Mutex
	refs int
}

func New(carts cartRepo, gateway Gateway, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		carts:     carts,
		gateway:   gateway,
		logger:    logger,
		baseDelay: time.Second,
		locks:     make(map[string]*userLock),
	}
}

// Reconcile creates a payment intent for the user's cart, or updates the
// existing intent's amount to the current cart total. The gateway call runs
// under a bounded exponential-backoff retry; the cart is then persisted with
// the intent reference and client secret under an optimistic version check.
// Reconciliation is serialized per user so concurrent calls cannot race an
// intent reference onto the same cart.
func (s *Service) Reconcile(ctx context.Context, userID string) (*domain.Cart, error) {
	lock := s.lockUser(userID)
	defer s.unlockUser(userID, lock)

	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	amount := cart.TotalCents

	operation := func() (*Intent, error) {
		var intent *Intent
		var err error
		if cart.PaymentIntentID == "" {
			intent, err = s.gateway.CreateIntent(ctx, amount)
		} else {
			intent, err = s.gateway.RetrieveIntent(ctx, cart.PaymentIntentID)
			if err == nil && intent.AmountCents != amount {
				intent, err = s.gateway.UpdateIntentAmount(ctx, cart.PaymentIntentID, amount)
			}
		}
		if err != nil {
			var transient *TransientError
			if errors.As(err, &transient) {
				s.logger.Printf("payment service: transient gateway error user_id=%s error=%v", userID, err)
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return intent, nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = s.baseDelay
	expo.Multiplier = 2
	expo.RandomizationFactor = 0

	intent, err := backoff.Retry(ctx, operation, backoff.WithBackOff(expo), backoff.WithMaxTries(maxAttempts))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		s.logger.Printf("payment service: gateway failed user_id=%s cart_id=%d error=%v", userID, cart.ID, err)
		return nil, &domain.GatewayError{Err: err}
	}

	if err := s.carts.SetPaymentIntent(ctx, cart.ID, cart.Version, intent.ID, intent.ClientSecret); err != nil {
		return nil, err
	}
	s.logger.Printf("payment service: reconciled user_id=%s cart_id=%d intent=%s amount_cents=%d", userID, cart.ID, intent.ID, amount)

	cart.PaymentIntentID = intent.ID
	cart.ClientSecret = intent.ClientSecret
	cart.Version++
	return cart, nil
}

func (s *Service) lockUser(userID string) *userLock {
	s.mu.Lock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &userLock{}
		s.locks[userID] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.Lock()
	return lock
}

func (s *Service) unlockUser(userID string, lock *userLock) {
	lock.Unlock()

	s.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(s.locks, userID)
	}
	s.mu.Unlock()
}
