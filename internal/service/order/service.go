package order

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"redmango-orders/internal/domain"
	orderrepo "redmango-orders/internal/repository/order"
)

const (
	defaultPageSize = 5
	maxPageSize     = 100
)

type orderRepo interface {
	Create(ctx context.Context, in orderrepo.CreateOrderInput) (*domain.OrderHeader, error)
	GetByID(ctx context.Context, id int64) (*domain.OrderHeader, error)
	List(ctx context.Context, f orderrepo.ListFilter) ([]domain.OrderHeader, int, error)
	Update(ctx context.Context, id int64, in orderrepo.UpdateInput) (*domain.OrderHeader, error)
}

type userRepo interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type menuRepo interface {
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
}

// EventPublisher receives order lifecycle notifications. Publishing must be
// best-effort; implementations never fail the operation that triggered them.
type EventPublisher interface {
	OrderCreated(ctx context.Context, o domain.OrderHeader)
	OrderStatusChanged(ctx context.Context, o domain.OrderHeader, from domain.Status)
}

// Service is the order ledger, status state machine, and query surface.
type Service struct {
	orders orderRepo
	users  userRepo
	menu   menuRepo
	events EventPublisher
	logger *log.Logger
}

func New(orders orderrepo.Repository, users userRepo, menu menuRepo, events EventPublisher, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{orders: orders, users: users, menu: menu, events: events, logger: logger}
}

type LineInput struct {
	MenuItemID int64  `json:"menuItemId"`
	ItemName   string `json:"itemName"`
	PriceCents int64  `json:"priceCents"`
	Quantity   int    `json:"quantity"`
}

type CreateInput struct {
	UserID          string      `json:"userId"`
	PickupName      string      `json:"pickupName"`
	PickupPhone     string      `json:"pickupPhoneNumber"`
	PickupEmail     string      `json:"pickupEmail"`
	TotalCents      int64       `json:"orderTotalCents"`
	TotalItems      int         `json:"totalItems"`
	PaymentIntentID string      `json:"paymentIntentId"`
	Status          string      `json:"status"`
	Lines           []LineInput `json:"orderDetails"`
}

type UpdateInput struct {
	PickupName  string `json:"pickupName"`
	PickupPhone string `json:"pickupPhoneNumber"`
	PickupEmail string `json:"pickupEmail"`
	Status      string `json:"status"`
}

type ListFilter struct {
	UserID       string
	SearchString string
	Status       string
	Page         int
	PageSize     int
}

// Normalize resolves the paging defaults: a 1-based page and a bounded page
// size. Callers reporting pagination metadata must use the normalized values.
func (f ListFilter) Normalize() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}
	return f
}

// Create validates an order request and writes the header plus its lines in
// one transaction. Validation happens entirely before any write, in order:
// user existence, menu item existence (all invalid ids reported together),
// then field checks. Line items are cleared from the returned header.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.OrderHeader, error) {
	exists, err := s.users.Exists(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.NewValidationError("user does not exist: " + in.UserID)
	}

	if len(in.Lines) == 0 {
		return nil, domain.NewValidationError("order must contain at least one line item")
	}

	if err := s.checkMenuItems(ctx, in.Lines); err != nil {
		return nil, err
	}

	var problems []string
	if strings.TrimSpace(in.PickupName) == "" {
		problems = append(problems, "pickupName is required")
	}
	if strings.TrimSpace(in.PickupPhone) == "" {
		problems = append(problems, "pickupPhoneNumber is required")
	}
	if strings.TrimSpace(in.PickupEmail) == "" {
		problems = append(problems, "pickupEmail is required")
	}
	for _, line := range in.Lines {
		if strings.TrimSpace(line.ItemName) == "" {
			problems = append(problems, fmt.Sprintf("itemName is required for menu item %d", line.MenuItemID))
		}
		if line.Quantity <= 0 {
			problems = append(problems, fmt.Sprintf("quantity must be positive for menu item %d", line.MenuItemID))
		}
		if line.PriceCents < 0 {
			problems = append(problems, fmt.Sprintf("price must not be negative for menu item %d", line.MenuItemID))
		}
	}
	if len(problems) > 0 {
		return nil, &domain.ValidationError{Messages: problems}
	}

	var totalCents int64
	totalItems := 0
	lines := make([]domain.OrderLine, 0, len(in.Lines))
	for _, line := range in.Lines {
		totalCents += line.PriceCents * int64(line.Quantity)
		totalItems += line.Quantity
		lines = append(lines, domain.OrderLine{
			MenuItemID: line.MenuItemID,
			ItemName:   line.ItemName,
			PriceCents: line.PriceCents,
			Quantity:   line.Quantity,
		})
	}
	// Header totals are derived from the lines; a disagreeing
	// caller-supplied total is rejected rather than trusted.
	if in.TotalCents != 0 && in.TotalCents != totalCents {
		return nil, domain.NewValidationError(fmt.Sprintf("orderTotalCents %d does not match line item sum %d", in.TotalCents, totalCents))
	}
	if in.TotalItems != 0 && in.TotalItems != totalItems {
		return nil, domain.NewValidationError(fmt.Sprintf("totalItems %d does not match line item quantity sum %d", in.TotalItems, totalItems))
	}

	status := domain.StatusPending
	if strings.TrimSpace(in.Status) != "" {
		parsed, ok := domain.ParseStatus(in.Status)
		if !ok {
			return nil, domain.NewValidationError("unknown status: " + in.Status)
		}
		if !domain.CreatableStatus(parsed) {
			return nil, domain.NewValidationError("orders may only be created Pending or Confirmed")
		}
		status = parsed
	}

	header, err := s.orders.Create(ctx, orderrepo.CreateOrderInput{
		UserID:          in.UserID,
		PickupName:      in.PickupName,
		PickupPhone:     in.PickupPhone,
		PickupEmail:     in.PickupEmail,
		TotalCents:      totalCents,
		TotalItems:      totalItems,
		PaymentIntentID: in.PaymentIntentID,
		Status:          status,
		Lines:           lines,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Printf("order service: created order_id=%d user_id=%s status=%s", header.ID, header.UserID, header.Status)
	if s.events != nil {
		s.events.OrderCreated(ctx, *header)
	}
	header.Lines = nil
	return header, nil
}

func (s *Service) checkMenuItems(ctx context.Context, lines []LineInput) error {
	seen := make(map[int64]bool, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		if !seen[line.MenuItemID] {
			seen[line.MenuItemID] = true
			ids = append(ids, line.MenuItemID)
		}
	}
	existing, err := s.menu.ExistingIDs(ctx, ids)
	if err != nil {
		return err
	}
	var invalid []int64
	for _, id := range ids {
		if !existing[id] {
			invalid = append(invalid, id)
		}
	}
	if len(invalid) == 0 {
		return nil
	}
	sort.Slice(invalid, func(i, j int) bool { return invalid[i] < invalid[j] })
	parts := make([]string, len(invalid))
	for i, id := range invalid {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return domain.NewValidationError("invalid menu item ids: " + strings.Join(parts, ", "))
}

// Get returns one order header with its lines.
func (s *Service) Get(ctx context.Context, id int64) (*domain.OrderHeader, error) {
	return s.orders.GetByID(ctx, id)
}

// List returns a page of headers ordered by descending id plus the filtered
// total record count.
func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.OrderHeader, int, error) {
	f = f.Normalize()
	return s.orders.List(ctx, orderrepo.ListFilter{
		UserID:       f.UserID,
		SearchString: f.SearchString,
		Status:       f.Status,
		Page:         f.Page,
		PageSize:     f.PageSize,
	})
}

// UpdateStatus advances an order through the fulfillment pipeline. The
// transition is checked against the state machine here, not trusted from
// the caller, and the write is conditioned on the status the check saw.
// Empty contact fields keep their current values.
func (s *Service) UpdateStatus(ctx context.Context, id int64, in UpdateInput) (*domain.OrderHeader, error) {
	target, ok := domain.ParseStatus(in.Status)
	if !ok {
		return nil, domain.NewValidationError("unknown status: " + in.Status)
	}

	current, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(current.Status, target) {
		return nil, domain.NewValidationError(fmt.Sprintf("cannot transition from %s to %s", current.Status, target))
	}

	update := orderrepo.UpdateInput{
		PickupName:  current.PickupName,
		PickupPhone: current.PickupPhone,
		PickupEmail: current.PickupEmail,
		Status:      target,
		FromStatus:  current.Status,
	}
	if strings.TrimSpace(in.PickupName) != "" {
		update.PickupName = in.PickupName
	}
	if strings.TrimSpace(in.PickupPhone) != "" {
		update.PickupPhone = in.PickupPhone
	}
	if strings.TrimSpace(in.PickupEmail) != "" {
		update.PickupEmail = in.PickupEmail
	}

	header, err := s.orders.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("order service: order_id=%d status %s -> %s", id, current.Status, target)
	if s.events != nil {
		s.events.OrderStatusChanged(ctx, *header, current.Status)
	}
	return header, nil
}
