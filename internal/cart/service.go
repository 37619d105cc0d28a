package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/suvai/freshmart-backend/internal/catalog"
	pkgerrors "github.com/suvai/freshmart-backend/pkg/errors"
	"github.com/suvai/freshmart-backend/pkg/logger"
)

// Service exposes per-session cart operations. Every mutation is a full
// read-modify-write of the session blob under the service mutex.
type Service interface {
	Get(ctx context.Context, sessionID string) (State, error)
	AddItem(ctx context.Context, sessionID string, productID, quantity int) (State, error)
	RemoveItem(ctx context.Context, sessionID string, productID int) (State, error)
	UpdateQuantity(ctx context.Context, sessionID string, productID, quantity int) (State, error)
	Clear(ctx context.Context, sessionID string, confirm bool) (ClearOutcome, error)
	Checkout(ctx context.Context, sessionID string, confirm bool) (CheckoutOutcome, error)
}

type service struct {
	mu              sync.Mutex
	repo            Repository
	products        catalog.Catalog
	logg            *logger.Logger
	processingDelay time.Duration
}

// NewService builds a cart service over the given repository and catalog.
func NewService(repo Repository, products catalog.Catalog, logg *logger.Logger, processingDelay time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("product catalog required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if processingDelay < 0 {
		return nil, fmt.Errorf("processing delay must be non-negative")
	}
	return &service{
		repo:            repo,
		products:        products,
		logg:            logg,
		processingDelay: processingDelay,
	}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (State, error) {
	if sessionID == "" {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	return stateOf(lines), nil
}

// AddItem appends a new line or increments the existing one for the product.
// Lines keep insertion order.
func (s *service) AddItem(ctx context.Context, sessionID string, productID, quantity int) (State, error) {
	if sessionID == "" {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if quantity < 1 {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	product, ok := s.products.ByID(productID)
	if !ok {
		return State{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return State{}, err
	}

	found := false
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, lineFromProduct(product, quantity))
	}

	if err := s.repo.Save(ctx, sessionID, lines); err != nil {
		return State{}, err
	}
	return stateOf(lines), nil
}

// RemoveItem drops the product's line. Removing an absent product is a no-op.
func (s *service) RemoveItem(ctx context.Context, sessionID string, productID int) (State, error) {
	if sessionID == "" {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.removeLocked(ctx, sessionID, productID)
}

// UpdateQuantity replaces a line's quantity. A quantity of zero or less
// removes the line; an absent product is a no-op either way.
func (s *service) UpdateQuantity(ctx context.Context, sessionID string, productID, quantity int) (State, error) {
	if sessionID == "" {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		return s.removeLocked(ctx, sessionID, productID)
	}

	lines, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return State{}, err
	}

	changed := false
	for i := range lines {
		if lines[i].ProductID == productID {
			changed = lines[i].Quantity != quantity
			lines[i].Quantity = quantity
			break
		}
	}
	if !changed {
		return stateOf(lines), nil
	}

	if err := s.repo.Save(ctx, sessionID, lines); err != nil {
		return State{}, err
	}
	return stateOf(lines), nil
}

func (s *service) removeLocked(ctx context.Context, sessionID string, productID int) (State, error) {
	lines, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return State{}, err
	}

	kept := lines[:0]
	removed := false
	for _, line := range lines {
		if line.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		return stateOf(lines), nil
	}

	if err := s.repo.Save(ctx, sessionID, kept); err != nil {
		return State{}, err
	}
	return stateOf(kept), nil
}

// Clear empties the cart once confirmed. An empty cart and an unconfirmed
// request both leave state untouched.
func (s *service) Clear(ctx context.Context, sessionID string, confirm bool) (ClearOutcome, error) {
	if sessionID == "" {
		return ClearOutcome{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return ClearOutcome{}, err
	}

	if len(lines) == 0 {
		return ClearOutcome{
			Status:  OutcomeNoop,
			Message: "Your cart is already empty!",
			Cart:    stateOf(lines),
		}, nil
	}
	if !confirm {
		return ClearOutcome{
			Status:  OutcomeConfirmationRequired,
			Message: fmt.Sprintf("Are you sure you want to clear your cart? This removes %d item(s).", stateOf(lines).ItemCount()),
			Cart:    stateOf(lines),
		}, nil
	}

	if err := s.repo.Save(ctx, sessionID, nil); err != nil {
		return ClearOutcome{}, err
	}
	s.logg.Info(s.logg.WithSessionID(ctx, sessionID), "cart cleared")
	return ClearOutcome{
		Status:  OutcomeCompleted,
		Message: "Your cart has been cleared.",
		Cart:    stateOf(nil),
	}, nil
}

// Checkout shows the order summary until confirmed, then simulates order
// processing for the configured delay and empties the cart.
func (s *service) Checkout(ctx context.Context, sessionID string, confirm bool) (CheckoutOutcome, error) {
	if sessionID == "" {
		return CheckoutOutcome{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	s.mu.Lock()
	lines, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		s.mu.Unlock()
		return CheckoutOutcome{}, err
	}

	if len(lines) == 0 {
		s.mu.Unlock()
		return CheckoutOutcome{
			Status:  OutcomeNoop,
			Message: "Your cart is empty! Add some items before checking out.",
			Cart:    stateOf(lines),
		}, nil
	}
	if !confirm {
		summary := summaryOf(lines)
		s.mu.Unlock()
		return CheckoutOutcome{
			Status:  OutcomeConfirmationRequired,
			Message: "Here is your order summary. Confirm to place the order.",
			Summary: &summary,
			Cart:    stateOf(lines),
		}, nil
	}
	s.mu.Unlock()

	// The lock is released during the simulated processing window so other
	// sessions are not stalled behind this one.
	if err := s.waitProcessing(ctx); err != nil {
		return CheckoutOutcome{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err = s.repo.Load(ctx, sessionID)
	if err != nil {
		return CheckoutOutcome{}, err
	}
	if len(lines) == 0 {
		return CheckoutOutcome{
			Status:  OutcomeNoop,
			Message: "Your cart is empty! Add some items before checking out.",
			Cart:    stateOf(lines),
		}, nil
	}

	summary := summaryOf(lines)
	if err := s.repo.Save(ctx, sessionID, nil); err != nil {
		return CheckoutOutcome{}, err
	}

	s.logg.Info(s.logg.WithSessionID(ctx, sessionID), "checkout completed")
	return CheckoutOutcome{
		Status:  OutcomeCompleted,
		Message: "Order placed successfully! Your groceries are on the way.",
		Summary: &summary,
		Cart:    stateOf(nil),
	}, nil
}

func (s *service) waitProcessing(ctx context.Context) error {
	if s.processingDelay == 0 {
		return nil
	}
	timer := time.NewTimer(s.processingDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return pkgerrors.Wrap(pkgerrors.CodeInternal, ctx.Err(), "checkout interrupted")
	case <-timer.C:
		return nil
	}
}
