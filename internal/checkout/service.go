package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/nvalenzo/threadhaus-backend/internal/cart"
	"github.com/nvalenzo/threadhaus-backend/internal/orders"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
	"github.com/nvalenzo/threadhaus-backend/pkg/logger"
)

// Service drives a per-session checkout wizard. Wizard state is ephemeral
// process memory; abandoning a session just lets it fall out of the map on
// reset or completion.
type Service interface {
	State(ctx context.Context, sessionID string) State
	SubmitShipping(ctx context.Context, sessionID string, info ShippingInfo) (State, error)
	SubmitPayment(ctx context.Context, sessionID string, info PaymentInfo) (State, error)
	Back(ctx context.Context, sessionID string) (State, error)
	Submit(ctx context.Context, sessionID string, userID uuid.UUID) (*orders.Order, State, error)
	Reset(ctx context.Context, sessionID string)
}

type cartAccess interface {
	Get(ctx context.Context, sessionID string) (cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type orderSubmitter interface {
	Submit(ctx context.Context, userID uuid.UUID, basket cart.Cart, shipping orders.Address) (*orders.Order, error)
}

type service struct {
	mu       sync.Mutex
	sessions map[string]State

	carts     cartAccess
	submitter orderSubmitter
	log       *logger.Logger
}

// NewService constructs the checkout service.
func NewService(carts cartAccess, submitter orderSubmitter, log *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart access required")
	}
	if submitter == nil {
		return nil, fmt.Errorf("order submitter required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		sessions:  make(map[string]State),
		carts:     carts,
		submitter: submitter,
		log:       log,
	}, nil
}

// State returns the session's wizard position, starting a fresh checkout for
// unseen sessions.
func (s *service) State(_ context.Context, sessionID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(sessionID)
}

// SubmitShipping advances shipping → payment when the form is complete.
func (s *service) SubmitShipping(_ context.Context, sessionID string, info ShippingInfo) (State, error) {
	return s.transition(sessionID, func(state State) (State, error) {
		return state.SubmitShipping(info)
	})
}

// SubmitPayment advances payment → review when the form is complete.
func (s *service) SubmitPayment(_ context.Context, sessionID string, info PaymentInfo) (State, error) {
	return s.transition(sessionID, func(state State) (State, error) {
		return state.SubmitPayment(info)
	})
}

// Back steps down one stage.
func (s *service) Back(_ context.Context, sessionID string) (State, error) {
	return s.transition(sessionID, State.Back)
}

// Submit places the order from the review step. Success clears the cart and
// completes the wizard; failure leaves it parked at review so the submission
// can be retried.
func (s *service) Submit(ctx context.Context, sessionID string, userID uuid.UUID) (*orders.Order, State, error) {
	s.mu.Lock()
	state := s.current(sessionID)
	s.mu.Unlock()

	if state.Shipping == nil {
		return nil, state, pkgerrors.New(pkgerrors.CodeStateConflict, "shipping details missing")
	}
	if _, err := state.Complete(); err != nil {
		return nil, state, err
	}

	basket, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, state, err
	}

	order, err := s.submitter.Submit(ctx, userID, basket, orders.Address{
		Label:      nil,
		Line1:      state.Shipping.Line1,
		Line2:      state.Shipping.Line2,
		City:       state.Shipping.City,
		State:      state.Shipping.State,
		PostalCode: state.Shipping.PostalCode,
		Country:    state.Shipping.Country,
	})
	if err != nil {
		// Still at review; the caller may retry.
		return nil, state, err
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		s.log.Warn(ctx, "cart clear failed after order submission")
	}

	completed, err := state.Complete()
	if err != nil {
		return order, state, err
	}
	s.mu.Lock()
	s.sessions[sessionID] = completed
	s.mu.Unlock()
	return order, completed, nil
}

// Reset abandons the session's wizard.
func (s *service) Reset(_ context.Context, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

func (s *service) current(sessionID string) State {
	if state, ok := s.sessions[sessionID]; ok {
		return state
	}
	return NewState()
}

func (s *service) transition(sessionID string, fn func(State) (State, error)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.current(sessionID)
	next, err := fn(state)
	if err != nil {
		return state, err
	}
	s.sessions[sessionID] = next
	return next, nil
}
