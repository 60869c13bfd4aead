package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/nvalenzo/threadhaus-backend/internal/cart"
	"github.com/nvalenzo/threadhaus-backend/internal/orders"
	"github.com/nvalenzo/threadhaus-backend/pkg/enums"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
	"github.com/nvalenzo/threadhaus-backend/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type mockCarts struct {
	basket  cart.Cart
	cleared []string
}

func (m *mockCarts) Get(_ context.Context, _ string) (cart.Cart, error) {
	return m.basket, nil
}

func (m *mockCarts) Clear(_ context.Context, sessionID string) error {
	m.cleared = append(m.cleared, sessionID)
	return nil
}

type mockSubmitter struct {
	err       error
	submitted int
}

func (m *mockSubmitter) Submit(_ context.Context, _ uuid.UUID, basket cart.Cart, _ orders.Address) (*orders.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.submitted++
	return &orders.Order{ID: uuid.New(), Total: basket.Totals().Subtotal}, nil
}

func newCheckoutService(t *testing.T, carts *mockCarts, submitter *mockSubmitter) Service {
	t.Helper()
	log := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
	svc, err := NewService(carts, submitter, log)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seededBasket(t *testing.T) cart.Cart {
	t.Helper()
	basket, err := cart.Cart{}.Add(cart.Line{
		ProductID: uuid.New(),
		Name:      "Tee",
		UnitPrice: decimal.NewFromInt(20),
		Quantity:  1,
	})
	if err != nil {
		t.Fatalf("seed basket: %v", err)
	}
	return basket
}

func driveToReview(t *testing.T, svc Service, sessionID string) {
	t.Helper()
	ctx := context.Background()
	if _, err := svc.SubmitShipping(ctx, sessionID, validShipping()); err != nil {
		t.Fatalf("submit shipping: %v", err)
	}
	if _, err := svc.SubmitPayment(ctx, sessionID, validPayment()); err != nil {
		t.Fatalf("submit payment: %v", err)
	}
}

func TestSubmitCompletesAndClearsCart(t *testing.T) {
	carts := &mockCarts{basket: seededBasket(t)}
	submitter := &mockSubmitter{}
	svc := newCheckoutService(t, carts, submitter)
	driveToReview(t, svc, "sess-1")

	order, state, err := svc.Submit(context.Background(), "sess-1", uuid.New())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if order == nil {
		t.Fatal("expected order")
	}
	if state.Step != enums.CheckoutStepComplete {
		t.Fatalf("expected complete, got %s", state.Step)
	}
	if len(carts.cleared) != 1 || carts.cleared[0] != "sess-1" {
		t.Fatalf("expected cart cleared, got %v", carts.cleared)
	}
}

func TestSubmitFailureStaysAtReview(t *testing.T) {
	carts := &mockCarts{basket: seededBasket(t)}
	submitter := &mockSubmitter{err: pkgerrors.New(pkgerrors.CodeDependency, "gateway down")}
	svc := newCheckoutService(t, carts, submitter)
	driveToReview(t, svc, "sess-1")

	_, state, err := svc.Submit(context.Background(), "sess-1", uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if state.Step != enums.CheckoutStepReview {
		t.Fatalf("expected to stay at review, got %s", state.Step)
	}
	if len(carts.cleared) != 0 {
		t.Fatal("cart must not be cleared on failure")
	}

	// Retry succeeds once the gateway recovers.
	submitter.err = nil
	order, state, err := svc.Submit(context.Background(), "sess-1", uuid.New())
	if err != nil || order == nil {
		t.Fatalf("retry submit: %v", err)
	}
	if state.Step != enums.CheckoutStepComplete {
		t.Fatalf("expected complete after retry, got %s", state.Step)
	}
}

func TestSubmitRequiresReviewStep(t *testing.T) {
	svc := newCheckoutService(t, &mockCarts{}, &mockSubmitter{})

	_, _, err := svc.Submit(context.Background(), "sess-1", uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	svc := newCheckoutService(t, &mockCarts{}, &mockSubmitter{})
	ctx := context.Background()

	if _, err := svc.SubmitShipping(ctx, "a", validShipping()); err != nil {
		t.Fatalf("submit shipping: %v", err)
	}

	if got := svc.State(ctx, "a").Step; got != enums.CheckoutStepPayment {
		t.Fatalf("expected session a at payment, got %s", got)
	}
	if got := svc.State(ctx, "b").Step; got != enums.CheckoutStepShipping {
		t.Fatalf("expected session b at shipping, got %s", got)
	}

	svc.Reset(ctx, "a")
	if got := svc.State(ctx, "a").Step; got != enums.CheckoutStepShipping {
		t.Fatalf("expected reset session at shipping, got %s", got)
	}
}
