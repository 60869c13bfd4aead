package checkout

import (
	"testing"

	"github.com/nvalenzo/threadhaus-backend/pkg/enums"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
)

func validShipping() ShippingInfo {
	return ShippingInfo{
		FullName:   "A Buyer",
		Line1:      "1 Main St",
		City:       "Austin",
		State:      "TX",
		PostalCode: "73301",
		Country:    "US",
	}
}

func validPayment() PaymentInfo {
	return PaymentInfo{
		CardholderName: "A Buyer",
		CardNumber:     "4242424242424242",
		ExpMonth:       12,
		ExpYear:        2030,
		CVC:            "123",
	}
}

func TestForwardPathIsSequential(t *testing.T) {
	state := NewState()
	if state.Step != enums.CheckoutStepShipping {
		t.Fatalf("expected start at shipping, got %s", state.Step)
	}

	state, err := state.SubmitShipping(validShipping())
	if err != nil {
		t.Fatalf("submit shipping: %v", err)
	}
	if state.Step != enums.CheckoutStepPayment {
		t.Fatalf("expected payment, got %s", state.Step)
	}

	state, err = state.SubmitPayment(validPayment())
	if err != nil {
		t.Fatalf("submit payment: %v", err)
	}
	if state.Step != enums.CheckoutStepReview {
		t.Fatalf("expected review, got %s", state.Step)
	}

	state, err = state.Complete()
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if state.Step != enums.CheckoutStepComplete {
		t.Fatalf("expected complete, got %s", state.Step)
	}
}

func TestShippingValidationBlocksAdvance(t *testing.T) {
	state := NewState()
	incomplete := validShipping()
	incomplete.PostalCode = "  "

	next, err := state.SubmitShipping(incomplete)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if next.Step != enums.CheckoutStepShipping {
		t.Fatalf("failed validation must not advance, got %s", next.Step)
	}
}

func TestNoStepSkipping(t *testing.T) {
	state := NewState()

	// Payment cannot be submitted from shipping.
	_, err := state.SubmitPayment(validPayment())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}

	// Completion requires review.
	_, err = state.Complete()
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestBackStepsExactlyOneStage(t *testing.T) {
	state := NewState()
	state, _ = state.SubmitShipping(validShipping())
	state, _ = state.SubmitPayment(validPayment())

	state, err := state.Back()
	if err != nil {
		t.Fatalf("back: %v", err)
	}
	if state.Step != enums.CheckoutStepPayment {
		t.Fatalf("expected payment after back, got %s", state.Step)
	}

	state, err = state.Back()
	if err != nil {
		t.Fatalf("back: %v", err)
	}
	if state.Step != enums.CheckoutStepShipping {
		t.Fatalf("expected shipping after back, got %s", state.Step)
	}

	// Captured forms survive stepping back.
	if state.Shipping == nil || state.Payment == nil {
		t.Fatal("expected captured forms to survive back steps")
	}

	_, err = state.Back()
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict at shipping, got %v", err)
	}
}

func TestPaymentValidation(t *testing.T) {
	state := NewState()
	state, _ = state.SubmitShipping(validShipping())

	cases := map[string]PaymentInfo{
		"shortCard":  {CardholderName: "A", CardNumber: "1234", ExpMonth: 1, ExpYear: 2030, CVC: "123"},
		"letters":    {CardholderName: "A", CardNumber: "4242abcd42424242", ExpMonth: 1, ExpYear: 2030, CVC: "123"},
		"badMonth":   {CardholderName: "A", CardNumber: "4242424242424242", ExpMonth: 13, ExpYear: 2030, CVC: "123"},
		"badCVC":     {CardholderName: "A", CardNumber: "4242424242424242", ExpMonth: 1, ExpYear: 2030, CVC: "12"},
		"noCardName": {CardNumber: "4242424242424242", ExpMonth: 1, ExpYear: 2030, CVC: "123"},
	}
	for name, payment := range cases {
		t.Run(name, func(t *testing.T) {
			next, err := state.SubmitPayment(payment)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if next.Step != enums.CheckoutStepPayment {
				t.Fatalf("failed validation must not advance, got %s", next.Step)
			}
		})
	}

	// Spaced card numbers are accepted.
	if _, err := state.SubmitPayment(PaymentInfo{
		CardholderName: "A Buyer",
		CardNumber:     "4242 4242 4242 4242",
		ExpMonth:       6,
		ExpYear:        2031,
		CVC:            "9999",
	}); err != nil {
		t.Fatalf("expected spaced card number to validate, got %v", err)
	}
}
