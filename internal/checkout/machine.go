package checkout

import (
	"strings"

	"github.com/nvalenzo/threadhaus-backend/pkg/enums"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
)

// ShippingInfo is the destination form captured at the first step.
type ShippingInfo struct {
	FullName   string
	Line1      string
	Line2      *string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      *string
}

// PaymentInfo is the card form captured at the second step. Only local
// completeness is checked; capture happens downstream of order submission.
type PaymentInfo struct {
	CardholderName string
	CardNumber     string
	ExpMonth       int
	ExpYear        int
	CVC            string
}

// State is one checkout wizard's position and captured forms. It is a value:
// transitions return a new state and never mutate the receiver.
//
// The machine is strictly linear: shipping → payment → review → complete.
// Forward moves are gated by field-completeness validation and never skip a
// step; backward moves step down exactly one stage.
type State struct {
	Step     enums.CheckoutStep
	Shipping *ShippingInfo
	Payment  *PaymentInfo
}

// NewState starts a checkout at the shipping step.
func NewState() State {
	return State{Step: enums.CheckoutStepShipping}
}

// SubmitShipping validates the form and advances shipping → payment.
func (s State) SubmitShipping(info ShippingInfo) (State, error) {
	if s.Step != enums.CheckoutStepShipping {
		return s, stepConflict(s.Step, enums.CheckoutStepShipping)
	}
	if err := validateShipping(info); err != nil {
		return s, err
	}
	next := s
	next.Shipping = &info
	next.Step = enums.CheckoutStepPayment
	return next, nil
}

// SubmitPayment validates the form and advances payment → review.
func (s State) SubmitPayment(info PaymentInfo) (State, error) {
	if s.Step != enums.CheckoutStepPayment {
		return s, stepConflict(s.Step, enums.CheckoutStepPayment)
	}
	if err := validatePayment(info); err != nil {
		return s, err
	}
	next := s
	next.Payment = &info
	next.Step = enums.CheckoutStepReview
	return next, nil
}

// Back steps down exactly one stage: review → payment or payment → shipping.
func (s State) Back() (State, error) {
	next := s
	switch s.Step {
	case enums.CheckoutStepReview:
		next.Step = enums.CheckoutStepPayment
	case enums.CheckoutStepPayment:
		next.Step = enums.CheckoutStepShipping
	default:
		return s, pkgerrors.New(pkgerrors.CodeStateConflict,
			"cannot step back from "+s.Step.String())
	}
	return next, nil
}

// Complete marks a reviewed checkout as done after successful submission.
func (s State) Complete() (State, error) {
	if s.Step != enums.CheckoutStepReview {
		return s, stepConflict(s.Step, enums.CheckoutStepReview)
	}
	next := s
	next.Step = enums.CheckoutStepComplete
	return next, nil
}

func stepConflict(current, expected enums.CheckoutStep) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict,
		"checkout is at "+current.String()+", expected "+expected.String())
}

func validateShipping(info ShippingInfo) error {
	required := map[string]string{
		"full_name":   info.FullName,
		"line1":       info.Line1,
		"city":        info.City,
		"state":       info.State,
		"postal_code": info.PostalCode,
		"country":     info.Country,
	}
	for _, field := range []string{"full_name", "line1", "city", "state", "postal_code", "country"} {
		if strings.TrimSpace(required[field]) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, field+" is required")
		}
	}
	return nil
}

func validatePayment(info PaymentInfo) error {
	if strings.TrimSpace(info.CardholderName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cardholder_name is required")
	}
	digits := strings.ReplaceAll(strings.TrimSpace(info.CardNumber), " ", "")
	if len(digits) < 12 || len(digits) > 19 || !allDigits(digits) {
		return pkgerrors.New(pkgerrors.CodeValidation, "card_number is invalid")
	}
	if info.ExpMonth < 1 || info.ExpMonth > 12 {
		return pkgerrors.New(pkgerrors.CodeValidation, "exp_month is invalid")
	}
	if info.ExpYear < 2000 {
		return pkgerrors.New(pkgerrors.CodeValidation, "exp_year is invalid")
	}
	if cvc := strings.TrimSpace(info.CVC); len(cvc) < 3 || len(cvc) > 4 || !allDigits(cvc) {
		return pkgerrors.New(pkgerrors.CodeValidation, "cvc is invalid")
	}
	return nil
}

func allDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
