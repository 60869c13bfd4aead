package controllers

import (
	"net/http"

	"github.com/nvalenzo/threadhaus-backend/api/responses"
	"github.com/nvalenzo/threadhaus-backend/api/validators"
	"github.com/nvalenzo/threadhaus-backend/internal/checkout"
	"github.com/nvalenzo/threadhaus-backend/pkg/logger"
)

type shippingRequest struct {
	FullName   string  `json:"full_name" validate:"required,max=120"`
	Line1      string  `json:"line1" validate:"required,max=200"`
	Line2      *string `json:"line2,omitempty" validate:"omitempty,max=200"`
	City       string  `json:"city" validate:"required,max=100"`
	State      string  `json:"state" validate:"required,max=100"`
	PostalCode string  `json:"postal_code" validate:"required,max=20"`
	Country    string  `json:"country" validate:"required,max=60"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

type paymentRequest struct {
	CardholderName string `json:"cardholder_name" validate:"required,max=120"`
	CardNumber     string `json:"card_number" validate:"required,max=30"`
	ExpMonth       int    `json:"exp_month" validate:"required"`
	ExpYear        int    `json:"exp_year" validate:"required"`
	CVC            string `json:"cvc" validate:"required,max=6"`
}

func CheckoutState(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := cartSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCheckoutStateView(svc.State(r.Context(), sessionID)))
	}
}

func CheckoutShipping(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := cartSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body shippingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.SubmitShipping(r.Context(), sessionID, checkout.ShippingInfo{
			FullName:   body.FullName,
			Line1:      body.Line1,
			Line2:      body.Line2,
			City:       body.City,
			State:      body.State,
			PostalCode: body.PostalCode,
			Country:    body.Country,
			Phone:      body.Phone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCheckoutStateView(state))
	}
}

func CheckoutPayment(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := cartSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body paymentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.SubmitPayment(r.Context(), sessionID, checkout.PaymentInfo{
			CardholderName: body.CardholderName,
			CardNumber:     body.CardNumber,
			ExpMonth:       body.ExpMonth,
			ExpYear:        body.ExpYear,
			CVC:            body.CVC,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCheckoutStateView(state))
	}
}

func CheckoutBack(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := cartSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.Back(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCheckoutStateView(state))
	}
}

type checkoutResultView struct {
	Order orderView         `json:"order"`
	State checkoutStateView `json:"state"`
}

// CheckoutSubmit places the order from the review step.
func CheckoutSubmit(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sessionID := userID.String()

		order, state, err := svc.Submit(r.Context(), sessionID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResultView{
			Order: toOrderView(*order),
			State: toCheckoutStateView(state),
		})
	}
}

func CheckoutReset(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := cartSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		svc.Reset(r.Context(), sessionID)
		responses.WriteSuccess(w, toCheckoutStateView(svc.State(r.Context(), sessionID)))
	}
}
