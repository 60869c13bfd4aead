package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/nvalenzo/threadhaus-backend/api/responses"
	"github.com/nvalenzo/threadhaus-backend/api/validators"
	"github.com/nvalenzo/threadhaus-backend/internal/cart"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
	"github.com/nvalenzo/threadhaus-backend/pkg/logger"
)

type addCartItemRequest struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	Color     *string `json:"color,omitempty" validate:"omitempty,max=60"`
	Size      *string `json:"size,omitempty" validate:"omitempty,max=30"`
}

type setCartQuantityRequest struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	Color     *string `json:"color,omitempty" validate:"omitempty,max=60"`
}

type removeCartItemRequest struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	Color     *string `json:"color,omitempty" validate:"omitempty,max=60"`
}

func CartFetch(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := cartSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		basket, err := svc.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartView(basket))
	}
}

func CartAddItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := cartSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(body.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
			return
		}

		basket, err := svc.AddItem(r.Context(), sessionID, cart.AddItemInput{
			ProductID: productID,
			Quantity:  body.Quantity,
			Color:     body.Color,
			Size:      body.Size,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartView(basket))
	}
}

func CartSetQuantity(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := cartSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setCartQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(body.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
			return
		}

		basket, err := svc.SetQuantity(r.Context(), sessionID, productID, body.Color, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartView(basket))
	}
}

func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := cartSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body removeCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(body.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
			return
		}

		basket, err := svc.RemoveItem(r.Context(), sessionID, productID, body.Color)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartView(basket))
	}
}

func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := cartSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Clear(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartView(cart.Cart{}))
	}
}
