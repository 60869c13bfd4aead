package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/nvalenzo/threadhaus-backend/api/responses"
	"github.com/nvalenzo/threadhaus-backend/api/validators"
	"github.com/nvalenzo/threadhaus-backend/internal/users"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
	"github.com/nvalenzo/threadhaus-backend/pkg/logger"
)

type updateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,max=120"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	PhotoURL    *string `json:"photo_url,omitempty" validate:"omitempty,max=2048"`
}

type addressRequest struct {
	ID         *string `json:"id,omitempty"`
	Label      *string `json:"label,omitempty" validate:"omitempty,max=60"`
	Line1      string  `json:"line1" validate:"required,max=200"`
	Line2      *string `json:"line2,omitempty" validate:"omitempty,max=200"`
	City       string  `json:"city" validate:"required,max=100"`
	State      string  `json:"state" validate:"max=100"`
	PostalCode string  `json:"postal_code" validate:"required,max=20"`
	Country    string  `json:"country" validate:"required,max=60"`
	IsDefault  bool    `json:"is_default"`
}

func ProfileFetch(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.GetProfile(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProfileView(*profile))
	}
}

func ProfileUpdate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProfileRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.UpdateProfile(r.Context(), userID, users.UpdateProfileInput{
			DisplayName: body.DisplayName,
			Phone:       body.Phone,
			PhotoURL:    body.PhotoURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProfileView(*profile))
	}
}

func AddressList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addresses, err := svc.ListAddresses(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		views := make([]addressView, 0, len(addresses))
		for _, a := range addresses {
			views = append(views, toAddressView(a))
		}
		responses.WriteSuccess(w, views)
	}
}

func AddressUpsert(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addressRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		address := users.Address{
			Label:      body.Label,
			Line1:      body.Line1,
			Line2:      body.Line2,
			City:       body.City,
			State:      body.State,
			PostalCode: body.PostalCode,
			Country:    body.Country,
			IsDefault:  body.IsDefault,
		}
		if body.ID != nil {
			id, err := uuid.Parse(*body.ID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid address id"))
				return
			}
			address.ID = id
		}

		saved, err := svc.UpsertAddress(r.Context(), userID, address)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toAddressView(*saved))
	}
}

func AddressDelete(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addressID, err := pathUUID(r, "addressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteAddress(r.Context(), userID, addressID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
