package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nvalenzo/threadhaus-backend/api/middleware"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
)

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid identifier").WithDetails(map[string]any{"field": param})
	}
	return id, nil
}

func actorUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	return id, nil
}

func actorSellerID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.SellerIDFromContext(r.Context())
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "seller account required")
	}
	return id, nil
}

// cartSessionID keys carts and checkout wizards. Carts follow the signed-in
// user so a basket survives device switches.
func cartSessionID(r *http.Request) (string, error) {
	id, err := actorUserID(r)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
