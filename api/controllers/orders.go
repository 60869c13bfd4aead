package controllers

import (
	"net/http"
	"strings"

	"github.com/nvalenzo/threadhaus-backend/api/responses"
	"github.com/nvalenzo/threadhaus-backend/api/validators"
	"github.com/nvalenzo/threadhaus-backend/internal/orders"
	"github.com/nvalenzo/threadhaus-backend/pkg/logger"
	"github.com/nvalenzo/threadhaus-backend/pkg/pagination"
)

type orderPageView struct {
	Items  []orderView `json:"items"`
	Cursor string      `json:"cursor"`
}

// OrderHistory lists one page of the caller's past orders, newest first.
func OrderHistory(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := orders.ListParams{Params: pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}}

		page, err := svc.ListOrders(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		views := make([]orderView, 0, len(page.Items))
		for _, order := range page.Items {
			views = append(views, toOrderView(order))
		}
		responses.WriteSuccess(w, orderPageView{Items: views, Cursor: page.Cursor})
	}
}
