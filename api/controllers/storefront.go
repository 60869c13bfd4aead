package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/nvalenzo/threadhaus-backend/api/responses"
	"github.com/nvalenzo/threadhaus-backend/api/validators"
	"github.com/nvalenzo/threadhaus-backend/internal/catalog"
	"github.com/nvalenzo/threadhaus-backend/internal/reviews"
	"github.com/nvalenzo/threadhaus-backend/pkg/enums"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
	"github.com/nvalenzo/threadhaus-backend/pkg/logger"
)

// StorefrontBrowse lists products filtered and ordered by query parameters:
// q, categories, colors, min_price, max_price, on_sale, new_arrivals,
// min_rating, and sort.
func StorefrontBrowse(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := parseFilterOptions(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products := svc.Browse(r.Context(), opts)
		responses.WriteSuccess(w, toProductViews(products))
	}
}

func StorefrontProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProductView(*product))
	}
}

func ReviewList(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listed, err := svc.ListReviews(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		views := make([]reviewView, 0, len(listed))
		for _, review := range listed {
			views = append(views, toReviewView(review))
		}
		responses.WriteSuccess(w, views)
	}
}

type createReviewRequest struct {
	Rating  float64 `json:"rating" validate:"gte=0,lte=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

func ReviewCreate(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createReviewRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		review, err := svc.AddReview(r.Context(), productID, reviews.AddReviewInput{
			UserID:  userID,
			Rating:  body.Rating,
			Comment: body.Comment,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toReviewView(*review))
	}
}

func parseFilterOptions(r *http.Request) (catalog.FilterOptions, error) {
	var opts catalog.FilterOptions
	opts.Query = strings.TrimSpace(r.URL.Query().Get("q"))

	for _, raw := range validators.ParseQueryList(r, "categories") {
		category, err := enums.ParseProductCategory(raw)
		if err != nil {
			return opts, pkgerrors.New(pkgerrors.CodeValidation, "unknown category").WithDetails(map[string]any{"category": raw})
		}
		opts.Categories = append(opts.Categories, category)
	}
	opts.Colors = validators.ParseQueryList(r, "colors")

	minPrice, err := validators.ParseQueryDecimal(r, "min_price")
	if err != nil {
		return opts, err
	}
	opts.MinPrice = minPrice

	maxPrice, err := validators.ParseQueryDecimal(r, "max_price")
	if err != nil {
		return opts, err
	}
	opts.MaxPrice = maxPrice

	opts.OnSale = validators.ParseQueryBool(r, "on_sale")
	opts.NewArrivals = validators.ParseQueryBool(r, "new_arrivals")

	if raw := strings.TrimSpace(r.URL.Query().Get("min_rating")); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil || rating < 0 || rating > 5 {
			return opts, pkgerrors.New(pkgerrors.CodeValidation, "min_rating must be between 0 and 5")
		}
		opts.MinRating = rating
	}

	sortKey, err := enums.ParseSortKey(r.URL.Query().Get("sort"))
	if err != nil {
		return opts, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown sort key")
	}
	opts.SortBy = sortKey

	return opts, nil
}
