package reviews

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nvalenzo/threadhaus-backend/internal/catalog"
	"github.com/nvalenzo/threadhaus-backend/internal/gateway"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
	"github.com/nvalenzo/threadhaus-backend/pkg/logger"
)

// Service manages product reviews and keeps the catalog's average rating in
// step with the review log.
type Service interface {
	ListReviews(ctx context.Context, productID uuid.UUID) ([]Review, error)
	AddReview(ctx context.Context, productID uuid.UUID, input AddReviewInput) (*Review, error)
}

// AddReviewInput is one shopper's submitted rating.
type AddReviewInput struct {
	UserID  uuid.UUID
	Rating  float64
	Comment *string
}

type reviewDocs interface {
	ListReviews(ctx context.Context, productID string) ([]gateway.ReviewDoc, error)
	PutReview(ctx context.Context, productID string, doc gateway.ReviewDoc) error
}

type ratingSetter interface {
	SetAverageRating(ctx context.Context, productID uuid.UUID, rating *float64) (*catalog.Product, error)
}

type service struct {
	docs    reviewDocs
	ratings ratingSetter
	log     *logger.Logger
	now     func() time.Time
}

// NewService constructs the reviews service.
func NewService(docs reviewDocs, ratings ratingSetter, log *logger.Logger) (Service, error) {
	if docs == nil {
		return nil, fmt.Errorf("review document store required")
	}
	if ratings == nil {
		return nil, fmt.Errorf("rating setter required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{docs: docs, ratings: ratings, log: log, now: time.Now}, nil
}

// ListReviews returns the product's reviews, newest first.
func (s *service) ListReviews(ctx context.Context, productID uuid.UUID) ([]Review, error) {
	docs, err := s.docs.ListReviews(ctx, productID.String())
	if err != nil {
		return nil, err
	}
	out := make([]Review, 0, len(docs))
	for _, doc := range docs {
		review, err := fromReviewDoc(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, review)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// AddReview validates and persists one review, then recomputes the product's
// average rating from the full review log.
func (s *service) AddReview(ctx context.Context, productID uuid.UUID, input AddReviewInput) (*Review, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.Rating < 0 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 0 and 5")
	}
	if input.Comment != nil && strings.TrimSpace(*input.Comment) == "" {
		input.Comment = nil
	}

	review := Review{
		ID:        uuid.New(),
		UserID:    input.UserID,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: s.now().UTC(),
	}
	if err := s.docs.PutReview(ctx, productID.String(), toReviewDoc(review)); err != nil {
		return nil, err
	}

	if err := s.refreshAverage(ctx, productID); err != nil {
		// The review is persisted; a stale average corrects itself on the
		// next successful refresh.
		ctx = s.log.WithField(ctx, "product_id", productID.String())
		s.log.Warn(ctx, "refresh average rating failed")
	}
	return &review, nil
}

func (s *service) refreshAverage(ctx context.Context, productID uuid.UUID) error {
	docs, err := s.docs.ListReviews(ctx, productID.String())
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		_, err := s.ratings.SetAverageRating(ctx, productID, nil)
		return err
	}
	var sum float64
	for _, doc := range docs {
		sum += doc.Rating
	}
	avg := sum / float64(len(docs))
	_, err = s.ratings.SetAverageRating(ctx, productID, &avg)
	return err
}
