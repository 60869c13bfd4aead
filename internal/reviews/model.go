package reviews

import (
	"time"

	"github.com/google/uuid"
	"github.com/nvalenzo/threadhaus-backend/internal/gateway"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
)

// Review is one shopper rating on a product.
type Review struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Rating    float64
	Comment   *string
	CreatedAt time.Time
}

func toReviewDoc(r Review) gateway.ReviewDoc {
	return gateway.ReviewDoc{
		ID:        r.ID.String(),
		UserID:    r.UserID.String(),
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

func fromReviewDoc(doc gateway.ReviewDoc) (Review, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return Review{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse review id")
	}
	userID, err := uuid.Parse(doc.UserID)
	if err != nil {
		return Review{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse review user id")
	}
	return Review{
		ID:        id,
		UserID:    userID,
		Rating:    doc.Rating,
		Comment:   doc.Comment,
		CreatedAt: doc.CreatedAt,
	}, nil
}
