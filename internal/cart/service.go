package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nvalenzo/threadhaus-backend/internal/catalog"
	"github.com/nvalenzo/threadhaus-backend/pkg/config"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
)

// AddItemInput identifies what to add; name and price are snapshotted from
// the live catalog at add time.
type AddItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Color     *string
	Size      *string
}

// Service maintains the session-scoped cart, persisting a TTL-bounded
// snapshot per session so a cart survives process restarts for the length of
// the shopping session.
type Service interface {
	Get(ctx context.Context, sessionID string) (Cart, error)
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (Cart, error)
	SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, color *string, quantity int) (Cart, error)
	RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID, color *string) (Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type snapshotStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartSnapshotKey(sessionID string) string
}

type productReader interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*catalog.Product, error)
}

type service struct {
	snapshots snapshotStore
	products  productReader
	ttl       time.Duration
}

// NewService constructs the cart service.
func NewService(snapshots snapshotStore, products productReader, cfg config.CartConfig) (Service, error) {
	if snapshots == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	ttl := cfg.SnapshotTTL
	if ttl <= 0 {
		ttl = 168 * time.Hour
	}
	return &service{snapshots: snapshots, products: products, ttl: ttl}, nil
}

// Get loads the session's cart; a missing snapshot is an empty cart.
func (s *service) Get(ctx context.Context, sessionID string) (Cart, error) {
	if strings.TrimSpace(sessionID) == "" {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	raw, err := s.snapshots.Get(ctx, s.snapshots.CartSnapshotKey(sessionID))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return Cart{}, nil
		}
		return Cart{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart snapshot")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return Cart{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart snapshot")
	}
	return cart, nil
}

// AddItem resolves the product, validates the chosen color, and merges the
// line into the session cart.
func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (Cart, error) {
	current, err := s.Get(ctx, sessionID)
	if err != nil {
		return Cart{}, err
	}

	product, err := s.products.GetProduct(ctx, input.ProductID)
	if err != nil {
		return Cart{}, err
	}
	if input.Color != nil && !productHasColor(product, *input.Color) {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "product has no variant in that color")
	}

	line := Line{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  input.Quantity,
		Color:     input.Color,
		Size:      input.Size,
	}
	if len(product.Images) > 0 {
		image := product.Images[0]
		line.Image = &image
	}

	next, err := current.Add(line)
	if err != nil {
		return Cart{}, err
	}
	if err := s.save(ctx, sessionID, next); err != nil {
		return Cart{}, err
	}
	return next, nil
}

// SetQuantity overwrites a line's quantity.
func (s *service) SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, color *string, quantity int) (Cart, error) {
	current, err := s.Get(ctx, sessionID)
	if err != nil {
		return Cart{}, err
	}
	next, err := current.SetQuantity(productID, color, quantity)
	if err != nil {
		return Cart{}, err
	}
	if err := s.save(ctx, sessionID, next); err != nil {
		return Cart{}, err
	}
	return next, nil
}

// RemoveItem drops a line.
func (s *service) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID, color *string) (Cart, error) {
	current, err := s.Get(ctx, sessionID)
	if err != nil {
		return Cart{}, err
	}
	next, err := current.Remove(productID, color)
	if err != nil {
		return Cart{}, err
	}
	if err := s.save(ctx, sessionID, next); err != nil {
		return Cart{}, err
	}
	return next, nil
}

// Clear removes the session's snapshot entirely.
func (s *service) Clear(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.snapshots.Del(ctx, s.snapshots.CartSnapshotKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart snapshot")
	}
	return nil
}

func (s *service) save(ctx context.Context, sessionID string, cart Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart snapshot")
	}
	if err := s.snapshots.Set(ctx, s.snapshots.CartSnapshotKey(sessionID), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart snapshot")
	}
	return nil
}

func productHasColor(product *catalog.Product, color string) bool {
	for _, variant := range product.Variants {
		if strings.EqualFold(variant.Color, color) {
			return true
		}
	}
	return false
}
