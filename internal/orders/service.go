package orders

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nvalenzo/threadhaus-backend/internal/cart"
	"github.com/nvalenzo/threadhaus-backend/internal/catalog"
	"github.com/nvalenzo/threadhaus-backend/internal/gateway"
	"github.com/nvalenzo/threadhaus-backend/internal/sales"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
	"github.com/nvalenzo/threadhaus-backend/pkg/logger"
	"github.com/nvalenzo/threadhaus-backend/pkg/pagination"
)

// Service turns a cart into a persisted order, records the per-seller sales,
// and decrements variant stock.
type Service interface {
	Submit(ctx context.Context, userID uuid.UUID, basket cart.Cart, shipping Address) (*Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, params ListParams) (*ListResult, error)
}

type orderDocs interface {
	PutOrder(ctx context.Context, uid string, doc gateway.OrderDoc) error
	ListOrders(ctx context.Context, uid string) ([]gateway.OrderDoc, error)
}

type productReader interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*catalog.Product, error)
}

type stockApplier interface {
	ApplySale(ctx context.Context, allocations []catalog.SaleAllocation) ([]catalog.Product, error)
}

type saleRecorder interface {
	Record(ctx context.Context, sellerID uuid.UUID, sale sales.Sale) error
}

type service struct {
	docs     orderDocs
	products productReader
	stock    stockApplier
	recorder saleRecorder
	log      *logger.Logger
	now      func() time.Time
}

// NewService constructs the orders service.
func NewService(docs orderDocs, products productReader, stock stockApplier, recorder saleRecorder, log *logger.Logger) (Service, error) {
	if docs == nil {
		return nil, fmt.Errorf("order document store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock applier required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("sale recorder required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		docs:     docs,
		products: products,
		stock:    stock,
		recorder: recorder,
		log:      log,
		now:      time.Now,
	}, nil
}

// Submit persists the order, appends one sale per seller, and applies the
// stock decrements. Any failure surfaces as a retryable error without
// clearing the caller's cart.
func (s *service) Submit(ctx context.Context, userID uuid.UUID, basket cart.Cart, shipping Address) (*Order, error) {
	if basket.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if err := validateAddress(shipping); err != nil {
		return nil, err
	}

	placedAt := s.now().UTC()
	order := Order{
		ID:         uuid.New(),
		PlacedAt:   placedAt,
		Total:      basket.Totals().Subtotal,
		ShippingTo: shipping,
	}

	// One sale per seller: a cart may span listings from several sellers.
	saleItemsBySeller := make(map[uuid.UUID][]sales.SaleItem)
	allocations := make([]catalog.SaleAllocation, 0, len(basket.Lines))

	for _, line := range basket.Lines {
		product, err := s.products.GetProduct(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}

		order.Items = append(order.Items, Item{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Color:     line.Color,
			Size:      line.Size,
		})

		saleItem := sales.SaleItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Category:  product.Category,
			Color:     line.Color,
			Size:      line.Size,
		}
		if variantID := resolveVariantID(product, line.Color, line.Size); variantID != nil {
			saleItem.VariantID = variantID
		}
		saleItemsBySeller[product.SellerID] = append(saleItemsBySeller[product.SellerID], saleItem)

		allocations = append(allocations, catalog.SaleAllocation{
			ProductID: line.ProductID,
			VariantID: saleItem.VariantID,
			Color:     line.Color,
			Size:      line.Size,
			Quantity:  line.Quantity,
		})
	}

	if err := s.docs.PutOrder(ctx, userID.String(), toOrderDoc(order)); err != nil {
		return nil, err
	}

	for sellerID, items := range saleItemsBySeller {
		sale := sales.NewSale(order.ID, placedAt, items)
		if err := s.recorder.Record(ctx, sellerID, sale); err != nil {
			return nil, err
		}
	}

	if _, err := s.stock.ApplySale(ctx, allocations); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "order submitted")
	return &order, nil
}

// ListOrders returns one page of the buyer's order history, newest first,
// using cursor pagination.
func (s *service) ListOrders(ctx context.Context, userID uuid.UUID, params ListParams) (*ListResult, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	var cursor *pagination.Cursor
	if params.Cursor != "" {
		parsed, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		cursor = parsed
	}

	docs, err := s.docs.ListOrders(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	all := make([]Order, 0, len(docs))
	for _, doc := range docs {
		order, err := fromOrderDoc(doc)
		if err != nil {
			return nil, err
		}
		all = append(all, order)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].PlacedAt.Equal(all[j].PlacedAt) {
			return all[i].ID.String() < all[j].ID.String()
		}
		return all[i].PlacedAt.After(all[j].PlacedAt)
	})
	if cursor != nil {
		all = ordersFromCursor(all, *cursor)
	}

	next := ""
	if len(all) > limit {
		next = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: all[limit].PlacedAt,
			ID:        all[limit].ID,
		})
		all = all[:limit]
	}
	return &ListResult{Items: all, Cursor: next}, nil
}

// ordersFromCursor drops rows that precede the cursor position in the
// newest-first ordering. The cursor names the first row of the page.
func ordersFromCursor(all []Order, cursor pagination.Cursor) []Order {
	for i, order := range all {
		if order.PlacedAt.Before(cursor.CreatedAt) {
			return all[i:]
		}
		if order.PlacedAt.Equal(cursor.CreatedAt) && order.ID.String() >= cursor.ID.String() {
			return all[i:]
		}
	}
	return nil
}

func resolveVariantID(product *catalog.Product, color, size *string) *uuid.UUID {
	if color == nil || size == nil {
		return nil
	}
	for _, variant := range product.Variants {
		if strings.EqualFold(variant.Color, *color) && strings.EqualFold(variant.Size, *size) {
			id := variant.ID
			return &id
		}
	}
	return nil
}

func validateAddress(addr Address) error {
	missing := func(field string) error {
		return pkgerrors.New(pkgerrors.CodeValidation, field+" is required")
	}
	if strings.TrimSpace(addr.Line1) == "" {
		return missing("line1")
	}
	if strings.TrimSpace(addr.City) == "" {
		return missing("city")
	}
	if strings.TrimSpace(addr.State) == "" {
		return missing("state")
	}
	if strings.TrimSpace(addr.PostalCode) == "" {
		return missing("postal_code")
	}
	if strings.TrimSpace(addr.Country) == "" {
		return missing("country")
	}
	return nil
}
