package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/nvalenzo/threadhaus-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Sale is an immutable record of a completed purchase. The log is
// append-only: sales are never edited or deleted once recorded.
type Sale struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	OccurredAt time.Time
	Items      []SaleItem
	Total      decimal.Decimal
}

// SaleItem is one sold line. Color and size are optional; historical records
// do not all carry a variant id.
type SaleItem struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
	Category  enums.ProductCategory
	Color     *string
	Size      *string
}

// NewSale builds a sale with its derived total (Σ price × quantity).
func NewSale(orderID uuid.UUID, occurredAt time.Time, items []SaleItem) Sale {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return Sale{
		ID:         uuid.New(),
		OrderID:    orderID,
		OccurredAt: occurredAt,
		Items:      items,
		Total:      total,
	}
}
