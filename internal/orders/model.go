package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a completed purchase as persisted under the buyer's orders
// sub-collection.
type Order struct {
	ID         uuid.UUID
	PlacedAt   time.Time
	Items      []Item
	Total      decimal.Decimal
	ShippingTo Address
}

// Item is one purchased line.
type Item struct {
	ProductID uuid.UUID
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Color     *string
	Size      *string
}

// Address is the shipping destination captured at checkout.
type Address struct {
	Label      *string
	Line1      string
	Line2      *string
	City       string
	State      string
	PostalCode string
	Country    string
}
