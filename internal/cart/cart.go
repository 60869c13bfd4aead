package cart

import (
	"strings"

	"github.com/google/uuid"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// Line is one cart entry. Lines are keyed by (product id, color): choosing a
// second color of an already-carted product creates a separate line, while
// the same color merges quantities. Size rides along for display and order
// building but is not part of the key.
type Line struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Color     *string         `json:"color,omitempty"`
	Size      *string         `json:"size,omitempty"`
	Image     *string         `json:"image,omitempty"`
}

// Cart is the session-scoped line list.
type Cart struct {
	Lines []Line `json:"lines"`
}

// Totals summarizes a cart for display.
type Totals struct {
	ItemCount int
	Subtotal  decimal.Decimal
}

func lineKey(productID uuid.UUID, color *string) string {
	c := ""
	if color != nil {
		c = strings.ToLower(strings.TrimSpace(*color))
	}
	return productID.String() + "\x00" + c
}

// Add merges the line into the cart, summing quantities when the (product,
// color) key already exists.
func (c Cart) Add(line Line) (Cart, error) {
	if line.Quantity <= 0 {
		return c, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	key := lineKey(line.ProductID, line.Color)
	out := Cart{Lines: make([]Line, len(c.Lines))}
	copy(out.Lines, c.Lines)

	for i := range out.Lines {
		if lineKey(out.Lines[i].ProductID, out.Lines[i].Color) == key {
			out.Lines[i].Quantity += line.Quantity
			return out, nil
		}
	}
	out.Lines = append(out.Lines, line)
	return out, nil
}

// SetQuantity overwrites the quantity of the matching line.
func (c Cart) SetQuantity(productID uuid.UUID, color *string, quantity int) (Cart, error) {
	if quantity <= 0 {
		return c, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	key := lineKey(productID, color)
	out := Cart{Lines: make([]Line, len(c.Lines))}
	copy(out.Lines, c.Lines)

	for i := range out.Lines {
		if lineKey(out.Lines[i].ProductID, out.Lines[i].Color) == key {
			out.Lines[i].Quantity = quantity
			return out, nil
		}
	}
	return c, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
}

// Remove drops the matching line.
func (c Cart) Remove(productID uuid.UUID, color *string) (Cart, error) {
	key := lineKey(productID, color)
	out := Cart{Lines: make([]Line, 0, len(c.Lines))}
	found := false
	for _, line := range c.Lines {
		if lineKey(line.ProductID, line.Color) == key {
			found = true
			continue
		}
		out.Lines = append(out.Lines, line)
	}
	if !found {
		return c, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	return out, nil
}

// Clear empties the cart.
func (c Cart) Clear() Cart {
	return Cart{}
}

// Totals folds the lines into an item count and subtotal.
func (c Cart) Totals() Totals {
	t := Totals{Subtotal: decimal.Zero}
	for _, line := range c.Lines {
		t.ItemCount += line.Quantity
		t.Subtotal = t.Subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return t
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
