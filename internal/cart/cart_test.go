package cart

import (
	"testing"

	"github.com/google/uuid"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

func stringPtr(v string) *string { return &v }

func line(productID uuid.UUID, color string, qty int, price int64) Line {
	l := Line{
		ProductID: productID,
		Name:      "tee",
		UnitPrice: decimal.NewFromInt(price),
		Quantity:  qty,
	}
	if color != "" {
		l.Color = stringPtr(color)
	}
	return l
}

func TestAddMergesOnProductAndColor(t *testing.T) {
	productID := uuid.New()
	cart, err := Cart{}.Add(line(productID, "Red", 1, 10))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	cart, err = cart.Add(line(productID, "red", 2, 10))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 3 {
		t.Fatalf("expected merged line qty 3, got %+v", cart.Lines)
	}

	// A different color is a separate line.
	cart, err = cart.Add(line(productID, "Blue", 1, 10))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(cart.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(cart.Lines))
	}
}

func TestSetQuantityAndRemoveUseSameKey(t *testing.T) {
	productID := uuid.New()
	cart, _ := Cart{}.Add(line(productID, "Red", 1, 10))
	cart, _ = cart.Add(line(productID, "Blue", 1, 10))

	cart, err := cart.SetQuantity(productID, stringPtr("Red"), 5)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	for _, l := range cart.Lines {
		if *l.Color == "Red" && l.Quantity != 5 {
			t.Fatalf("expected red qty 5, got %d", l.Quantity)
		}
		if *l.Color == "Blue" && l.Quantity != 1 {
			t.Fatalf("blue line mutated: %d", l.Quantity)
		}
	}

	cart, err = cart.Remove(productID, stringPtr("Blue"))
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(cart.Lines) != 1 || *cart.Lines[0].Color != "Red" {
		t.Fatalf("expected only red line, got %+v", cart.Lines)
	}
}

func TestSetQuantityMissingLine(t *testing.T) {
	_, err := Cart{}.SetQuantity(uuid.New(), nil, 2)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	_, err := Cart{}.Add(line(uuid.New(), "Red", 0, 10))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTotals(t *testing.T) {
	cart, _ := Cart{}.Add(line(uuid.New(), "Red", 2, 10))
	cart, _ = cart.Add(line(uuid.New(), "", 1, 25))

	totals := cart.Totals()
	if totals.ItemCount != 3 {
		t.Fatalf("expected 3 items, got %d", totals.ItemCount)
	}
	if !totals.Subtotal.Equal(decimal.NewFromInt(45)) {
		t.Fatalf("expected subtotal 45, got %s", totals.Subtotal)
	}

	if got := (Cart{}).Totals(); got.ItemCount != 0 || !got.Subtotal.IsZero() {
		t.Fatalf("expected zero totals for empty cart, got %+v", got)
	}
}

func TestOperationsDoNotMutateReceiver(t *testing.T) {
	productID := uuid.New()
	original, _ := Cart{}.Add(line(productID, "Red", 1, 10))

	if _, err := original.SetQuantity(productID, stringPtr("Red"), 9); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if original.Lines[0].Quantity != 1 {
		t.Fatalf("receiver mutated: %+v", original.Lines)
	}
}
