package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/nvalenzo/threadhaus-backend/pkg/enums"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

func seedProduct(t *testing.T, store *Store, variants ...Variant) Product {
	t.Helper()
	product := Product{
		ID:       uuid.New(),
		SellerID: uuid.New(),
		Name:     "tee",
		Price:    decimal.NewFromInt(20),
		Category: enums.ProductCategoryTops,
		Variants: variants,
	}
	if _, err := store.Upsert(product); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	stored, ok := store.Get(product.ID)
	if !ok {
		t.Fatal("seeded product missing")
	}
	return stored
}

func TestUpsertRejectsDuplicateVariantPair(t *testing.T) {
	store := NewStore()
	_, err := store.Upsert(Product{
		ID:       uuid.New(),
		Name:     "tee",
		Price:    decimal.NewFromInt(10),
		Category: enums.ProductCategoryTops,
		Variants: []Variant{
			{ID: uuid.New(), Color: "Red", Size: "M", Stock: 1},
			{ID: uuid.New(), Color: "Red", Size: "M", Stock: 2},
		},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAddVariantRejectsDuplicatePair(t *testing.T) {
	store := NewStore()
	product := seedProduct(t, store, Variant{ID: uuid.New(), Color: "Red", Size: "M", Stock: 5})

	_, _, err := store.AddVariant(product.ID, Variant{ID: uuid.New(), Color: "Red", Size: "M", Stock: 3})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	// Nothing changed.
	current, _ := store.Get(product.ID)
	if len(current.Variants) != 1 || current.TotalStock != 5 {
		t.Fatalf("duplicate add mutated product: %+v", current)
	}
}

func TestApplySaleRedBlueScenario(t *testing.T) {
	store := NewStore()
	red := Variant{ID: uuid.New(), Color: "Red", Size: "M", Stock: 5}
	blue := Variant{ID: uuid.New(), Color: "Blue", Size: "M", Stock: 3}
	product := seedProduct(t, store, red, blue)

	if product.TotalStock != 8 {
		t.Fatalf("expected totalStock 8, got %d", product.TotalStock)
	}

	updated, prevs := store.ApplySale([]SaleAllocation{{
		ProductID: product.ID,
		Color:     stringPtr("Red"),
		Size:      stringPtr("M"),
		Quantity:  4,
	}})
	if len(updated) != 1 {
		t.Fatalf("expected 1 touched product, got %d", len(updated))
	}

	after := updated[0]
	if after.TotalStock != 4 {
		t.Fatalf("expected totalStock 4, got %d", after.TotalStock)
	}
	if got := after.findVariantByColorSize("Red", "M").Stock; got != 1 {
		t.Fatalf("expected red stock 1, got %d", got)
	}
	if got := after.findVariantByColorSize("Blue", "M").Stock; got != 3 {
		t.Fatalf("expected blue stock unchanged at 3, got %d", got)
	}
	if prevs[product.ID] == nil || prevs[product.ID].TotalStock != 8 {
		t.Fatalf("expected pre-sale snapshot with totalStock 8, got %+v", prevs[product.ID])
	}
}

func TestApplySaleFloorsAtZero(t *testing.T) {
	store := NewStore()
	variant := Variant{ID: uuid.New(), Color: "Red", Size: "S", Stock: 2}
	product := seedProduct(t, store, variant)

	updated, _ := store.ApplySale([]SaleAllocation{{
		ProductID: product.ID,
		VariantID: &variant.ID,
		Quantity:  99,
	}})
	if got := updated[0].findVariant(variant.ID).Stock; got != 0 {
		t.Fatalf("expected floored stock 0, got %d", got)
	}
}

func TestApplySaleVariantIDThenColorSizeFallback(t *testing.T) {
	store := NewStore()
	variant := Variant{ID: uuid.New(), Color: "Green", Size: "L", Stock: 10}
	product := seedProduct(t, store, variant)

	// Historical record with no variant id resolves by (color, size).
	updated, _ := store.ApplySale([]SaleAllocation{{
		ProductID: product.ID,
		Color:     stringPtr("Green"),
		Size:      stringPtr("L"),
		Quantity:  3,
	}})
	if got := updated[0].findVariant(variant.ID).Stock; got != 7 {
		t.Fatalf("expected fallback match to leave stock 7, got %d", got)
	}
}

func TestBulkUpdateStockSetMode(t *testing.T) {
	store := NewStore()
	v1 := Variant{ID: uuid.New(), Color: "Red", Size: "S", Stock: 1}
	v2 := Variant{ID: uuid.New(), Color: "Red", Size: "M", Stock: 2}
	v3 := Variant{ID: uuid.New(), Color: "Red", Size: "L", Stock: 3}
	product := seedProduct(t, store, v1, v2, v3)

	updated, _, err := store.BulkUpdateStock([]StockUpdate{
		{ProductID: product.ID, VariantID: v1.ID, Value: 7},
		{ProductID: product.ID, VariantID: v2.ID, Value: 7},
		{ProductID: product.ID, VariantID: v3.ID, Value: 7},
	}, enums.StockUpdateModeSet)
	if err != nil {
		t.Fatalf("bulk update: %v", err)
	}
	if got := updated[0].TotalStock; got != 7*3 {
		t.Fatalf("expected totalStock %d, got %d", 7*3, got)
	}
}

func TestBulkUpdateStockDecreaseFloorsAtZero(t *testing.T) {
	store := NewStore()
	variant := Variant{ID: uuid.New(), Color: "Black", Size: "M", Stock: 4}
	product := seedProduct(t, store, variant)

	updated, _, err := store.BulkUpdateStock([]StockUpdate{
		{ProductID: product.ID, VariantID: variant.ID, Value: 10},
	}, enums.StockUpdateModeDecrease)
	if err != nil {
		t.Fatalf("bulk update: %v", err)
	}
	if got := updated[0].findVariant(variant.ID).Stock; got != 0 {
		t.Fatalf("expected floored stock 0, got %d", got)
	}
}

func TestBulkUpdateStockIsAllOrNothing(t *testing.T) {
	store := NewStore()
	variant := Variant{ID: uuid.New(), Color: "White", Size: "S", Stock: 5}
	product := seedProduct(t, store, variant)

	_, _, err := store.BulkUpdateStock([]StockUpdate{
		{ProductID: product.ID, VariantID: variant.ID, Value: 9},
		{ProductID: product.ID, VariantID: uuid.New(), Value: 1},
	}, enums.StockUpdateModeSet)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	current, _ := store.Get(product.ID)
	if got := current.findVariant(variant.ID).Stock; got != 5 {
		t.Fatalf("aborted batch mutated stock: %d", got)
	}
}

func TestRestoreReinstatesSnapshot(t *testing.T) {
	store := NewStore()
	variant := Variant{ID: uuid.New(), Color: "Red", Size: "M", Stock: 5}
	product := seedProduct(t, store, variant)

	_, prev, err := store.SetStock(product.ID, variant.ID, 0)
	if err != nil {
		t.Fatalf("set stock: %v", err)
	}
	store.Restore(product.ID, prev)

	current, _ := store.Get(product.ID)
	if got := current.findVariant(variant.ID).Stock; got != 5 {
		t.Fatalf("expected restored stock 5, got %d", got)
	}

	// A nil snapshot removes the product entirely.
	store.Restore(product.ID, nil)
	if _, ok := store.Get(product.ID); ok {
		t.Fatal("expected product removed by nil restore")
	}
}

func TestAdjustStockFloorsAtZero(t *testing.T) {
	store := NewStore()
	variant := Variant{ID: uuid.New(), Color: "Red", Size: "M", Stock: 2}
	product := seedProduct(t, store, variant)

	updated, _, err := store.AdjustStock(product.ID, variant.ID, -5)
	if err != nil {
		t.Fatalf("adjust stock: %v", err)
	}
	if got := updated.findVariant(variant.ID).Stock; got != 0 {
		t.Fatalf("expected floored stock 0, got %d", got)
	}
	if updated.TotalStock != 0 {
		t.Fatalf("expected totalStock 0, got %d", updated.TotalStock)
	}
}
