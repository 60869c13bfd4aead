package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nvalenzo/threadhaus-backend/internal/catalog"
	"github.com/nvalenzo/threadhaus-backend/pkg/config"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type mockSnapshots struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newMockSnapshots() *mockSnapshots {
	return &mockSnapshots{values: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *mockSnapshots) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	m.values[key] = value.(string)
	m.ttls[key] = ttl
	return nil
}

func (m *mockSnapshots) Get(_ context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (m *mockSnapshots) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *mockSnapshots) CartSnapshotKey(sessionID string) string {
	return "th:cart:" + sessionID
}

type mockProducts struct {
	products map[uuid.UUID]catalog.Product
}

func (m *mockProducts) GetProduct(_ context.Context, productID uuid.UUID) (*catalog.Product, error) {
	p, ok := m.products[productID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &p, nil
}

func newCartService(t *testing.T, products ...catalog.Product) (Service, *mockSnapshots) {
	t.Helper()
	byID := make(map[uuid.UUID]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	snapshots := newMockSnapshots()
	svc, err := NewService(snapshots, &mockProducts{products: byID}, config.CartConfig{SnapshotTTL: time.Hour})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, snapshots
}

func testCatalogProduct(color string) catalog.Product {
	return catalog.Product{
		ID:    uuid.New(),
		Name:  "Linen Shirt",
		Price: decimal.NewFromInt(40),
		Variants: []catalog.Variant{
			{ID: uuid.New(), Color: color, Size: "M", Stock: 5},
		},
	}
}

func TestAddItemSnapshotsProductAndPersists(t *testing.T) {
	product := testCatalogProduct("White")
	svc, snapshots := newCartService(t, product)

	cart, err := svc.AddItem(context.Background(), "sess-1", AddItemInput{
		ProductID: product.ID,
		Quantity:  2,
		Color:     stringPtr("White"),
	})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Name != "Linen Shirt" {
		t.Fatalf("expected snapshotted line, got %+v", cart.Lines)
	}
	if !cart.Lines[0].UnitPrice.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected price 40, got %s", cart.Lines[0].UnitPrice)
	}
	if _, ok := snapshots.values["th:cart:sess-1"]; !ok {
		t.Fatal("snapshot not persisted")
	}
	if snapshots.ttls["th:cart:sess-1"] != time.Hour {
		t.Fatalf("expected 1h ttl, got %v", snapshots.ttls["th:cart:sess-1"])
	}

	// Reload through the persisted snapshot.
	loaded, err := svc.Get(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(loaded.Lines) != 1 || loaded.Lines[0].Quantity != 2 {
		t.Fatalf("snapshot round trip failed: %+v", loaded.Lines)
	}
}

func TestAddItemRejectsUnknownColor(t *testing.T) {
	product := testCatalogProduct("White")
	svc, _ := newCartService(t, product)

	_, err := svc.AddItem(context.Background(), "sess-1", AddItemInput{
		ProductID: product.ID,
		Quantity:  1,
		Color:     stringPtr("Chartreuse"),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetMissingSnapshotIsEmptyCart(t *testing.T) {
	svc, _ := newCartService(t)
	cart, err := svc.Get(context.Background(), "fresh")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
}

func TestClearDeletesSnapshot(t *testing.T) {
	product := testCatalogProduct("White")
	svc, snapshots := newCartService(t, product)

	if _, err := svc.AddItem(context.Background(), "sess-1", AddItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := svc.Clear(context.Background(), "sess-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := snapshots.values["th:cart:sess-1"]; ok {
		t.Fatal("snapshot survived clear")
	}
}
