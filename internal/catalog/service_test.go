package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/nvalenzo/threadhaus-backend/internal/gateway"
	"github.com/nvalenzo/threadhaus-backend/pkg/enums"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
	"github.com/nvalenzo/threadhaus-backend/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type mockDocStore struct {
	putErr    error
	deleteErr error
	puts      []gateway.ProductDoc
	deletes   []string
	listDocs  []gateway.ProductDoc
	listErr   error
}

func (m *mockDocStore) PutProduct(_ context.Context, doc gateway.ProductDoc) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.puts = append(m.puts, doc)
	return nil
}

func (m *mockDocStore) DeleteProduct(_ context.Context, productID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletes = append(m.deletes, productID)
	return nil
}

func (m *mockDocStore) ListProducts(_ context.Context, _ string) ([]gateway.ProductDoc, error) {
	return m.listDocs, m.listErr
}

func newTestService(t *testing.T, docs *mockDocStore) (Service, *Store) {
	t.Helper()
	store := NewStore()
	log := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
	svc, err := NewService(store, docs, log)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, store
}

func TestCreateProductWritesThrough(t *testing.T) {
	docs := &mockDocStore{}
	svc, store := newTestService(t, docs)
	sellerID := uuid.New()

	created, err := svc.CreateProduct(context.Background(), sellerID, CreateProductInput{
		Name:     "Linen Shirt",
		Price:    decimal.NewFromInt(40),
		Category: enums.ProductCategoryTops,
		Variants: []VariantInput{
			{Color: "White", Size: "M", Stock: 5},
			{Color: "White", Size: "L", Stock: 2},
		},
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if created.TotalStock != 7 {
		t.Fatalf("expected totalStock 7, got %d", created.TotalStock)
	}
	if len(docs.puts) != 1 || docs.puts[0].ID != created.ID.String() {
		t.Fatalf("expected one gateway write for %s, got %+v", created.ID, docs.puts)
	}
	if _, ok := store.Get(created.ID); !ok {
		t.Fatal("product missing from store")
	}
}

func TestCreateProductValidatesOriginalPrice(t *testing.T) {
	svc, _ := newTestService(t, &mockDocStore{})
	price := decimal.NewFromInt(40)

	_, err := svc.CreateProduct(context.Background(), uuid.New(), CreateProductInput{
		Name:          "Shirt",
		Price:         price,
		OriginalPrice: &price, // must strictly exceed price
		Category:      enums.ProductCategoryTops,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGatewayFailureRollsBackLocalState(t *testing.T) {
	docs := &mockDocStore{}
	svc, store := newTestService(t, docs)
	sellerID := uuid.New()

	created, err := svc.CreateProduct(context.Background(), sellerID, CreateProductInput{
		Name:     "Tee",
		Price:    decimal.NewFromInt(15),
		Category: enums.ProductCategoryTops,
		Variants: []VariantInput{{Color: "Red", Size: "M", Stock: 5}},
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	variantID := created.Variants[0].ID

	docs.putErr = pkgerrors.New(pkgerrors.CodeDependency, "gateway down")
	_, err = svc.SetStock(context.Background(), sellerID, created.ID, variantID, 0)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}

	current, _ := store.Get(created.ID)
	if got := current.findVariant(variantID).Stock; got != 5 {
		t.Fatalf("expected rollback to stock 5, got %d", got)
	}
}

func TestCreateRollbackRemovesProduct(t *testing.T) {
	docs := &mockDocStore{putErr: pkgerrors.New(pkgerrors.CodeDependency, "gateway down")}
	svc, store := newTestService(t, docs)

	_, err := svc.CreateProduct(context.Background(), uuid.New(), CreateProductInput{
		Name:     "Tee",
		Price:    decimal.NewFromInt(15),
		Category: enums.ProductCategoryTops,
	})
	if err == nil {
		t.Fatal("expected gateway error")
	}
	if got := len(store.List()); got != 0 {
		t.Fatalf("expected empty store after rollback, got %d products", got)
	}
}

func TestSellerOwnershipEnforced(t *testing.T) {
	docs := &mockDocStore{}
	svc, _ := newTestService(t, docs)
	owner := uuid.New()

	created, err := svc.CreateProduct(context.Background(), owner, CreateProductInput{
		Name:     "Tee",
		Price:    decimal.NewFromInt(15),
		Category: enums.ProductCategoryTops,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	err = svc.DeleteProduct(context.Background(), uuid.New(), created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestBulkUpdateStockPersistsEachProduct(t *testing.T) {
	docs := &mockDocStore{}
	svc, _ := newTestService(t, docs)
	sellerID := uuid.New()

	created, err := svc.CreateProduct(context.Background(), sellerID, CreateProductInput{
		Name:     "Tee",
		Price:    decimal.NewFromInt(15),
		Category: enums.ProductCategoryTops,
		Variants: []VariantInput{
			{Color: "Red", Size: "M", Stock: 1},
			{Color: "Red", Size: "L", Stock: 2},
		},
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	docs.puts = nil

	updated, err := svc.BulkUpdateStock(context.Background(), sellerID, []StockUpdate{
		{ProductID: created.ID, VariantID: created.Variants[0].ID, Value: 10},
		{ProductID: created.ID, VariantID: created.Variants[1].ID, Value: 10},
	}, enums.StockUpdateModeSet)
	if err != nil {
		t.Fatalf("bulk update: %v", err)
	}
	if updated[0].TotalStock != 20 {
		t.Fatalf("expected totalStock 20, got %d", updated[0].TotalStock)
	}
	if len(docs.puts) != 1 {
		t.Fatalf("expected one gateway write per affected product, got %d", len(docs.puts))
	}
}

func TestLoadSellerCatalogHydratesStore(t *testing.T) {
	productID := uuid.New()
	sellerID := uuid.New()
	docs := &mockDocStore{listDocs: []gateway.ProductDoc{{
		ID:       productID.String(),
		SellerID: sellerID.String(),
		Name:     "Wool Coat",
		Price:    "120.50",
		Category: "outerwear",
		Variants: []gateway.VariantDoc{
			{ID: uuid.NewString(), Color: "Gray", Size: "M", Stock: 3},
		},
	}}}
	svc, store := newTestService(t, docs)

	loaded, err := svc.LoadSellerCatalog(context.Background(), sellerID)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if loaded != 1 {
		t.Fatalf("expected 1 loaded, got %d", loaded)
	}

	product, ok := store.Get(productID)
	if !ok {
		t.Fatal("hydrated product missing")
	}
	if !product.Price.Equal(decimal.RequireFromString("120.50")) {
		t.Fatalf("unexpected price %s", product.Price)
	}
	if product.TotalStock != 3 {
		t.Fatalf("expected totalStock 3, got %d", product.TotalStock)
	}
}
