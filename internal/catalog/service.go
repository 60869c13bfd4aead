package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nvalenzo/threadhaus-backend/internal/gateway"
	"github.com/nvalenzo/threadhaus-backend/pkg/enums"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
	"github.com/nvalenzo/threadhaus-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// Service exposes seller catalog management and storefront reads. Mutations
// apply to the in-memory store first and write through to the document
// gateway; a gateway failure rolls the local change back so callers never
// observe state the store could not persist.
type Service interface {
	CreateProduct(ctx context.Context, sellerID uuid.UUID, input CreateProductInput) (*Product, error)
	UpdateProduct(ctx context.Context, sellerID, productID uuid.UUID, input UpdateProductInput) (*Product, error)
	DeleteProduct(ctx context.Context, sellerID, productID uuid.UUID) error
	AddVariant(ctx context.Context, sellerID, productID uuid.UUID, input VariantInput) (*Product, error)
	UpdateVariant(ctx context.Context, sellerID, productID, variantID uuid.UUID, update VariantUpdate) (*Product, error)
	RemoveVariant(ctx context.Context, sellerID, productID, variantID uuid.UUID) (*Product, error)
	SetStock(ctx context.Context, sellerID, productID, variantID uuid.UUID, stock int) (*Product, error)
	AdjustStock(ctx context.Context, sellerID, productID, variantID uuid.UUID, delta int) (*Product, error)
	BulkUpdateStock(ctx context.Context, sellerID uuid.UUID, entries []StockUpdate, mode enums.StockUpdateMode) ([]Product, error)
	ApplySale(ctx context.Context, allocations []SaleAllocation) ([]Product, error)
	SetAverageRating(ctx context.Context, productID uuid.UUID, rating *float64) (*Product, error)
	Browse(ctx context.Context, opts FilterOptions) []Product
	GetProduct(ctx context.Context, productID uuid.UUID) (*Product, error)
	ListSellerProducts(ctx context.Context, sellerID uuid.UUID) []Product
	LoadSellerCatalog(ctx context.Context, sellerID uuid.UUID) (int, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name          string
	Price         decimal.Decimal
	OriginalPrice *decimal.Decimal
	Category      enums.ProductCategory
	IsNew         bool
	IsOnSale      bool
	Description   *string
	Images        []string
	Variants      []VariantInput
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name          *string
	Price         *decimal.Decimal
	OriginalPrice *decimal.Decimal
	Category      *enums.ProductCategory
	IsNew         *bool
	IsOnSale      *bool
	Description   *string
	Images        *[]string
}

// VariantInput captures a new (color, size) stock entry.
type VariantInput struct {
	Color  string
	Size   string
	Stock  int
	SKU    *string
	Images []string
}

type documentStore interface {
	PutProduct(ctx context.Context, doc gateway.ProductDoc) error
	DeleteProduct(ctx context.Context, productID string) error
	ListProducts(ctx context.Context, sellerID string) ([]gateway.ProductDoc, error)
}

type service struct {
	store *Store
	docs  documentStore
	log   *logger.Logger
}

// NewService constructs the catalog service.
func NewService(store *Store, docs documentStore, log *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("catalog store required")
	}
	if docs == nil {
		return nil, fmt.Errorf("document store required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{store: store, docs: docs, log: log}, nil
}

// CreateProduct validates, stores, and persists a new product.
func (s *service) CreateProduct(ctx context.Context, sellerID uuid.UUID, input CreateProductInput) (*Product, error) {
	if err := validateProductBasics(input.Name, input.Price, input.OriginalPrice, input.Category); err != nil {
		return nil, err
	}

	product := Product{
		ID:            uuid.New(),
		SellerID:      sellerID,
		Name:          strings.TrimSpace(input.Name),
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		Category:      input.Category,
		IsNew:         input.IsNew,
		IsOnSale:      input.IsOnSale,
		Description:   input.Description,
		Images:        input.Images,
	}
	for _, v := range input.Variants {
		if v.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
		}
		product.Variants = append(product.Variants, Variant{
			ID:     uuid.New(),
			Color:  strings.TrimSpace(v.Color),
			Size:   strings.TrimSpace(v.Size),
			Stock:  v.Stock,
			SKU:    v.SKU,
			Images: v.Images,
		})
	}

	prev, err := s.store.Upsert(product)
	if err != nil {
		return nil, err
	}
	return s.writeThrough(ctx, product.ID, prev)
}

// UpdateProduct applies optional field changes and persists the result.
func (s *service) UpdateProduct(ctx context.Context, sellerID, productID uuid.UUID, input UpdateProductInput) (*Product, error) {
	current, err := s.ownedProduct(sellerID, productID)
	if err != nil {
		return nil, err
	}

	applyProductUpdate(&current, input)
	if err := validateProductBasics(current.Name, current.Price, current.OriginalPrice, current.Category); err != nil {
		return nil, err
	}

	prev, err := s.store.Upsert(current)
	if err != nil {
		return nil, err
	}
	return s.writeThrough(ctx, productID, prev)
}

// DeleteProduct removes a product locally and from the gateway.
func (s *service) DeleteProduct(ctx context.Context, sellerID, productID uuid.UUID) error {
	if _, err := s.ownedProduct(sellerID, productID); err != nil {
		return err
	}

	prev, err := s.store.Delete(productID)
	if err != nil {
		return err
	}
	if err := s.docs.DeleteProduct(ctx, productID.String()); err != nil {
		s.store.Restore(productID, prev)
		s.log.Warn(ctx, "product delete rolled back after gateway failure")
		return err
	}
	return nil
}

// AddVariant appends a new (color, size) entry to an owned product.
func (s *service) AddVariant(ctx context.Context, sellerID, productID uuid.UUID, input VariantInput) (*Product, error) {
	if _, err := s.ownedProduct(sellerID, productID); err != nil {
		return nil, err
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}

	variant := Variant{
		ID:     uuid.New(),
		Color:  strings.TrimSpace(input.Color),
		Size:   strings.TrimSpace(input.Size),
		Stock:  input.Stock,
		SKU:    input.SKU,
		Images: input.Images,
	}
	if variant.Color == "" || variant.Size == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "color and size are required")
	}

	_, prev, err := s.store.AddVariant(productID, variant)
	if err != nil {
		return nil, err
	}
	return s.writeThrough(ctx, productID, prev)
}

// UpdateVariant mutates variant fields, preserving (color, size) uniqueness.
func (s *service) UpdateVariant(ctx context.Context, sellerID, productID, variantID uuid.UUID, update VariantUpdate) (*Product, error) {
	if _, err := s.ownedProduct(sellerID, productID); err != nil {
		return nil, err
	}
	_, prev, err := s.store.UpdateVariant(productID, variantID, update)
	if err != nil {
		return nil, err
	}
	return s.writeThrough(ctx, productID, prev)
}

// RemoveVariant deletes a variant from an owned product.
func (s *service) RemoveVariant(ctx context.Context, sellerID, productID, variantID uuid.UUID) (*Product, error) {
	if _, err := s.ownedProduct(sellerID, productID); err != nil {
		return nil, err
	}
	_, prev, err := s.store.RemoveVariant(productID, variantID)
	if err != nil {
		return nil, err
	}
	return s.writeThrough(ctx, productID, prev)
}

// SetStock writes an exact stock count (seller correction).
func (s *service) SetStock(ctx context.Context, sellerID, productID, variantID uuid.UUID, stock int) (*Product, error) {
	if _, err := s.ownedProduct(sellerID, productID); err != nil {
		return nil, err
	}
	_, prev, err := s.store.SetStock(productID, variantID, stock)
	if err != nil {
		return nil, err
	}
	return s.writeThrough(ctx, productID, prev)
}

// AdjustStock applies a signed delta, floored at 0.
func (s *service) AdjustStock(ctx context.Context, sellerID, productID, variantID uuid.UUID, delta int) (*Product, error) {
	if _, err := s.ownedProduct(sellerID, productID); err != nil {
		return nil, err
	}
	_, prev, err := s.store.AdjustStock(productID, variantID, delta)
	if err != nil {
		return nil, err
	}
	return s.writeThrough(ctx, productID, prev)
}

// BulkUpdateStock applies a batch of stock entries in one mode, all-or-nothing
// locally, then persists every affected product.
func (s *service) BulkUpdateStock(ctx context.Context, sellerID uuid.UUID, entries []StockUpdate, mode enums.StockUpdateMode) ([]Product, error) {
	if len(entries) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one stock entry is required")
	}
	for _, entry := range entries {
		if _, err := s.ownedProduct(sellerID, entry.ProductID); err != nil {
			return nil, err
		}
	}

	updated, prevs, err := s.store.BulkUpdateStock(entries, mode)
	if err != nil {
		return nil, err
	}
	if err := s.persistBatch(ctx, updated, prevs); err != nil {
		return nil, err
	}
	return updated, nil
}

// ApplySale decrements variant stock for a recorded sale and persists the
// touched products. Unknown products are skipped; historical sales may
// reference delisted items.
func (s *service) ApplySale(ctx context.Context, allocations []SaleAllocation) ([]Product, error) {
	updated, prevs := s.store.ApplySale(allocations)
	if len(updated) == 0 {
		return nil, nil
	}
	if err := s.persistBatch(ctx, updated, prevs); err != nil {
		return nil, err
	}
	return updated, nil
}

// SetAverageRating writes the recomputed review average through to the store
// and gateway.
func (s *service) SetAverageRating(ctx context.Context, productID uuid.UUID, rating *float64) (*Product, error) {
	_, prev, err := s.store.SetAverageRating(productID, rating)
	if err != nil {
		return nil, err
	}
	return s.writeThrough(ctx, productID, prev)
}

// Browse returns the filtered, ordered storefront snapshot.
func (s *service) Browse(_ context.Context, opts FilterOptions) []Product {
	return ApplyFilters(s.store.List(), opts)
}

// GetProduct returns one product by id.
func (s *service) GetProduct(_ context.Context, productID uuid.UUID) (*Product, error) {
	product, ok := s.store.Get(productID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &product, nil
}

// ListSellerProducts returns the seller's catalog snapshot.
func (s *service) ListSellerProducts(_ context.Context, sellerID uuid.UUID) []Product {
	return s.store.ListBySeller(sellerID)
}

// LoadSellerCatalog hydrates the store from the seller's persisted product
// documents, returning how many were loaded. Malformed documents abort the
// load rather than silently dropping inventory.
func (s *service) LoadSellerCatalog(ctx context.Context, sellerID uuid.UUID) (int, error) {
	docs, err := s.docs.ListProducts(ctx, sellerID.String())
	if err != nil {
		return 0, err
	}
	loaded := 0
	for _, doc := range docs {
		product, err := fromProductDoc(doc)
		if err != nil {
			return loaded, err
		}
		if _, err := s.store.Upsert(product); err != nil {
			return loaded, err
		}
		loaded++
	}
	return loaded, nil
}

// writeThrough persists the product's current state, restoring the
// pre-mutation snapshot on gateway failure.
func (s *service) writeThrough(ctx context.Context, productID uuid.UUID, prev *Product) (*Product, error) {
	current, ok := s.store.Get(productID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product vanished during write-through")
	}
	if err := s.docs.PutProduct(ctx, toProductDoc(current)); err != nil {
		s.store.Restore(productID, prev)
		s.log.Warn(ctx, "product mutation rolled back after gateway failure")
		return nil, err
	}
	return &current, nil
}

// persistBatch writes every affected product; any failure restores the whole
// batch locally. Gateway documents already written stay last-write-wins and
// converge on the next successful mutation.
func (s *service) persistBatch(ctx context.Context, updated []Product, prevs map[uuid.UUID]*Product) error {
	var errs []error
	for _, product := range updated {
		if err := s.docs.PutProduct(ctx, toProductDoc(product)); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	s.store.RestoreAll(prevs)
	s.log.Warn(ctx, "stock batch rolled back after gateway failure")
	return multierr.Combine(errs...)
}

func (s *service) ownedProduct(sellerID, productID uuid.UUID) (Product, error) {
	product, ok := s.store.Get(productID)
	if !ok {
		return Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if product.SellerID != sellerID {
		return Product{}, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to seller")
	}
	return product, nil
}

func validateProductBasics(name string, price decimal.Decimal, originalPrice *decimal.Decimal, category enums.ProductCategory) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	if originalPrice != nil && !originalPrice.GreaterThan(price) {
		return pkgerrors.New(pkgerrors.CodeValidation, "original_price must exceed price")
	}
	if !category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product category")
	}
	return nil
}

func applyProductUpdate(product *Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.OriginalPrice != nil {
		product.OriginalPrice = input.OriginalPrice
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.IsNew != nil {
		product.IsNew = *input.IsNew
	}
	if input.IsOnSale != nil {
		product.IsOnSale = *input.IsOnSale
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Images != nil {
		product.Images = append([]string(nil), (*input.Images)...)
	}
}
