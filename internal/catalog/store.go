package catalog

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nvalenzo/threadhaus-backend/pkg/enums"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
)

// Store holds the in-memory catalog. It is owned by the application root and
// injected into every consumer; there are no package-level singletons. All
// mutations run under one write lock so a batch is observed either fully
// applied or not at all.
type Store struct {
	mu       sync.RWMutex
	products map[uuid.UUID]*Product
}

// NewStore builds an empty catalog store.
func NewStore() *Store {
	return &Store{products: make(map[uuid.UUID]*Product)}
}

// VariantUpdate carries optional variant mutation values.
type VariantUpdate struct {
	Color  *string
	Size   *string
	Stock  *int
	SKU    *string
	Images *[]string
}

// SaleAllocation is one sold line to apply against variant stock. Matching is
// by VariantID when present, else by (color, size); historical sale records do
// not all carry a variant id.
type SaleAllocation struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Color     *string
	Size      *string
	Quantity  int
}

// StockUpdate is one entry of a bulk inventory update. Value is the new stock
// in set mode, otherwise the delta.
type StockUpdate struct {
	ProductID uuid.UUID
	VariantID uuid.UUID
	Value     int
}

// Get returns a deep copy of the product.
func (s *Store) Get(id uuid.UUID) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return Product{}, false
	}
	return p.Clone(), true
}

// List returns deep copies of every product, ordered by name then id for a
// stable snapshot.
func (s *Store) List() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p.Clone())
	}
	sortSnapshot(out)
	return out
}

// ListBySeller returns deep copies of the seller's products.
func (s *Store) ListBySeller(sellerID uuid.UUID) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, 0)
	for _, p := range s.products {
		if p.SellerID == sellerID {
			out = append(out, p.Clone())
		}
	}
	sortSnapshot(out)
	return out
}

func sortSnapshot(products []Product) {
	sort.SliceStable(products, func(i, j int) bool {
		if products[i].Name != products[j].Name {
			return products[i].Name < products[j].Name
		}
		return products[i].ID.String() < products[j].ID.String()
	})
}

// Upsert stores the product and returns the previous snapshot, nil when new.
// TotalStock is recomputed from the variant set; duplicate (color, size)
// pairs are rejected before anything changes.
func (s *Store) Upsert(product Product) (*Product, error) {
	if err := ensureUniqueVariantPairs(product.Variants); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var prev *Product
	if existing, ok := s.products[product.ID]; ok {
		snapshot := existing.Clone()
		prev = &snapshot
	}

	stored := product.Clone()
	stored.recomputeTotalStock()
	stored.UpdatedAt = time.Now().UTC()
	s.products[product.ID] = &stored
	return prev, nil
}

// Delete removes the product and returns its final snapshot.
func (s *Store) Delete(id uuid.UUID) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	snapshot := existing.Clone()
	delete(s.products, id)
	return &snapshot, nil
}

// Restore reinstates a pre-mutation snapshot; a nil snapshot removes the
// product. Used to unwind local state when a gateway write fails.
func (s *Store) Restore(id uuid.UUID, prev *Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restoreLocked(id, prev)
}

// RestoreAll reinstates a batch of pre-mutation snapshots under one lock.
func (s *Store) RestoreAll(prevs map[uuid.UUID]*Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, prev := range prevs {
		s.restoreLocked(id, prev)
	}
}

func (s *Store) restoreLocked(id uuid.UUID, prev *Product) {
	if prev == nil {
		delete(s.products, id)
		return
	}
	snapshot := prev.Clone()
	s.products[id] = &snapshot
}

// AddVariant appends a variant, rejecting duplicate (color, size) pairs.
// Returns the updated product and the pre-mutation snapshot.
func (s *Store) AddVariant(productID uuid.UUID, variant Variant) (Product, *Product, error) {
	return s.mutate(productID, func(p *Product) error {
		if p.findVariantByColorSize(variant.Color, variant.Size) != nil {
			return pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("variant (%s, %s) already exists", variant.Color, variant.Size))
		}
		p.Variants = append(p.Variants, variant.Clone())
		return nil
	})
}

// UpdateVariant applies optional field changes to an existing variant.
func (s *Store) UpdateVariant(productID, variantID uuid.UUID, update VariantUpdate) (Product, *Product, error) {
	return s.mutate(productID, func(p *Product) error {
		variant := p.findVariant(variantID)
		if variant == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}

		color, size := variant.Color, variant.Size
		if update.Color != nil {
			color = *update.Color
		}
		if update.Size != nil {
			size = *update.Size
		}
		if existing := p.findVariantByColorSize(color, size); existing != nil && existing.ID != variantID {
			return pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("variant (%s, %s) already exists", color, size))
		}

		variant.Color = color
		variant.Size = size
		if update.Stock != nil {
			if *update.Stock < 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
			}
			variant.Stock = *update.Stock
		}
		if update.SKU != nil {
			sku := *update.SKU
			variant.SKU = &sku
		}
		if update.Images != nil {
			variant.Images = append([]string(nil), (*update.Images)...)
		}
		return nil
	})
}

// RemoveVariant deletes a variant from the product.
func (s *Store) RemoveVariant(productID, variantID uuid.UUID) (Product, *Product, error) {
	return s.mutate(productID, func(p *Product) error {
		for i := range p.Variants {
			if p.Variants[i].ID == variantID {
				p.Variants = append(p.Variants[:i], p.Variants[i+1:]...)
				return nil
			}
		}
		return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
	})
}

// SetStock writes an exact stock count for a variant (seller correction).
func (s *Store) SetStock(productID, variantID uuid.UUID, stock int) (Product, *Product, error) {
	if stock < 0 {
		return Product{}, nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}
	return s.mutate(productID, func(p *Product) error {
		variant := p.findVariant(variantID)
		if variant == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		variant.Stock = stock
		return nil
	})
}

// AdjustStock applies a signed delta to a variant's stock, floored at 0.
func (s *Store) AdjustStock(productID, variantID uuid.UUID, delta int) (Product, *Product, error) {
	return s.mutate(productID, func(p *Product) error {
		variant := p.findVariant(variantID)
		if variant == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		variant.Stock = flooredStock(variant.Stock + delta)
		return nil
	})
}

// mutate runs fn against the live product under the write lock, recomputing
// TotalStock once afterwards. The pre-mutation snapshot is returned for
// rollback; fn errors leave the store untouched.
func (s *Store) mutate(productID uuid.UUID, fn func(*Product) error) (Product, *Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[productID]
	if !ok {
		return Product{}, nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	prev := existing.Clone()
	next := existing.Clone()
	if err := fn(&next); err != nil {
		return Product{}, nil, err
	}
	next.recomputeTotalStock()
	next.UpdatedAt = time.Now().UTC()
	s.products[productID] = &next

	return next.Clone(), &prev, nil
}

// ApplySale decrements matching variant stock for every sold line, floored at
// 0. Lines for unknown products are skipped: historical sales may reference
// delisted items. Each affected product's TotalStock is recomputed once.
func (s *Store) ApplySale(allocations []SaleAllocation) ([]Product, map[uuid.UUID]*Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevs := make(map[uuid.UUID]*Product)
	touched := make(map[uuid.UUID]*Product)

	for _, alloc := range allocations {
		product, ok := s.products[alloc.ProductID]
		if !ok || alloc.Quantity <= 0 {
			continue
		}

		variant := matchVariant(product, alloc)
		if variant == nil {
			continue
		}

		if _, seen := prevs[alloc.ProductID]; !seen {
			snapshot := product.Clone()
			prevs[alloc.ProductID] = &snapshot
		}
		variant.Stock = flooredStock(variant.Stock - alloc.Quantity)
		touched[alloc.ProductID] = product
	}

	now := time.Now().UTC()
	updated := make([]Product, 0, len(touched))
	for _, product := range touched {
		product.recomputeTotalStock()
		product.UpdatedAt = now
		updated = append(updated, product.Clone())
	}
	sortSnapshot(updated)
	return updated, prevs
}

// BulkUpdateStock applies every entry under one lock acquisition with a
// single mode for the whole batch. The batch is all-or-nothing: any unknown
// product/variant or negative set value aborts before anything is committed,
// and each affected product's TotalStock is recomputed once per batch.
func (s *Store) BulkUpdateStock(entries []StockUpdate, mode enums.StockUpdateMode) ([]Product, map[uuid.UUID]*Product, error) {
	if !mode.IsValid() {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid stock update mode")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Stage on copies so a mid-batch failure never leaves partial totals.
	staged := make(map[uuid.UUID]*Product)
	prevs := make(map[uuid.UUID]*Product)

	for _, entry := range entries {
		product, ok := staged[entry.ProductID]
		if !ok {
			live, exists := s.products[entry.ProductID]
			if !exists {
				return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound,
					fmt.Sprintf("product %s not found", entry.ProductID))
			}
			snapshot := live.Clone()
			prevs[entry.ProductID] = &snapshot
			copied := live.Clone()
			product = &copied
			staged[entry.ProductID] = product
		}

		variant := product.findVariant(entry.VariantID)
		if variant == nil {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("variant %s not found", entry.VariantID))
		}

		switch mode {
		case enums.StockUpdateModeSet:
			if entry.Value < 0 {
				return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
			}
			variant.Stock = entry.Value
		case enums.StockUpdateModeIncrease:
			variant.Stock = flooredStock(variant.Stock + entry.Value)
		case enums.StockUpdateModeDecrease:
			variant.Stock = flooredStock(variant.Stock - entry.Value)
		}
	}

	now := time.Now().UTC()
	updated := make([]Product, 0, len(staged))
	for id, product := range staged {
		product.recomputeTotalStock()
		product.UpdatedAt = now
		s.products[id] = product
		updated = append(updated, product.Clone())
	}
	sortSnapshot(updated)
	return updated, prevs, nil
}

// SetAverageRating writes the recomputed review average for a product.
func (s *Store) SetAverageRating(productID uuid.UUID, rating *float64) (Product, *Product, error) {
	return s.mutate(productID, func(p *Product) error {
		if rating == nil {
			p.AverageRating = nil
			return nil
		}
		if *rating < 0 || *rating > 5 {
			return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 0 and 5")
		}
		v := *rating
		p.AverageRating = &v
		return nil
	})
}

func matchVariant(product *Product, alloc SaleAllocation) *Variant {
	if alloc.VariantID != nil {
		if v := product.findVariant(*alloc.VariantID); v != nil {
			return v
		}
	}
	if alloc.Color != nil && alloc.Size != nil {
		return product.findVariantByColorSize(*alloc.Color, *alloc.Size)
	}
	return nil
}

func flooredStock(value int) int {
	if value < 0 {
		return 0
	}
	return value
}

func ensureUniqueVariantPairs(variants []Variant) error {
	seen := make(map[string]struct{}, len(variants))
	for _, v := range variants {
		key := v.Color + "\x00" + v.Size
		if _, dup := seen[key]; dup {
			return pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("variant (%s, %s) already exists", v.Color, v.Size))
		}
		seen[key] = struct{}{}
	}
	return nil
}
