package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/nvalenzo/threadhaus-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Product is a seller listing with its inventory variants. TotalStock is
// always the sum of variant stock; it is recomputed on every variant
// mutation and never written independently.
type Product struct {
	ID            uuid.UUID
	SellerID      uuid.UUID
	Name          string
	Price         decimal.Decimal
	OriginalPrice *decimal.Decimal
	Category      enums.ProductCategory
	IsNew         bool
	IsOnSale      bool
	AverageRating *float64
	Description   *string
	Images        []string
	Variants      []Variant
	TotalStock    int
	UpdatedAt     time.Time
}

// Variant is a (color, size) stock entry. The pair is unique within a
// product's variant set.
type Variant struct {
	ID     uuid.UUID
	Color  string
	Size   string
	Stock  int
	SKU    *string
	Images []string
}

// Clone returns a deep copy safe to hand outside the store's lock.
func (p Product) Clone() Product {
	out := p
	if p.OriginalPrice != nil {
		v := *p.OriginalPrice
		out.OriginalPrice = &v
	}
	if p.AverageRating != nil {
		v := *p.AverageRating
		out.AverageRating = &v
	}
	if p.Description != nil {
		v := *p.Description
		out.Description = &v
	}
	if p.Images != nil {
		out.Images = append([]string(nil), p.Images...)
	}
	if p.Variants != nil {
		out.Variants = make([]Variant, len(p.Variants))
		for i, variant := range p.Variants {
			out.Variants[i] = variant.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the variant.
func (v Variant) Clone() Variant {
	out := v
	if v.SKU != nil {
		sku := *v.SKU
		out.SKU = &sku
	}
	if v.Images != nil {
		out.Images = append([]string(nil), v.Images...)
	}
	return out
}

func (p *Product) recomputeTotalStock() {
	total := 0
	for _, v := range p.Variants {
		total += v.Stock
	}
	p.TotalStock = total
}

func (p *Product) findVariant(variantID uuid.UUID) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}

func (p *Product) findVariantByColorSize(color, size string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].Color == color && p.Variants[i].Size == size {
			return &p.Variants[i]
		}
	}
	return nil
}
