package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/nvalenzo/threadhaus-backend/internal/gateway"
	"github.com/nvalenzo/threadhaus-backend/pkg/enums"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// toProductDoc flattens a product into its persisted document form.
func toProductDoc(p Product) gateway.ProductDoc {
	doc := gateway.ProductDoc{
		ID:            p.ID.String(),
		SellerID:      p.SellerID.String(),
		Name:          p.Name,
		Price:         p.Price.String(),
		Category:      p.Category.String(),
		IsNew:         p.IsNew,
		IsOnSale:      p.IsOnSale,
		AverageRating: p.AverageRating,
		Description:   p.Description,
		Images:        p.Images,
		TotalStock:    p.TotalStock,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.OriginalPrice != nil {
		v := p.OriginalPrice.String()
		doc.OriginalPrice = &v
	}
	doc.Variants = make([]gateway.VariantDoc, len(p.Variants))
	for i, variant := range p.Variants {
		doc.Variants[i] = gateway.VariantDoc{
			ID:     variant.ID.String(),
			Color:  variant.Color,
			Size:   variant.Size,
			Stock:  variant.Stock,
			SKU:    variant.SKU,
			Images: variant.Images,
		}
	}
	return doc
}

// fromProductDoc hydrates a product from its persisted document, filling
// defaults for absent fields.
func fromProductDoc(doc gateway.ProductDoc) (Product, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return Product{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse product id")
	}
	sellerID, err := uuid.Parse(doc.SellerID)
	if err != nil {
		return Product{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse seller id")
	}
	price, err := decimal.NewFromString(doc.Price)
	if err != nil {
		return Product{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse product price")
	}
	category, err := enums.ParseProductCategory(doc.Category)
	if err != nil {
		return Product{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse product category")
	}

	product := Product{
		ID:            id,
		SellerID:      sellerID,
		Name:          doc.Name,
		Price:         price,
		Category:      category,
		IsNew:         doc.IsNew,
		IsOnSale:      doc.IsOnSale,
		AverageRating: doc.AverageRating,
		Description:   doc.Description,
		Images:        doc.Images,
		UpdatedAt:     doc.UpdatedAt,
	}
	if doc.OriginalPrice != nil {
		original, err := decimal.NewFromString(*doc.OriginalPrice)
		if err != nil {
			return Product{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse original price")
		}
		product.OriginalPrice = &original
	}

	product.Variants = make([]Variant, len(doc.Variants))
	for i, variantDoc := range doc.Variants {
		variantID, err := uuid.Parse(variantDoc.ID)
		if err != nil {
			return Product{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err,
				fmt.Sprintf("parse variant id %q", variantDoc.ID))
		}
		product.Variants[i] = Variant{
			ID:     variantID,
			Color:  variantDoc.Color,
			Size:   variantDoc.Size,
			Stock:  variantDoc.Stock,
			SKU:    variantDoc.SKU,
			Images: variantDoc.Images,
		}
	}
	product.recomputeTotalStock()
	return product, nil
}
