package sales

import (
	"github.com/google/uuid"
	"github.com/nvalenzo/threadhaus-backend/internal/gateway"
	"github.com/nvalenzo/threadhaus-backend/pkg/enums"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

func toSaleDoc(sale Sale) gateway.SaleDoc {
	doc := gateway.SaleDoc{
		ID:         sale.ID.String(),
		OrderID:    sale.OrderID.String(),
		OccurredAt: sale.OccurredAt,
		Total:      sale.Total.String(),
	}
	doc.Items = make([]gateway.SaleItemDoc, len(sale.Items))
	for i, item := range sale.Items {
		itemDoc := gateway.SaleItemDoc{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.String(),
			Category:  item.Category.String(),
			Color:     item.Color,
			Size:      item.Size,
		}
		if item.VariantID != nil {
			v := item.VariantID.String()
			itemDoc.VariantID = &v
		}
		doc.Items[i] = itemDoc
	}
	return doc
}

func fromSaleDoc(doc gateway.SaleDoc) (Sale, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return Sale{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse sale id")
	}
	orderID, err := uuid.Parse(doc.OrderID)
	if err != nil {
		return Sale{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse order id")
	}
	total, err := decimal.NewFromString(doc.Total)
	if err != nil {
		return Sale{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse sale total")
	}

	sale := Sale{
		ID:         id,
		OrderID:    orderID,
		OccurredAt: doc.OccurredAt,
		Total:      total,
	}
	sale.Items = make([]SaleItem, len(doc.Items))
	for i, itemDoc := range doc.Items {
		productID, err := uuid.Parse(itemDoc.ProductID)
		if err != nil {
			return Sale{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse sale item product id")
		}
		price, err := decimal.NewFromString(itemDoc.UnitPrice)
		if err != nil {
			return Sale{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse sale item price")
		}
		item := SaleItem{
			ProductID: productID,
			Quantity:  itemDoc.Quantity,
			UnitPrice: price,
			Category:  enums.ProductCategory(itemDoc.Category),
			Color:     itemDoc.Color,
			Size:      itemDoc.Size,
		}
		if itemDoc.VariantID != nil {
			variantID, err := uuid.Parse(*itemDoc.VariantID)
			if err != nil {
				return Sale{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse sale item variant id")
			}
			item.VariantID = &variantID
		}
		sale.Items[i] = item
	}
	return sale, nil
}
