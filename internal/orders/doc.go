package orders

import (
	"github.com/google/uuid"
	"github.com/nvalenzo/threadhaus-backend/internal/gateway"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

func toOrderDoc(order Order) gateway.OrderDoc {
	doc := gateway.OrderDoc{
		ID:       order.ID.String(),
		PlacedAt: order.PlacedAt,
		Total:    order.Total.String(),
		ShippingTo: gateway.AddressDoc{
			ID:         order.ID.String(),
			Label:      order.ShippingTo.Label,
			Line1:      order.ShippingTo.Line1,
			Line2:      order.ShippingTo.Line2,
			City:       order.ShippingTo.City,
			State:      order.ShippingTo.State,
			PostalCode: order.ShippingTo.PostalCode,
			Country:    order.ShippingTo.Country,
		},
	}
	doc.Items = make([]gateway.OrderItemDoc, len(order.Items))
	for i, item := range order.Items {
		doc.Items[i] = gateway.OrderItemDoc{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.String(),
			Color:     item.Color,
			Size:      item.Size,
		}
	}
	return doc
}

func fromOrderDoc(doc gateway.OrderDoc) (Order, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return Order{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse order id")
	}
	total, err := decimal.NewFromString(doc.Total)
	if err != nil {
		return Order{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse order total")
	}

	order := Order{
		ID:       id,
		PlacedAt: doc.PlacedAt,
		Total:    total,
		ShippingTo: Address{
			Label:      doc.ShippingTo.Label,
			Line1:      doc.ShippingTo.Line1,
			Line2:      doc.ShippingTo.Line2,
			City:       doc.ShippingTo.City,
			State:      doc.ShippingTo.State,
			PostalCode: doc.ShippingTo.PostalCode,
			Country:    doc.ShippingTo.Country,
		},
	}
	order.Items = make([]Item, len(doc.Items))
	for i, itemDoc := range doc.Items {
		productID, err := uuid.Parse(itemDoc.ProductID)
		if err != nil {
			return Order{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse order item product id")
		}
		price, err := decimal.NewFromString(itemDoc.UnitPrice)
		if err != nil {
			return Order{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse order item price")
		}
		order.Items[i] = Item{
			ProductID: productID,
			Name:      itemDoc.Name,
			Quantity:  itemDoc.Quantity,
			UnitPrice: price,
			Color:     itemDoc.Color,
			Size:      itemDoc.Size,
		}
	}
	return order, nil
}
