package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
)

// ProfileDoc is the users/{uid} document.
type ProfileDoc struct {
	UID         string  `json:"uid"`
	Email       string  `json:"email"`
	DisplayName *string `json:"display_name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	PhotoURL    *string `json:"photo_url,omitempty"`
	Role        *string `json:"role,omitempty"`
	SellerID    *string `json:"seller_id,omitempty"`
}

// AddressDoc lives in the users/{uid}/addresses sub-collection.
type AddressDoc struct {
	ID         string  `json:"id"`
	Label      *string `json:"label,omitempty"`
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	PostalCode string  `json:"postal_code"`
	Country    string  `json:"country"`
	IsDefault  bool    `json:"is_default"`
}

// OrderDoc lives in the users/{uid}/orders sub-collection.
type OrderDoc struct {
	ID         string         `json:"id"`
	PlacedAt   time.Time      `json:"placed_at"`
	Items      []OrderItemDoc `json:"items"`
	Total      string         `json:"total"`
	ShippingTo AddressDoc     `json:"shipping_to"`
}

// OrderItemDoc is a single purchased line inside an order document.
type OrderItemDoc struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice string  `json:"unit_price"`
	Color     *string `json:"color,omitempty"`
	Size      *string `json:"size,omitempty"`
}

// ProductDoc is the products/{productID} document.
type ProductDoc struct {
	ID            string       `json:"id"`
	SellerID      string       `json:"seller_id"`
	Name          string       `json:"name"`
	Price         string       `json:"price"`
	OriginalPrice *string      `json:"original_price,omitempty"`
	Category      string       `json:"category"`
	IsNew         bool         `json:"is_new"`
	IsOnSale      bool         `json:"is_on_sale"`
	AverageRating *float64     `json:"average_rating,omitempty"`
	Description   *string      `json:"description,omitempty"`
	Images        []string     `json:"images,omitempty"`
	Variants      []VariantDoc `json:"variants"`
	TotalStock    int          `json:"total_stock"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// VariantDoc is a (color, size) stock entry embedded in a product document.
type VariantDoc struct {
	ID     string   `json:"id"`
	Color  string   `json:"color"`
	Size   string   `json:"size"`
	Stock  int      `json:"stock"`
	SKU    *string  `json:"sku,omitempty"`
	Images []string `json:"images,omitempty"`
}

// ReviewDoc lives in the products/{productID}/reviews sub-collection.
type ReviewDoc struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Rating    float64   `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SaleDoc lives in the sellers/{sellerID}/sales sub-collection. Append-only.
type SaleDoc struct {
	ID         string        `json:"id"`
	OrderID    string        `json:"order_id"`
	OccurredAt time.Time     `json:"occurred_at"`
	Items      []SaleItemDoc `json:"items"`
	Total      string        `json:"total"`
}

// SaleItemDoc is a single sold line inside a sale document.
type SaleItemDoc struct {
	ProductID string  `json:"product_id"`
	VariantID *string `json:"variant_id,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice string  `json:"unit_price"`
	Category  string  `json:"category"`
	Color     *string `json:"color,omitempty"`
	Size      *string `json:"size,omitempty"`
}

type listEnvelope[T any] struct {
	Documents []T `json:"documents"`
}

// GetUserProfile reads users/{uid}.
func (c *Client) GetUserProfile(ctx context.Context, uid string) (*ProfileDoc, error) {
	if err := requireID("user id", uid); err != nil {
		return nil, err
	}
	var doc ProfileDoc
	if err := c.do(ctx, "get_user_profile", http.MethodGet, userPath(uid), nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// PutUserProfile writes users/{uid}.
func (c *Client) PutUserProfile(ctx context.Context, doc ProfileDoc) error {
	if err := requireID("user id", doc.UID); err != nil {
		return err
	}
	return c.do(ctx, "put_user_profile", http.MethodPut, userPath(doc.UID), doc, nil)
}

// ListAddresses reads the users/{uid}/addresses sub-collection.
func (c *Client) ListAddresses(ctx context.Context, uid string) ([]AddressDoc, error) {
	if err := requireID("user id", uid); err != nil {
		return nil, err
	}
	var out listEnvelope[AddressDoc]
	if err := c.do(ctx, "list_addresses", http.MethodGet, userPath(uid)+"/addresses", nil, &out); err != nil {
		return nil, err
	}
	return out.Documents, nil
}

// PutAddress writes users/{uid}/addresses/{id}.
func (c *Client) PutAddress(ctx context.Context, uid string, doc AddressDoc) error {
	if err := requireID("user id", uid); err != nil {
		return err
	}
	if err := requireID("address id", doc.ID); err != nil {
		return err
	}
	return c.do(ctx, "put_address", http.MethodPut, userPath(uid)+"/addresses/"+url.PathEscape(doc.ID), doc, nil)
}

// DeleteAddress removes users/{uid}/addresses/{id}.
func (c *Client) DeleteAddress(ctx context.Context, uid, addressID string) error {
	if err := requireID("user id", uid); err != nil {
		return err
	}
	if err := requireID("address id", addressID); err != nil {
		return err
	}
	return c.do(ctx, "delete_address", http.MethodDelete, userPath(uid)+"/addresses/"+url.PathEscape(addressID), nil, nil)
}

// ListOrders reads the users/{uid}/orders sub-collection.
func (c *Client) ListOrders(ctx context.Context, uid string) ([]OrderDoc, error) {
	if err := requireID("user id", uid); err != nil {
		return nil, err
	}
	var out listEnvelope[OrderDoc]
	if err := c.do(ctx, "list_orders", http.MethodGet, userPath(uid)+"/orders", nil, &out); err != nil {
		return nil, err
	}
	return out.Documents, nil
}

// PutOrder writes users/{uid}/orders/{id}.
func (c *Client) PutOrder(ctx context.Context, uid string, doc OrderDoc) error {
	if err := requireID("user id", uid); err != nil {
		return err
	}
	if err := requireID("order id", doc.ID); err != nil {
		return err
	}
	return c.do(ctx, "put_order", http.MethodPut, userPath(uid)+"/orders/"+url.PathEscape(doc.ID), doc, nil)
}

// ListProducts reads every products/{id} document owned by the seller.
func (c *Client) ListProducts(ctx context.Context, sellerID string) ([]ProductDoc, error) {
	if err := requireID("seller id", sellerID); err != nil {
		return nil, err
	}
	var out listEnvelope[ProductDoc]
	path := "/v1/products?seller_id=" + url.QueryEscape(sellerID)
	if err := c.do(ctx, "list_products", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Documents, nil
}

// PutProduct writes products/{id}.
func (c *Client) PutProduct(ctx context.Context, doc ProductDoc) error {
	if err := requireID("product id", doc.ID); err != nil {
		return err
	}
	return c.do(ctx, "put_product", http.MethodPut, productPath(doc.ID), doc, nil)
}

// DeleteProduct removes products/{id}.
func (c *Client) DeleteProduct(ctx context.Context, productID string) error {
	if err := requireID("product id", productID); err != nil {
		return err
	}
	return c.do(ctx, "delete_product", http.MethodDelete, productPath(productID), nil, nil)
}

// ListReviews reads the products/{id}/reviews sub-collection.
func (c *Client) ListReviews(ctx context.Context, productID string) ([]ReviewDoc, error) {
	if err := requireID("product id", productID); err != nil {
		return nil, err
	}
	var out listEnvelope[ReviewDoc]
	if err := c.do(ctx, "list_reviews", http.MethodGet, productPath(productID)+"/reviews", nil, &out); err != nil {
		return nil, err
	}
	return out.Documents, nil
}

// PutReview writes products/{id}/reviews/{reviewID}.
func (c *Client) PutReview(ctx context.Context, productID string, doc ReviewDoc) error {
	if err := requireID("product id", productID); err != nil {
		return err
	}
	if err := requireID("review id", doc.ID); err != nil {
		return err
	}
	return c.do(ctx, "put_review", http.MethodPut, productPath(productID)+"/reviews/"+url.PathEscape(doc.ID), doc, nil)
}

// ListSales reads the sellers/{id}/sales sub-collection.
func (c *Client) ListSales(ctx context.Context, sellerID string) ([]SaleDoc, error) {
	if err := requireID("seller id", sellerID); err != nil {
		return nil, err
	}
	var out listEnvelope[SaleDoc]
	if err := c.do(ctx, "list_sales", http.MethodGet, sellerPath(sellerID)+"/sales", nil, &out); err != nil {
		return nil, err
	}
	return out.Documents, nil
}

// AppendSale writes sellers/{id}/sales/{saleID}. Sale documents are never
// updated or deleted after this write.
func (c *Client) AppendSale(ctx context.Context, sellerID string, doc SaleDoc) error {
	if err := requireID("seller id", sellerID); err != nil {
		return err
	}
	if err := requireID("sale id", doc.ID); err != nil {
		return err
	}
	return c.do(ctx, "append_sale", http.MethodPut, sellerPath(sellerID)+"/sales/"+url.PathEscape(doc.ID), doc, nil)
}

func userPath(uid string) string {
	return "/v1/users/" + url.PathEscape(uid)
}

func productPath(productID string) string {
	return "/v1/products/" + url.PathEscape(productID)
}

func sellerPath(sellerID string) string {
	return "/v1/sellers/" + url.PathEscape(sellerID)
}

func requireID(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s is required", field))
	}
	return nil
}
