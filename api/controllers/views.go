package controllers

import (
	"time"

	"github.com/nvalenzo/threadhaus-backend/internal/cart"
	"github.com/nvalenzo/threadhaus-backend/internal/catalog"
	"github.com/nvalenzo/threadhaus-backend/internal/checkout"
	"github.com/nvalenzo/threadhaus-backend/internal/orders"
	"github.com/nvalenzo/threadhaus-backend/internal/reviews"
	"github.com/nvalenzo/threadhaus-backend/internal/users"
	"github.com/shopspring/decimal"
)

// Wire views keep the JSON surface stable while internal types evolve.

type productView struct {
	ID            string          `json:"id"`
	SellerID      string          `json:"seller_id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Category      string          `json:"category"`
	IsNew         bool            `json:"is_new"`
	IsOnSale      bool            `json:"is_on_sale"`
	AverageRating *float64        `json:"average_rating,omitempty"`
	Description   *string         `json:"description,omitempty"`
	Images        []string        `json:"images,omitempty"`
	Variants      []variantView   `json:"variants"`
	TotalStock    int             `json:"total_stock"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type variantView struct {
	ID     string   `json:"id"`
	Color  string   `json:"color"`
	Size   string   `json:"size"`
	Stock  int      `json:"stock"`
	SKU    *string  `json:"sku,omitempty"`
	Images []string `json:"images,omitempty"`
}

func toProductView(p catalog.Product) productView {
	view := productView{
		ID:            p.ID.String(),
		SellerID:      p.SellerID.String(),
		Name:          p.Name,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Category:      p.Category.String(),
		IsNew:         p.IsNew,
		IsOnSale:      p.IsOnSale,
		AverageRating: p.AverageRating,
		Description:   p.Description,
		Images:        p.Images,
		TotalStock:    p.TotalStock,
		UpdatedAt:     p.UpdatedAt,
	}
	view.Variants = make([]variantView, 0, len(p.Variants))
	for _, v := range p.Variants {
		view.Variants = append(view.Variants, variantView{
			ID:     v.ID.String(),
			Color:  v.Color,
			Size:   v.Size,
			Stock:  v.Stock,
			SKU:    v.SKU,
			Images: v.Images,
		})
	}
	return view
}

func toProductViews(products []catalog.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, toProductView(p))
	}
	return out
}

type cartView struct {
	Lines     []cart.Line     `json:"lines"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func toCartView(c cart.Cart) cartView {
	totals := c.Totals()
	lines := c.Lines
	if lines == nil {
		lines = []cart.Line{}
	}
	return cartView{
		Lines:     lines,
		ItemCount: totals.ItemCount,
		Subtotal:  totals.Subtotal,
	}
}

type orderView struct {
	ID         string          `json:"id"`
	PlacedAt   time.Time       `json:"placed_at"`
	Items      []orderItemView `json:"items"`
	Total      decimal.Decimal `json:"total"`
	ShippingTo addressView     `json:"shipping_to"`
}

type orderItemView struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Color     *string         `json:"color,omitempty"`
	Size      *string         `json:"size,omitempty"`
}

func toOrderView(o orders.Order) orderView {
	view := orderView{
		ID:       o.ID.String(),
		PlacedAt: o.PlacedAt,
		Total:    o.Total,
		ShippingTo: addressView{
			Label:      o.ShippingTo.Label,
			Line1:      o.ShippingTo.Line1,
			Line2:      o.ShippingTo.Line2,
			City:       o.ShippingTo.City,
			State:      o.ShippingTo.State,
			PostalCode: o.ShippingTo.PostalCode,
			Country:    o.ShippingTo.Country,
		},
	}
	view.Items = make([]orderItemView, 0, len(o.Items))
	for _, item := range o.Items {
		view.Items = append(view.Items, orderItemView{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Color:     item.Color,
			Size:      item.Size,
		})
	}
	return view
}

type addressView struct {
	ID         string  `json:"id,omitempty"`
	Label      *string `json:"label,omitempty"`
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	PostalCode string  `json:"postal_code"`
	Country    string  `json:"country"`
	IsDefault  bool    `json:"is_default"`
}

func toAddressView(a users.Address) addressView {
	return addressView{
		ID:         a.ID.String(),
		Label:      a.Label,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		IsDefault:  a.IsDefault,
	}
}

type profileView struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	DisplayName *string `json:"display_name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	PhotoURL    *string `json:"photo_url,omitempty"`
	Role        string  `json:"role"`
	SellerID    *string `json:"seller_id,omitempty"`
}

func toProfileView(p users.Profile) profileView {
	view := profileView{
		ID:          p.ID.String(),
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Phone:       p.Phone,
		PhotoURL:    p.PhotoURL,
		Role:        p.Role.String(),
	}
	if p.SellerID != nil {
		sellerID := p.SellerID.String()
		view.SellerID = &sellerID
	}
	return view
}

type sessionView struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         profileView `json:"user"`
}

func toSessionView(s users.Session) sessionView {
	return sessionView{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		User:         toProfileView(s.User),
	}
}

type reviewView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Rating    float64   `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toReviewView(r reviews.Review) reviewView {
	return reviewView{
		ID:        r.ID.String(),
		UserID:    r.UserID.String(),
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

type checkoutStateView struct {
	Step            string `json:"step"`
	ShippingEntered bool   `json:"shipping_entered"`
	PaymentEntered  bool   `json:"payment_entered"`
}

func toCheckoutStateView(state checkout.State) checkoutStateView {
	return checkoutStateView{
		Step:            state.Step.String(),
		ShippingEntered: state.Shipping != nil,
		PaymentEntered:  state.Payment != nil,
	}
}
