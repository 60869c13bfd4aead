package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nvalenzo/threadhaus-backend/api/responses"
	"github.com/nvalenzo/threadhaus-backend/api/validators"
	"github.com/nvalenzo/threadhaus-backend/internal/catalog"
	"github.com/nvalenzo/threadhaus-backend/internal/sales"
	"github.com/nvalenzo/threadhaus-backend/pkg/enums"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
	"github.com/nvalenzo/threadhaus-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type variantRequest struct {
	Color  string   `json:"color" validate:"required,max=60"`
	Size   string   `json:"size" validate:"required,max=30"`
	Stock  int      `json:"stock" validate:"gte=0"`
	SKU    *string  `json:"sku,omitempty" validate:"omitempty,max=64"`
	Images []string `json:"images,omitempty"`
}

type createProductRequest struct {
	Name          string           `json:"name" validate:"required,max=200"`
	Price         decimal.Decimal  `json:"price" validate:"required"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Category      string           `json:"category" validate:"required"`
	IsNew         bool             `json:"is_new"`
	IsOnSale      bool             `json:"is_on_sale"`
	Description   *string          `json:"description,omitempty" validate:"omitempty,max=5000"`
	Images        []string         `json:"images,omitempty"`
	Variants      []variantRequest `json:"variants,omitempty" validate:"dive"`
}

type updateProductRequest struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,max=200"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Category      *string          `json:"category,omitempty"`
	IsNew         *bool            `json:"is_new,omitempty"`
	IsOnSale      *bool            `json:"is_on_sale,omitempty"`
	Description   *string          `json:"description,omitempty" validate:"omitempty,max=5000"`
	Images        *[]string        `json:"images,omitempty"`
}

type updateVariantRequest struct {
	Color  *string   `json:"color,omitempty" validate:"omitempty,max=60"`
	Size   *string   `json:"size,omitempty" validate:"omitempty,max=30"`
	Stock  *int      `json:"stock,omitempty" validate:"omitempty,gte=0"`
	SKU    *string   `json:"sku,omitempty" validate:"omitempty,max=64"`
	Images *[]string `json:"images,omitempty"`
}

type setStockRequest struct {
	Stock int `json:"stock" validate:"gte=0"`
}

type adjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type bulkStockEntry struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	VariantID string `json:"variant_id" validate:"required,uuid"`
	Value     int    `json:"value"`
}

type bulkStockRequest struct {
	Mode    string           `json:"mode" validate:"required"`
	Entries []bulkStockEntry `json:"entries" validate:"required,min=1,dive"`
}

func SellerListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := actorSellerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProductViews(svc.ListSellerProducts(r.Context(), sellerID)))
	}
}

func SellerCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := actorSellerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := enums.ParseProductCategory(body.Category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown category"))
			return
		}

		input := catalog.CreateProductInput{
			Name:          body.Name,
			Price:         body.Price,
			OriginalPrice: body.OriginalPrice,
			Category:      category,
			IsNew:         body.IsNew,
			IsOnSale:      body.IsOnSale,
			Description:   body.Description,
			Images:        body.Images,
		}
		for _, v := range body.Variants {
			input.Variants = append(input.Variants, catalog.VariantInput{
				Color:  v.Color,
				Size:   v.Size,
				Stock:  v.Stock,
				SKU:    v.SKU,
				Images: v.Images,
			})
		}

		product, err := svc.CreateProduct(r.Context(), sellerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toProductView(*product))
	}
}

func SellerUpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := actorSellerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.UpdateProductInput{
			Name:          body.Name,
			Price:         body.Price,
			OriginalPrice: body.OriginalPrice,
			IsNew:         body.IsNew,
			IsOnSale:      body.IsOnSale,
			Description:   body.Description,
			Images:        body.Images,
		}
		if body.Category != nil {
			category, err := enums.ParseProductCategory(*body.Category)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown category"))
				return
			}
			input.Category = &category
		}

		product, err := svc.UpdateProduct(r.Context(), sellerID, productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProductView(*product))
	}
}

func SellerDeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := actorSellerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), sellerID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func SellerAddVariant(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := actorSellerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body variantRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.AddVariant(r.Context(), sellerID, productID, catalog.VariantInput{
			Color:  body.Color,
			Size:   body.Size,
			Stock:  body.Stock,
			SKU:    body.SKU,
			Images: body.Images,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toProductView(*product))
	}
}

func SellerUpdateVariant(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := actorSellerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		variantID, err := pathUUID(r, "variantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateVariantRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateVariant(r.Context(), sellerID, productID, variantID, catalog.VariantUpdate{
			Color:  body.Color,
			Size:   body.Size,
			Stock:  body.Stock,
			SKU:    body.SKU,
			Images: body.Images,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProductView(*product))
	}
}

func SellerRemoveVariant(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := actorSellerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		variantID, err := pathUUID(r, "variantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.RemoveVariant(r.Context(), sellerID, productID, variantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProductView(*product))
	}
}

func SellerSetStock(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := actorSellerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		variantID, err := pathUUID(r, "variantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setStockRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.SetStock(r.Context(), sellerID, productID, variantID, body.Stock)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProductView(*product))
	}
}

func SellerAdjustStock(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := actorSellerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		variantID, err := pathUUID(r, "variantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adjustStockRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.AdjustStock(r.Context(), sellerID, productID, variantID, body.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProductView(*product))
	}
}

// SellerBulkUpdateStock applies one mode (set, increase, decrease) across
// many variants atomically.
func SellerBulkUpdateStock(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := actorSellerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body bulkStockRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mode := enums.StockUpdateMode(strings.ToLower(strings.TrimSpace(body.Mode)))
		if !mode.IsValid() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown stock update mode"))
			return
		}

		entries := make([]catalog.StockUpdate, 0, len(body.Entries))
		for _, e := range body.Entries {
			productID, err := uuid.Parse(e.ProductID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
				return
			}
			variantID, err := uuid.Parse(e.VariantID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid variant id"))
				return
			}
			entries = append(entries, catalog.StockUpdate{
				ProductID: productID,
				VariantID: variantID,
				Value:     e.Value,
			})
		}

		updated, err := svc.BulkUpdateStock(r.Context(), sellerID, entries, mode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProductViews(updated))
	}
}

// SellerRefreshCatalog re-hydrates the in-memory catalog from the document
// gateway.
func SellerRefreshCatalog(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := actorSellerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		count, err := svc.LoadSellerCatalog(r.Context(), sellerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"loaded": count})
	}
}

type dashboardView struct {
	Summary     summaryView       `json:"summary"`
	Series      []dailyBucketView `json:"series"`
	TopProducts []productTotalView `json:"top_products"`
	ByCategory  []attributeTotalView `json:"by_category"`
	ByColor     []attributeTotalView `json:"by_color"`
	BySize      []attributeTotalView `json:"by_size"`
}

type summaryView struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalOrders       int             `json:"total_orders"`
	TotalUnits        int             `json:"total_units"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	WeekOverWeekPct   float64         `json:"week_over_week_pct"`
}

type dailyBucketView struct {
	Date    time.Time       `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

type productTotalView struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type attributeTotalView struct {
	Key      string          `json:"key"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

func toDashboardView(d sales.Dashboard) dashboardView {
	view := dashboardView{
		Summary: summaryView{
			TotalRevenue:      d.Summary.TotalRevenue,
			TotalOrders:       d.Summary.TotalOrders,
			TotalUnits:        d.Summary.TotalUnits,
			AverageOrderValue: d.Summary.AverageOrderValue,
			WeekOverWeekPct:   d.Summary.WeekOverWeekPct,
		},
		Series:      make([]dailyBucketView, 0, len(d.Series)),
		TopProducts: make([]productTotalView, 0, len(d.TopProducts)),
		ByCategory:  toAttributeTotalViews(d.ByCategory),
		ByColor:     toAttributeTotalViews(d.ByColor),
		BySize:      toAttributeTotalViews(d.BySize),
	}
	for _, bucket := range d.Series {
		view.Series = append(view.Series, dailyBucketView{Date: bucket.Date, Revenue: bucket.Revenue, Orders: bucket.Orders})
	}
	for _, total := range d.TopProducts {
		view.TopProducts = append(view.TopProducts, productTotalView{
			ProductID: total.ProductID.String(),
			Quantity:  total.Quantity,
			Revenue:   total.Revenue,
		})
	}
	return view
}

func toAttributeTotalViews(totals []sales.AttributeTotal) []attributeTotalView {
	out := make([]attributeTotalView, 0, len(totals))
	for _, total := range totals {
		out = append(out, attributeTotalView{Key: total.Key, Quantity: total.Quantity, Revenue: total.Revenue})
	}
	return out
}

// SellerDashboard serves the sales analytics rollup.
func SellerDashboard(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := actorSellerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dashboard, err := svc.Dashboard(r.Context(), sellerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toDashboardView(*dashboard))
	}
}
