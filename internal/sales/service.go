package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nvalenzo/threadhaus-backend/internal/gateway"
	"github.com/nvalenzo/threadhaus-backend/pkg/config"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
)

// Dashboard bundles every derived view the seller dashboard renders.
type Dashboard struct {
	Summary     Summary
	Series      []DailyBucket
	TopProducts []ProductTotal
	ByCategory  []AttributeTotal
	ByColor     []AttributeTotal
	BySize      []AttributeTotal
}

// Service records completed sales and serves the dashboard aggregations.
type Service interface {
	Record(ctx context.Context, sellerID uuid.UUID, sale Sale) error
	Dashboard(ctx context.Context, sellerID uuid.UUID) (*Dashboard, error)
	ListSales(ctx context.Context, sellerID uuid.UUID) ([]Sale, error)
}

type saleLog interface {
	ListSales(ctx context.Context, sellerID string) ([]gateway.SaleDoc, error)
	AppendSale(ctx context.Context, sellerID string, doc gateway.SaleDoc) error
}

type service struct {
	logStore saleLog
	cfg      config.AnalyticsConfig
	now      func() time.Time
}

// NewService constructs the sales service.
func NewService(logStore saleLog, cfg config.AnalyticsConfig) (Service, error) {
	if logStore == nil {
		return nil, fmt.Errorf("sale log store required")
	}
	if cfg.TopProductsLimit <= 0 {
		cfg.TopProductsLimit = 10
	}
	if cfg.SeriesDays <= 0 {
		cfg.SeriesDays = 30
	}
	return &service{logStore: logStore, cfg: cfg, now: time.Now}, nil
}

// Record appends the sale to the seller's persisted log. Sales are immutable
// once written.
func (s *service) Record(ctx context.Context, sellerID uuid.UUID, sale Sale) error {
	if len(sale.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale must contain at least one item")
	}
	for _, item := range sale.Items {
		if item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "sale item quantity must be positive")
		}
	}
	return s.logStore.AppendSale(ctx, sellerID.String(), toSaleDoc(sale))
}

// Dashboard loads the full sale log and folds it into every dashboard view.
func (s *service) Dashboard(ctx context.Context, sellerID uuid.UUID) (*Dashboard, error) {
	log, err := s.ListSales(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &Dashboard{
		Summary:     Summarize(log, now),
		Series:      DailySeries(log, now, s.cfg.SeriesDays),
		TopProducts: TopProducts(log, s.cfg.TopProductsLimit),
		ByCategory:  RevenueByCategory(log),
		ByColor:     RevenueByColor(log),
		BySize:      RevenueBySize(log),
	}, nil
}

// ListSales returns the seller's parsed sale log.
func (s *service) ListSales(ctx context.Context, sellerID uuid.UUID) ([]Sale, error) {
	docs, err := s.logStore.ListSales(ctx, sellerID.String())
	if err != nil {
		return nil, err
	}
	log := make([]Sale, 0, len(docs))
	for _, doc := range docs {
		sale, err := fromSaleDoc(doc)
		if err != nil {
			return nil, err
		}
		log = append(log, sale)
	}
	return log, nil
}
