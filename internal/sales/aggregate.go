package sales

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// All aggregations here are pure folds over the sale log: identical input
// yields identical output regardless of call order, and an empty log returns
// zeroed results rather than errors.

const weekDays = 7

// Summary is the headline dashboard view.
type Summary struct {
	TotalRevenue      decimal.Decimal
	TotalOrders       int
	TotalUnits        int
	AverageOrderValue decimal.Decimal
	WeekOverWeekPct   float64
}

// DailyBucket is one day of the revenue time series.
type DailyBucket struct {
	Date    time.Time
	Revenue decimal.Decimal
	Orders  int
}

// ProductTotal is a per-product sales rollup.
type ProductTotal struct {
	ProductID uuid.UUID
	Quantity  int
	Revenue   decimal.Decimal
}

// AttributeTotal is a rollup keyed by category, color, or size.
type AttributeTotal struct {
	Key      string
	Quantity int
	Revenue  decimal.Decimal
}

// Summarize folds the full log into revenue, order, and unit totals plus the
// week-over-week revenue change relative to now.
func Summarize(log []Sale, now time.Time) Summary {
	s := Summary{
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
	}

	recent := decimal.Zero
	previous := decimal.Zero
	for _, sale := range log {
		s.TotalRevenue = s.TotalRevenue.Add(sale.Total)
		s.TotalOrders++
		for _, item := range sale.Items {
			s.TotalUnits += item.Quantity
		}

		switch offset := dayOffset(now, sale.OccurredAt); {
		case offset >= 0 && offset < weekDays:
			recent = recent.Add(sale.Total)
		case offset >= weekDays && offset < 2*weekDays:
			previous = previous.Add(sale.Total)
		}
	}

	if s.TotalOrders > 0 {
		s.AverageOrderValue = s.TotalRevenue.Div(decimal.NewFromInt(int64(s.TotalOrders)))
	}
	if previous.IsPositive() {
		pct, _ := recent.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Float64()
		s.WeekOverWeekPct = pct
	}
	return s
}

// DailySeries buckets the last `days` days of revenue, oldest first. Sales
// older than the window are dropped from this view only; future-dated sales
// are ignored.
func DailySeries(log []Sale, now time.Time, days int) []DailyBucket {
	if days <= 0 {
		return nil
	}

	buckets := make([]DailyBucket, days)
	today := now.UTC().Truncate(24 * time.Hour)
	for i := range buckets {
		buckets[i] = DailyBucket{
			Date:    today.AddDate(0, 0, i-days+1),
			Revenue: decimal.Zero,
		}
	}

	for _, sale := range log {
		offset := dayOffset(now, sale.OccurredAt)
		if offset < 0 || offset >= days {
			continue
		}
		idx := days - 1 - offset
		buckets[idx].Revenue = buckets[idx].Revenue.Add(sale.Total)
		buckets[idx].Orders++
	}
	return buckets
}

// TopProducts groups sold lines by product, summing quantity and revenue,
// ordered by quantity descending and truncated to limit.
func TopProducts(log []Sale, limit int) []ProductTotal {
	grouped := make(map[uuid.UUID]*ProductTotal)
	for _, sale := range log {
		for _, item := range sale.Items {
			total, ok := grouped[item.ProductID]
			if !ok {
				total = &ProductTotal{ProductID: item.ProductID, Revenue: decimal.Zero}
				grouped[item.ProductID] = total
			}
			total.Quantity += item.Quantity
			total.Revenue = total.Revenue.Add(lineRevenue(item))
		}
	}

	out := make([]ProductTotal, 0, len(grouped))
	for _, total := range grouped {
		out = append(out, *total)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].ProductID.String() < out[j].ProductID.String()
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RevenueByCategory rolls up every sold line by its category.
func RevenueByCategory(log []Sale) []AttributeTotal {
	return groupByAttribute(log, func(item SaleItem) (string, bool) {
		return item.Category.String(), item.Category != ""
	})
}

// RevenueByColor rolls up sold lines by color, skipping lines without one.
func RevenueByColor(log []Sale) []AttributeTotal {
	return groupByAttribute(log, func(item SaleItem) (string, bool) {
		if item.Color == nil || *item.Color == "" {
			return "", false
		}
		return *item.Color, true
	})
}

// RevenueBySize rolls up sold lines by size, skipping lines without one.
func RevenueBySize(log []Sale) []AttributeTotal {
	return groupByAttribute(log, func(item SaleItem) (string, bool) {
		if item.Size == nil || *item.Size == "" {
			return "", false
		}
		return *item.Size, true
	})
}

func groupByAttribute(log []Sale, keyOf func(SaleItem) (string, bool)) []AttributeTotal {
	grouped := make(map[string]*AttributeTotal)
	for _, sale := range log {
		for _, item := range sale.Items {
			key, ok := keyOf(item)
			if !ok {
				continue
			}
			total, exists := grouped[key]
			if !exists {
				total = &AttributeTotal{Key: key, Revenue: decimal.Zero}
				grouped[key] = total
			}
			total.Quantity += item.Quantity
			total.Revenue = total.Revenue.Add(lineRevenue(item))
		}
	}

	out := make([]AttributeTotal, 0, len(grouped))
	for _, total := range grouped {
		out = append(out, *total)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func lineRevenue(item SaleItem) decimal.Decimal {
	return item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// dayOffset is the elapsed-day difference between now and ts, negative for
// future timestamps.
func dayOffset(now, ts time.Time) int {
	nowDay := now.UTC().Truncate(24 * time.Hour)
	tsDay := ts.UTC().Truncate(24 * time.Hour)
	return int(nowDay.Sub(tsDay) / (24 * time.Hour))
}
