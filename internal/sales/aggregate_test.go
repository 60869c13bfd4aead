package sales

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nvalenzo/threadhaus-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func saleAt(daysAgo int, items ...SaleItem) Sale {
	return NewSale(uuid.New(), testNow.AddDate(0, 0, -daysAgo), items)
}

func item(price int64, qty int, category enums.ProductCategory) SaleItem {
	return SaleItem{
		ProductID: uuid.New(),
		Quantity:  qty,
		UnitPrice: decimal.NewFromInt(price),
		Category:  category,
	}
}

func stringPtr(v string) *string { return &v }

func TestSummarizeEmptyLogIsZeroed(t *testing.T) {
	s := Summarize(nil, testNow)
	if !s.TotalRevenue.IsZero() || s.TotalOrders != 0 || s.TotalUnits != 0 {
		t.Fatalf("expected zeroed summary, got %+v", s)
	}
	if !s.AverageOrderValue.IsZero() || s.WeekOverWeekPct != 0 {
		t.Fatalf("expected zero AOV and WoW, got %+v", s)
	}
	if got := TopProducts(nil, 10); len(got) != 0 {
		t.Fatalf("expected empty top products, got %v", got)
	}
	if got := RevenueByCategory(nil); len(got) != 0 {
		t.Fatalf("expected empty category rollup, got %v", got)
	}
}

func TestSummarizeTotalsAndAOV(t *testing.T) {
	log := []Sale{
		saleAt(1, item(10, 2, enums.ProductCategoryTops)),  // 20
		saleAt(2, item(5, 4, enums.ProductCategoryShoes)),  // 20
		saleAt(3, item(30, 1, enums.ProductCategoryTops)),  // 30
	}

	s := Summarize(log, testNow)
	if !s.TotalRevenue.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected revenue 70, got %s", s.TotalRevenue)
	}
	if s.TotalOrders != 3 || s.TotalUnits != 7 {
		t.Fatalf("expected 3 orders / 7 units, got %d / %d", s.TotalOrders, s.TotalUnits)
	}
	want := decimal.NewFromInt(70).Div(decimal.NewFromInt(3))
	if !s.AverageOrderValue.Equal(want) {
		t.Fatalf("expected AOV %s, got %s", want, s.AverageOrderValue)
	}
}

func TestWeekOverWeekChange(t *testing.T) {
	log := []Sale{
		saleAt(1, item(30, 1, enums.ProductCategoryTops)),  // recent week
		saleAt(8, item(20, 1, enums.ProductCategoryTops)),  // previous week
		saleAt(20, item(99, 1, enums.ProductCategoryTops)), // outside both windows
	}

	s := Summarize(log, testNow)
	if s.WeekOverWeekPct != 50 {
		t.Fatalf("expected +50%%, got %v", s.WeekOverWeekPct)
	}
}

func TestWeekOverWeekZeroWhenNoPreviousRevenue(t *testing.T) {
	log := []Sale{saleAt(1, item(30, 1, enums.ProductCategoryTops))}
	if s := Summarize(log, testNow); s.WeekOverWeekPct != 0 {
		t.Fatalf("expected 0 when previous window empty, got %v", s.WeekOverWeekPct)
	}
}

func TestDailySeriesBucketsOldestFirst(t *testing.T) {
	log := []Sale{
		saleAt(0, item(10, 1, enums.ProductCategoryTops)),
		saleAt(0, item(5, 1, enums.ProductCategoryTops)),
		saleAt(29, item(7, 1, enums.ProductCategoryTops)),
		saleAt(30, item(99, 1, enums.ProductCategoryTops)), // dropped
	}

	series := DailySeries(log, testNow, 30)
	if len(series) != 30 {
		t.Fatalf("expected 30 buckets, got %d", len(series))
	}
	if !series[0].Date.Before(series[29].Date) {
		t.Fatal("expected oldest bucket first")
	}
	if !series[29].Revenue.Equal(decimal.NewFromInt(15)) || series[29].Orders != 2 {
		t.Fatalf("expected today bucket 15/2, got %s/%d", series[29].Revenue, series[29].Orders)
	}
	if !series[0].Revenue.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("expected oldest bucket 7, got %s", series[0].Revenue)
	}

	total := decimal.Zero
	for _, b := range series {
		total = total.Add(b.Revenue)
	}
	if !total.Equal(decimal.NewFromInt(22)) {
		t.Fatalf("expected 30-day total 22 (sale older than window dropped), got %s", total)
	}
}

func TestTopProductsOrderAndLimit(t *testing.T) {
	hot := uuid.New()
	warm := uuid.New()
	cold := uuid.New()

	log := []Sale{
		saleAt(1,
			SaleItem{ProductID: hot, Quantity: 5, UnitPrice: decimal.NewFromInt(10), Category: enums.ProductCategoryTops},
			SaleItem{ProductID: warm, Quantity: 2, UnitPrice: decimal.NewFromInt(10), Category: enums.ProductCategoryTops},
		),
		saleAt(2,
			SaleItem{ProductID: hot, Quantity: 1, UnitPrice: decimal.NewFromInt(10), Category: enums.ProductCategoryTops},
			SaleItem{ProductID: cold, Quantity: 1, UnitPrice: decimal.NewFromInt(10), Category: enums.ProductCategoryTops},
		),
	}

	top := TopProducts(log, 2)
	if len(top) != 2 {
		t.Fatalf("expected truncation to 2, got %d", len(top))
	}
	if top[0].ProductID != hot || top[0].Quantity != 6 {
		t.Fatalf("expected hot product first with qty 6, got %+v", top[0])
	}
	if !top[0].Revenue.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected revenue 60, got %s", top[0].Revenue)
	}
	if top[1].ProductID != warm {
		t.Fatalf("expected warm product second, got %+v", top[1])
	}
}

func TestCategoryRevenueSumsToTotal(t *testing.T) {
	log := []Sale{
		saleAt(1, item(10, 2, enums.ProductCategoryTops), item(25, 1, enums.ProductCategoryShoes)),
		saleAt(5, item(40, 1, enums.ProductCategoryDresses)),
		saleAt(9, item(5, 3, enums.ProductCategoryTops)),
	}

	summary := Summarize(log, testNow)
	grouped := RevenueByCategory(log)

	sum := decimal.Zero
	for _, g := range grouped {
		sum = sum.Add(g.Revenue)
	}
	if !sum.Equal(summary.TotalRevenue) {
		t.Fatalf("per-category revenue %s != total %s", sum, summary.TotalRevenue)
	}
}

func TestColorAndSizeRollupsSkipAbsentAttributes(t *testing.T) {
	withColor := SaleItem{
		ProductID: uuid.New(),
		Quantity:  2,
		UnitPrice: decimal.NewFromInt(10),
		Category:  enums.ProductCategoryTops,
		Color:     stringPtr("Red"),
		Size:      stringPtr("M"),
	}
	without := item(10, 1, enums.ProductCategoryTops)
	log := []Sale{saleAt(1, withColor, without)}

	byColor := RevenueByColor(log)
	if len(byColor) != 1 || byColor[0].Key != "Red" || byColor[0].Quantity != 2 {
		t.Fatalf("expected single Red rollup, got %+v", byColor)
	}
	bySize := RevenueBySize(log)
	if len(bySize) != 1 || bySize[0].Key != "M" {
		t.Fatalf("expected single M rollup, got %+v", bySize)
	}
}

func TestAggregationIsDeterministic(t *testing.T) {
	log := []Sale{
		saleAt(1, item(10, 1, enums.ProductCategoryTops), item(10, 1, enums.ProductCategoryShoes)),
		saleAt(2, item(10, 1, enums.ProductCategoryBottoms)),
	}

	first := RevenueByCategory(log)
	second := RevenueByCategory(log)
	if len(first) != len(second) {
		t.Fatalf("nondeterministic length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Key != second[i].Key || !first[i].Revenue.Equal(second[i].Revenue) {
			t.Fatalf("nondeterministic ordering at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}
