package catalog

import (
	"sort"
	"strings"

	"github.com/nvalenzo/threadhaus-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// FilterOptions narrows and orders a product snapshot. It is a plain value
// recreated per request; empty category/color sets mean no filtering on that
// axis, and a zero MaxPrice means no upper bound.
type FilterOptions struct {
	Query       string
	Categories  []enums.ProductCategory
	Colors      []string
	MinPrice    decimal.Decimal
	MaxPrice    decimal.Decimal
	OnSale      bool
	NewArrivals bool
	MinRating   float64
	SortBy      enums.SortKey
}

// ApplyFilters produces an ordered subsequence of products matching the
// options. Pure: the input slice is never mutated, and identical inputs yield
// identical output. All orderings are stable so ties keep their original
// relative order.
func ApplyFilters(products []Product, opts FilterOptions) []Product {
	query := strings.ToLower(strings.TrimSpace(opts.Query))
	categories := toCategorySet(opts.Categories)
	colors := toLowerSet(opts.Colors)

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		if len(categories) > 0 {
			if _, ok := categories[p.Category]; !ok {
				continue
			}
		}
		if len(colors) > 0 && !hasVariantColor(p, colors) {
			continue
		}
		if p.Price.LessThan(opts.MinPrice) {
			continue
		}
		if opts.MaxPrice.IsPositive() && p.Price.GreaterThan(opts.MaxPrice) {
			continue
		}
		if opts.OnSale && !p.IsOnSale {
			continue
		}
		if opts.NewArrivals && !p.IsNew {
			continue
		}
		if opts.MinRating > 0 && ratingOrZero(p) < opts.MinRating {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, opts.SortBy)
	return out
}

// matchesQuery tests the lowered query against name, category, and
// description; any field matching is enough.
func matchesQuery(p Product, query string) bool {
	if strings.Contains(strings.ToLower(p.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Category.String()), query) {
		return true
	}
	if p.Description != nil && strings.Contains(strings.ToLower(*p.Description), query) {
		return true
	}
	return false
}

func hasVariantColor(p Product, colors map[string]struct{}) bool {
	for _, v := range p.Variants {
		if _, ok := colors[strings.ToLower(v.Color)]; ok {
			return true
		}
	}
	return false
}

func ratingOrZero(p Product) float64 {
	if p.AverageRating == nil {
		return 0
	}
	return *p.AverageRating
}

func sortProducts(products []Product, key enums.SortKey) {
	switch key {
	case enums.SortKeyPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.LessThan(products[j].Price)
		})
	case enums.SortKeyPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.GreaterThan(products[j].Price)
		})
	case enums.SortKeyRating:
		sort.SliceStable(products, func(i, j int) bool {
			return ratingOrZero(products[i]) > ratingOrZero(products[j])
		})
	case enums.SortKeyNewest:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].IsNew && !products[j].IsNew
		})
	default:
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
		})
	}
}

func toCategorySet(categories []enums.ProductCategory) map[enums.ProductCategory]struct{} {
	set := make(map[enums.ProductCategory]struct{}, len(categories))
	for _, c := range categories {
		set[c] = struct{}{}
	}
	return set
}

func toLowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		set[strings.ToLower(trimmed)] = struct{}{}
	}
	return set
}
