package enums

import "fmt"

// SortKey selects the ordering applied by the catalog browse endpoint.
type SortKey string

const (
	SortKeyName      SortKey = "name"
	SortKeyPriceAsc  SortKey = "price-asc"
	SortKeyPriceDesc SortKey = "price-desc"
	SortKeyRating    SortKey = "rating"
	SortKeyNewest    SortKey = "newest"
)

var validSortKeys = []SortKey{
	SortKeyName,
	SortKeyPriceAsc,
	SortKeyPriceDesc,
	SortKeyRating,
	SortKeyNewest,
}

// String implements fmt.Stringer.
func (s SortKey) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SortKey.
func (s SortKey) IsValid() bool {
	for _, candidate := range validSortKeys {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSortKey converts raw input into a SortKey. Empty input falls back to
// the default name ordering.
func ParseSortKey(value string) (SortKey, error) {
	if value == "" {
		return SortKeyName, nil
	}
	for _, candidate := range validSortKeys {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort key %q", value)
}
