package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

func ParseQueryDecimal(r *http.Request, key string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a decimal number").WithDetails(map[string]any{"field": key})
	}
	if value.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must not be negative").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

func ParseQueryBool(r *http.Request, key string) bool {
	raw := strings.TrimSpace(strings.ToLower(r.URL.Query().Get(key)))
	return raw == "true" || raw == "1"
}

// ParseQueryList splits a comma-separated query parameter into trimmed,
// non-empty values.
func ParseQueryList(r *http.Request, key string) []string {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
