package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the page size used when callers do not ask for one.
	DefaultLimit = 25
	// MaxLimit caps the page size any caller can request.
	MaxLimit = 100
)

// Params carries the raw pagination inputs from a request.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor marks the sort position of the first row of a page. It travels on
// the wire as base64("<RFC3339Nano>|<uuid>").
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// NormalizeLimit clamps a requested limit to [1, MaxLimit], substituting
// DefaultLimit for zero or negative values.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// EncodeCursor renders the cursor as an opaque token.
func EncodeCursor(cursor Cursor) string {
	raw := cursor.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + cursor.ID.String()
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// ParseCursor decodes a token produced by EncodeCursor. A blank token is not
// an error; it means the first page.
func ParseCursor(token string) (*Cursor, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}

	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	stamp, id, ok := strings.Cut(string(raw), "|")
	if !ok {
		return nil, fmt.Errorf("malformed cursor")
	}

	at, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return nil, fmt.Errorf("cursor timestamp: %w", err)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("cursor id: %w", err)
	}
	return &Cursor{CreatedAt: at, ID: parsed}, nil
}
