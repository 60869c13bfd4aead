package orders

import (
	"github.com/nvalenzo/threadhaus-backend/pkg/pagination"
)

// ListParams configures order history pagination.
type ListParams struct {
	pagination.Params
}

// ListResult is one page of order history, newest first.
type ListResult struct {
	Items  []Order
	Cursor string
}
