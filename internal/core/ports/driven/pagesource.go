package driven

import (
	"context"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
)

// PageSource returns successive pages of a remote listing.
//
// Criteria are source-specific filter state and are passed through
// unchanged. An empty page signals the end of the data. Implementations
// must be safe for concurrent use when shared by concurrent searches.
type PageSource[C, T any] interface {
	FetchPage(ctx context.Context, criteria C, pageSize, offset int) ([]T, error)
}

// PageSourceFunc adapts a function to the PageSource interface.
type PageSourceFunc[C, T any] func(ctx context.Context, criteria C, pageSize, offset int) ([]T, error)

// FetchPage calls f.
func (f PageSourceFunc[C, T]) FetchPage(ctx context.Context, criteria C, pageSize, offset int) ([]T, error) {
	return f(ctx, criteria, pageSize, offset)
}

// LimitsProvider supplies the search limits in force. Limits are read per
// search so a reloaded configuration applies to the next call.
type LimitsProvider interface {
	SearchLimits() domain.SearchLimits
}

// StaticLimits is a LimitsProvider with fixed limits.
type StaticLimits domain.SearchLimits

// SearchLimits returns the fixed limits.
func (l StaticLimits) SearchLimits() domain.SearchLimits {
	return domain.SearchLimits(l)
}
