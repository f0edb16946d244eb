package services

import (
	"fmt"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
	"github.com/custodia-labs/appsec-mcp/internal/core/search"
)

// pageOf slices the requested page out of a search result. The search is
// expected to have run with req.Target(), so one item past the page means
// another page exists. When the search finished early on its own the
// population is known and reported as TotalItems.
//
// A failed search that gathered nothing is returned as an error so the
// caller sees the platform failure; any partial work is returned as a page
// with advisories instead.
func pageOf[T any](res search.Result[T], req domain.PageRequest) (*domain.PagedResult[T], error) {
	if res.HadError && len(res.Items) == 0 {
		return nil, fmt.Errorf("%s: %w", res.ErrorMessage, searchCause(res))
	}

	req = req.Normalise()
	page := domain.Paginate(res.Items, req, false)

	if res.Complete() && len(res.Items) < req.Target() {
		total := len(res.Items)
		page.TotalItems = &total
	}

	page.Messages = append(page.Messages, res.Advisories()...)
	return &page, nil
}

// searchCause returns the error behind a failed search.
func searchCause[T any](res search.Result[T]) error {
	if res.Err != nil {
		return res.Err
	}
	return domain.ErrPlatformUnavailable
}

// emptyPage returns a page with no items and the given advisory.
func emptyPage[T any](req domain.PageRequest, message string) *domain.PagedResult[T] {
	page := domain.Paginate([]T(nil), req, true)
	page.Messages = append(page.Messages, message)
	return &page
}
