package domain

import "fmt"

// Default search limits.
const (
	// DefaultSearchPageSize is the number of records requested per remote page.
	DefaultSearchPageSize = 500

	// DefaultSearchMaxPages bounds remote calls made by a single search.
	DefaultSearchMaxPages = 100

	// DefaultSearchMaxItems bounds the number of records held in memory.
	DefaultSearchMaxItems = 50000
)

// SearchLimits bounds the worst-case memory and remote-call volume of a
// paged search, independently of the caller's requested target count.
type SearchLimits struct {
	// PageSize is the number of records requested per remote page.
	PageSize int

	// MaxPages is the number of full pages scanned before giving up.
	MaxPages int

	// MaxItems is the absolute cap on accumulated records.
	MaxItems int
}

// DefaultSearchLimits returns the built-in limits.
func DefaultSearchLimits() SearchLimits {
	return SearchLimits{
		PageSize: DefaultSearchPageSize,
		MaxPages: DefaultSearchMaxPages,
		MaxItems: DefaultSearchMaxItems,
	}
}

// WithDefaults replaces non-positive fields with the built-in defaults.
func (l SearchLimits) WithDefaults() SearchLimits {
	if l.PageSize <= 0 {
		l.PageSize = DefaultSearchPageSize
	}
	if l.MaxPages <= 0 {
		l.MaxPages = DefaultSearchMaxPages
	}
	if l.MaxItems <= 0 {
		l.MaxItems = DefaultSearchMaxItems
	}
	return l
}

// Validate reports limits that are set but unusable.
func (l SearchLimits) Validate() error {
	if l.PageSize < 0 || l.MaxPages < 0 || l.MaxItems < 0 {
		return fmt.Errorf("search limits must not be negative: %w", ErrInvalidInput)
	}
	return nil
}

// Page request bounds used by every listing tool.
const (
	DefaultPage     = 1
	DefaultPageSize = 50
	MaxPageSize     = 100

	// MaxOffset is the furthest item a page may start at. It sits well above
	// any usable MaxItems and keeps offset arithmetic far from overflow.
	MaxOffset = 1_000_000
)

// LastPage returns the highest page number allowed for pageSize.
func LastPage(pageSize int) int {
	return MaxOffset/max(pageSize, 1) + 1
}

// PageRequest is a 1-based page of a listing.
type PageRequest struct {
	Page     int
	PageSize int
}

// Normalise fills defaults for unset values.
func (p PageRequest) Normalise() PageRequest {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	p.Page = min(p.Page, LastPage(p.PageSize))
	return p
}

// Offset returns the zero-based index of the first item on the page.
// Out-of-range pages are normalised first so the result is never negative.
func (p PageRequest) Offset() int {
	p = p.Normalise()
	return (p.Page - 1) * p.PageSize
}

// Target returns how many matching items a search must collect to fill the
// page and learn whether another page exists.
func (p PageRequest) Target() int {
	p = p.Normalise()
	return p.Offset() + p.PageSize + 1
}

// PagedResult is one page of a listing plus advisory messages.
type PagedResult[T any] struct {
	Items        []T
	Page         int
	PageSize     int
	HasMorePages bool

	// TotalItems is set only when the full population is known.
	TotalItems *int

	// Messages holds advisories the caller must surface, such as truncation
	// or partial-failure notices.
	Messages []string
}

// Paginate slices items for the requested page. When total is true the
// length of items is reported as TotalItems.
func Paginate[T any](items []T, req PageRequest, total bool) PagedResult[T] {
	req = req.Normalise()
	out := PagedResult[T]{
		Items:    []T{},
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	start := req.Offset()
	if start < len(items) {
		end := min(start+req.PageSize, len(items))
		out.Items = items[start:end]
		out.HasMorePages = end < len(items)
	}

	if total {
		n := len(items)
		out.TotalItems = &n
	}
	return out
}
