package search

import "fmt"

// TruncationReason names the limit that stopped a truncated search.
type TruncationReason string

// Truncation reasons.
const (
	// TruncatedByPageLimit means MaxPages full pages were scanned.
	TruncatedByPageLimit TruncationReason = "page_limit"

	// TruncatedByMemoryCap means MaxItems records were accumulated.
	TruncatedByMemoryCap TruncationReason = "memory_cap"
)

// Result is the outcome of a search. Truncated and HadError are mutually
// exclusive: a limit stop is not an error, and an error stop is never
// reported as truncation.
type Result[T any] struct {
	// Items are the matching records in source order.
	Items []T

	// Truncated is set when a limit stopped the search before the target
	// count was met.
	Truncated bool

	// Reason names the limit behind Truncated. Empty otherwise.
	Reason TruncationReason

	// HadError is set when a fetch failed or the context ended. Items then
	// hold everything gathered before the failure.
	HadError bool

	// ErrorMessage describes the failure, including the offset requested.
	ErrorMessage string

	// Err is the underlying cause when HadError is set.
	Err error

	// PagesFetched counts remote calls, including a failed one.
	PagesFetched int

	// Limits are the limits the search ran with.
	Limits Limits
}

// Limits records the effective bounds of a search.
type Limits struct {
	PageSize int
	MaxPages int
	MaxItems int
}

// Complete reports whether the search ended without truncation or error.
func (r Result[T]) Complete() bool {
	return !r.Truncated && !r.HadError
}

// Advisories returns the messages that must accompany an incomplete result.
func (r Result[T]) Advisories() []string {
	switch {
	case r.HadError:
		return []string{fmt.Sprintf(
			"Results are partial: %s. %d item(s) gathered before the failure are included.",
			r.ErrorMessage, len(r.Items))}
	case r.Reason == TruncatedByMemoryCap:
		return []string{fmt.Sprintf(
			"Search stopped after collecting the maximum of %d items; more matches may exist. Narrow the filters.",
			r.Limits.MaxItems)}
	case r.Truncated:
		return []string{fmt.Sprintf(
			"Search stopped after scanning %d pages of %d records; more matches may exist. Narrow the filters.",
			r.Limits.MaxPages, r.Limits.PageSize)}
	default:
		return nil
	}
}
