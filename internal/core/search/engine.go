package search

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/appsec-mcp/internal/logger"
	"github.com/custodia-labs/appsec-mcp/internal/observability"
)

// preallocCeiling caps the initial accumulator capacity.
const preallocCeiling = 1000

// Engine runs bounded searches against one page source.
// An Engine holds no per-search state and may be used concurrently when its
// source allows it.
type Engine[C, T any] struct {
	name   string
	source driven.PageSource[C, T]
	limits domain.SearchLimits
}

// NewEngine creates an engine over source. Unset limits take the defaults.
// The name labels logs, metrics and spans.
func NewEngine[C, T any](name string, source driven.PageSource[C, T], limits domain.SearchLimits) *Engine[C, T] {
	return &Engine[C, T]{
		name:   name,
		source: source,
		limits: limits.WithDefaults(),
	}
}

// Limits returns the limits the engine enforces.
func (e *Engine[C, T]) Limits() domain.SearchLimits {
	return e.limits
}

// FetchAll returns every record the source yields, bounded by MaxItems and
// MaxPages. It is Search with an always-true predicate and a target of
// MaxItems, so collecting exactly MaxItems records counts as complete.
func (e *Engine[C, T]) FetchAll(ctx context.Context, criteria C) Result[T] {
	return e.Search(ctx, criteria, Always[T](), e.limits.MaxItems)
}

// Search fetches pages until target records match, the source is exhausted,
// a limit is reached or a fetch fails. A target above MaxItems is clamped
// to MaxItems and the result reports truncation if the cap is hit.
func (e *Engine[C, T]) Search(ctx context.Context, criteria C, match Predicate[T], target int) Result[T] {
	if target < 1 {
		target = 1
	}
	pageSize, maxPages, maxItems := e.limits.PageSize, e.limits.MaxPages, e.limits.MaxItems
	logger.Section(e.name + " search")

	ctx, span := observability.Tracer().Start(ctx, "search."+e.name)
	defer span.End()
	span.SetAttributes(
		attribute.Int("search.target", target),
		attribute.Int("search.page_size", pageSize),
		attribute.Int("search.max_pages", maxPages),
		attribute.Int("search.max_items", maxItems),
	)

	res := Result[T]{
		Items:  make([]T, 0, min(target, maxItems, preallocCeiling)),
		Limits: Limits{PageSize: pageSize, MaxPages: maxPages, MaxItems: maxItems},
	}

	offset, pagesChecked := 0, 0
	fail := func(err error) Result[T] {
		res.HadError = true
		res.Err = err
		res.ErrorMessage = fmt.Sprintf("fetching page at offset %d: %v", offset, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, res.ErrorMessage)
		e.finish(span, res)
		return res
	}

	for len(res.Items) < target && pagesChecked < maxPages && len(res.Items) < maxItems {
		if err := ctx.Err(); err != nil {
			return fail(fmt.Errorf("search cancelled: %w", err))
		}

		page, err := e.fetch(ctx, criteria, pageSize, offset)
		res.PagesFetched++
		if err != nil {
			return fail(err)
		}

		if len(page) == 0 {
			break
		}

		full := false
		for _, item := range page {
			if !match.Matches(item) {
				continue
			}
			res.Items = append(res.Items, item)
			if len(res.Items) >= target || len(res.Items) >= maxItems {
				full = true
				break
			}
		}

		if full || len(page) < pageSize {
			break
		}

		offset += pageSize
		pagesChecked++
	}

	if len(res.Items) < target {
		switch {
		case len(res.Items) >= maxItems:
			res.Truncated, res.Reason = true, TruncatedByMemoryCap
		case pagesChecked >= maxPages:
			res.Truncated, res.Reason = true, TruncatedByPageLimit
		}
	}

	e.finish(span, res)
	return res
}

// fetch requests one page from the source.
func (e *Engine[C, T]) fetch(ctx context.Context, criteria C, pageSize, offset int) ([]T, error) {
	start := time.Now()
	page, err := e.source.FetchPage(ctx, criteria, pageSize, offset)
	observability.SearchPageFetchDuration.WithLabelValues(e.name).Observe(time.Since(start).Seconds())
	observability.SearchPagesFetchedTotal.WithLabelValues(e.name).Inc()

	if err != nil {
		return nil, err
	}
	logger.Debug("%s: offset %d returned %d records", e.name, offset, len(page))
	return page, nil
}

func (e *Engine[C, T]) finish(span trace.Span, res Result[T]) {
	outcome := observability.OutcomeComplete
	switch {
	case res.HadError:
		outcome = observability.OutcomeError
		logger.Warn("%s search failed after %d page(s): %s", e.name, res.PagesFetched, res.ErrorMessage)
	case res.Truncated:
		outcome = observability.OutcomeTruncated
		logger.Info("%s search truncated (%s) with %d item(s)", e.name, res.Reason, len(res.Items))
	default:
		logger.Debug("%s search complete: %d item(s) from %d page(s)", e.name, len(res.Items), res.PagesFetched)
	}

	observability.SearchOutcomesTotal.WithLabelValues(e.name, outcome).Inc()
	span.SetAttributes(
		attribute.String("search.outcome", outcome),
		attribute.Int("search.items", len(res.Items)),
		attribute.Int("search.pages_fetched", res.PagesFetched),
	)
}
