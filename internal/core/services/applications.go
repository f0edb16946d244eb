package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driving"
	"github.com/custodia-labs/appsec-mcp/internal/core/search"
	"github.com/custodia-labs/appsec-mcp/internal/logger"
)

// Ensure ApplicationService implements the interface.
var _ driving.ApplicationService = (*ApplicationService)(nil)

const applicationsCacheKey = "applications:all"

// ApplicationService finds applications and builds per-application
// summaries.
type ApplicationService struct {
	apps     driven.ApplicationSource
	limits   driven.LimitsProvider
	cache    resultCache

	libraries driven.LibrarySource
	routes    driving.RouteService
	sessions  driving.SessionService
}

// NewApplicationService creates a new application service.
func NewApplicationService(apps driven.ApplicationSource, limits driven.LimitsProvider) *ApplicationService {
	return &ApplicationService{apps: apps, limits: limits}
}

// SetCache enables caching of the full application list for ttl. Entries are keyed
// under scope, normally CacheScope of the connection in use.
func (s *ApplicationService) SetCache(cache driven.Cache, scope string, ttl time.Duration) {
	s.cache = resultCache{cache: cache, scope: scope, ttl: ttl}
}

// SetSummarySources sets the collaborators used by Summary.
func (s *ApplicationService) SetSummarySources(
	libraries driven.LibrarySource,
	routes driving.RouteService,
	sessions driving.SessionService,
) {
	s.libraries = libraries
	s.routes = routes
	s.sessions = sessions
}

// Search returns one page of the applications matching q. The application
// list is fetched once and filtered locally, so the total is known whenever
// the fetch completed.
func (s *ApplicationService) Search(
	ctx context.Context,
	q domain.ApplicationQuery,
) (*domain.PagedResult[domain.Application], error) {
	if s.apps == nil {
		return nil, domain.ErrNotConfigured
	}
	q.Page = q.Page.Normalise()

	match, err := applicationPredicate(q)
	if err != nil {
		return nil, err
	}

	apps, messages, complete, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.Application, 0, len(apps))
	for i := range apps {
		if match.Matches(apps[i]) {
			matched = append(matched, apps[i])
		}
	}

	page := domain.Paginate(matched, q.Page, complete)
	page.Messages = append(page.Messages, messages...)
	return &page, nil
}

// all returns every application, from cache when possible.
func (s *ApplicationService) all(ctx context.Context) (apps []domain.Application, messages []string, complete bool, err error) {
	if cached, ok := loadCached[[]domain.Application](ctx, s.cache, applicationsCacheKey); ok {
		return cached, nil, true, nil
	}

	engine := search.NewEngine[domain.ApplicationFilter, domain.Application](
		"applications", s.apps, s.limits.SearchLimits())
	res := engine.FetchAll(ctx, domain.ApplicationFilter{})
	if res.HadError && len(res.Items) == 0 {
		return nil, nil, false, fmt.Errorf("%s: %w", res.ErrorMessage, searchCause(res))
	}

	if res.Complete() {
		storeCached(ctx, s.cache, applicationsCacheKey, res.Items)
	}
	logger.Debug("fetched %d applications in %d page(s)", len(res.Items), res.PagesFetched)
	return res.Items, res.Advisories(), res.Complete(), nil
}

// applicationPredicate turns the query filters into one predicate.
func applicationPredicate(q domain.ApplicationQuery) (search.Predicate[domain.Application], error) {
	var preds []search.Predicate[domain.Application]

	if name := strings.TrimSpace(q.Name); name != "" {
		p, err := namePredicate(name)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}

	if tag := strings.TrimSpace(q.Tag); tag != "" {
		preds = append(preds, func(app domain.Application) bool {
			return slices.ContainsFunc(app.Tags, func(t string) bool { return strings.EqualFold(t, tag) })
		})
	}

	if lang := strings.TrimSpace(q.Language); lang != "" {
		preds = append(preds, func(app domain.Application) bool {
			return strings.EqualFold(app.Language, lang)
		})
	}

	if mdName := strings.TrimSpace(q.MetadataName); mdName != "" {
		mdValue := strings.TrimSpace(q.MetadataValue)
		preds = append(preds, func(app domain.Application) bool {
			return slices.ContainsFunc(app.Metadata, func(m domain.MetadataItem) bool {
				return strings.EqualFold(m.Name, mdName) && (mdValue == "" || strings.EqualFold(m.Value, mdValue))
			})
		})
	}

	return search.And(preds...), nil
}

// namePredicate matches names by case-insensitive substring, or by glob
// when the pattern holds glob metacharacters.
func namePredicate(pattern string) (search.Predicate[domain.Application], error) {
	lower := strings.ToLower(pattern)
	if !strings.ContainsAny(lower, "*?[") {
		return func(app domain.Application) bool {
			return strings.Contains(strings.ToLower(app.Name), lower)
		}, nil
	}

	g, err := glob.Compile(lower)
	if err != nil {
		return nil, fmt.Errorf("invalid name pattern %q: %w", pattern, domain.ErrInvalidInput)
	}
	return func(app domain.Application) bool {
		return g.Match(strings.ToLower(app.Name))
	}, nil
}
