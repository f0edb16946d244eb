package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driving"
	"github.com/custodia-labs/appsec-mcp/internal/core/search"
)

// Ensure LibraryService implements the interface.
var _ driving.LibraryService = (*LibraryService)(nil)

// LibraryService lists the third-party libraries of an application.
type LibraryService struct {
	libraries driven.LibrarySource
	limits    driven.LimitsProvider
}

// NewLibraryService creates a new library service.
func NewLibraryService(libraries driven.LibrarySource, limits driven.LimitsProvider) *LibraryService {
	return &LibraryService{libraries: libraries, limits: limits}
}

// List returns one page of an application's libraries.
func (s *LibraryService) List(ctx context.Context, q domain.LibraryQuery) (*domain.PagedResult[domain.Library], error) {
	if s.libraries == nil {
		return nil, domain.ErrNotConfigured
	}
	q.AppID = strings.TrimSpace(q.AppID)
	if q.AppID == "" {
		return nil, fmt.Errorf("application id is required: %w", domain.ErrInvalidInput)
	}
	q.Page = q.Page.Normalise()

	var match search.Predicate[domain.Library]
	if q.VulnerableOnly {
		match = domain.Library.IsVulnerable
	}

	engine := search.NewEngine[domain.LibraryFilter, domain.Library](
		"libraries", s.libraries, s.limits.SearchLimits())
	res := engine.Search(ctx, domain.LibraryFilter{AppID: q.AppID}, match, q.Page.Target())
	return pageOf(res, q.Page)
}
