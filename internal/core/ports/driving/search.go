package driving

import (
	"context"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
)

// ApplicationService finds applications.
type ApplicationService interface {
	// Search returns one page of the applications matching the query.
	Search(ctx context.Context, q domain.ApplicationQuery) (*domain.PagedResult[domain.Application], error)

	// Summary gathers libraries, route coverage and the latest session of
	// one application.
	Summary(ctx context.Context, appID string) (*domain.ApplicationSummary, error)
}

// VulnerabilityService finds vulnerabilities.
type VulnerabilityService interface {
	// Search returns one page of the vulnerabilities matching the query.
	// Incomplete searches still return a page, with advisories in Messages.
	Search(ctx context.Context, q domain.VulnerabilityQuery) (*domain.PagedResult[domain.Vulnerability], error)

	// Get returns one vulnerability with its evidence.
	Get(ctx context.Context, appID, vulnID string) (*domain.VulnerabilityDetail, error)
}

// AttackService finds attacks.
type AttackService interface {
	Search(ctx context.Context, q domain.AttackQuery) (*domain.PagedResult[domain.Attack], error)
}

// LibraryService lists application libraries.
type LibraryService interface {
	List(ctx context.Context, q domain.LibraryQuery) (*domain.PagedResult[domain.Library], error)
}

// RouteService reports route coverage.
type RouteService interface {
	Coverage(ctx context.Context, q domain.RouteQuery) (*domain.RouteCoverage, error)
}

// SessionService looks up agent sessions.
type SessionService interface {
	// Latest returns the most recent agent session of an application.
	// Returns domain.ErrNotFound if there is none.
	Latest(ctx context.Context, appID string) (*domain.AgentSession, error)
}

// ScanService reports static scan results.
type ScanService interface {
	Results(ctx context.Context, q domain.ScanQuery) (*domain.ScanResults, error)
}
