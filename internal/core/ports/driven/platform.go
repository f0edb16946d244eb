package driven

import (
	"context"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
)

// ApplicationSource lists applications.
type ApplicationSource interface {
	PageSource[domain.ApplicationFilter, domain.Application]
}

// VulnerabilitySource lists and fetches vulnerabilities.
type VulnerabilitySource interface {
	PageSource[domain.VulnerabilityFilter, domain.Vulnerability]

	// Get returns one vulnerability with its evidence.
	// Returns domain.ErrNotFound if the vulnerability does not exist.
	Get(ctx context.Context, appID, vulnID string) (*domain.VulnerabilityDetail, error)
}

// AttackSource lists attacks.
type AttackSource interface {
	PageSource[domain.AttackFilter, domain.Attack]
}

// LibrarySource lists the libraries of an application.
type LibrarySource interface {
	PageSource[domain.LibraryFilter, domain.Library]
}

// ScanProjectSource lists static-analysis projects.
type ScanProjectSource interface {
	PageSource[domain.ScanProjectFilter, domain.ScanProject]
}

// ScanFindingSource lists the findings of one scan.
type ScanFindingSource interface {
	PageSource[domain.ScanFindingFilter, domain.ScanFinding]
}

// RouteSource lists application routes. The platform returns routes in one
// response, so this is not a page source.
type RouteSource interface {
	List(ctx context.Context, filter domain.RouteFilter) ([]domain.Route, error)
}

// SessionSource looks up agent sessions.
type SessionSource interface {
	// Latest returns the most recent agent session of an application.
	// Returns domain.ErrNotFound if the application has no sessions.
	Latest(ctx context.Context, appID string) (*domain.AgentSession, error)
}
