package mcp

import (
	"errors"

	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	Applications    driving.ApplicationService
	Vulnerabilities driving.VulnerabilityService
	Attacks         driving.AttackService
	Libraries       driving.LibraryService
	Routes          driving.RouteService
	Sessions        driving.SessionService
	Scans           driving.ScanService

	// Settings is optional. When set, the effective search limits are
	// published as a resource.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set. Every missing port is
// reported.
func (p *Ports) Validate() error {
	var errs []error
	if p.Applications == nil {
		errs = append(errs, ErrMissingApplicationService)
	}
	if p.Vulnerabilities == nil {
		errs = append(errs, ErrMissingVulnerabilityService)
	}
	if p.Attacks == nil {
		errs = append(errs, ErrMissingAttackService)
	}
	if p.Libraries == nil {
		errs = append(errs, ErrMissingLibraryService)
	}
	if p.Routes == nil {
		errs = append(errs, ErrMissingRouteService)
	}
	if p.Sessions == nil {
		errs = append(errs, ErrMissingSessionService)
	}
	if p.Scans == nil {
		errs = append(errs, ErrMissingScanService)
	}
	return errors.Join(errs...)
}
