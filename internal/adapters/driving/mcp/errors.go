// Package mcp provides an MCP (Model Context Protocol) server adapter for
// appsec-mcp. It exposes the application-security services as tools an AI
// assistant can call over stdio or streamable HTTP.
package mcp

import "errors"

// Errors returned by Ports.Validate.
var (
	ErrMissingApplicationService   = errors.New("mcp: application service is required")
	ErrMissingVulnerabilityService = errors.New("mcp: vulnerability service is required")
	ErrMissingAttackService        = errors.New("mcp: attack service is required")
	ErrMissingLibraryService       = errors.New("mcp: library service is required")
	ErrMissingRouteService         = errors.New("mcp: route service is required")
	ErrMissingSessionService       = errors.New("mcp: session service is required")
	ErrMissingScanService          = errors.New("mcp: scan service is required")
)
