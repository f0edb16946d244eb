// Package domain defines the core business entities for appsec-mcp.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Application: an application onboarded to the security platform
//   - Vulnerability: a finding reported by an agent against an application
//   - Attack: a runtime attack observed by a protect agent
//   - Library: a third-party library used by an application
//   - Route: an application endpoint and its exercise state
//   - AgentSession: a run of an agent tagged with session metadata
//   - ScanProject / ScanFinding: static scan results
//   - SearchLimits: bounds applied to every paged search
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
