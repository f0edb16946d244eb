// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - PageSource: Fetches one page of records from the platform
//   - ApplicationSource, VulnerabilitySource, AttackSource, LibrarySource,
//     ScanProjectSource, ScanFindingSource: typed page sources
//   - RouteSource, SessionSource: non-paged platform lookups
//   - ConfigStore: Application configuration
//   - LimitsProvider: Current search limits
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Cache: Result cache with expiry. Without it every call reaches the platform.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
