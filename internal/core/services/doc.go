// Package services implements the driving ports on top of the driven
// platform sources.
//
// Every listing runs through search.Engine: services build the criteria and
// predicate, pick the target count for the requested page, and turn the
// engine result into a domain.PagedResult whose Messages carry the engine's
// advisories. No service pages through the platform on its own.
package services
