package domain

import "time"

// Application is an application onboarded to the security platform.
type Application struct {
	ID         string
	Name       string
	Language   string
	Status     string
	Importance string
	Tags       []string
	Techs      []string
	Metadata   []MetadataItem
	LastSeen   time.Time
}

// ApplicationFilter narrows the remote application listing.
// All fields are optional; the platform listing is unfiltered when empty.
type ApplicationFilter struct {
	// Query is a free-text name filter forwarded to the platform.
	Query string
}

// ApplicationSummary aggregates per-application data fetched concurrently.
type ApplicationSummary struct {
	AppID string

	LibraryCount           int
	VulnerableLibraryCount int

	RouteCoverage *RouteCoverage

	LatestSession *AgentSession

	// Messages holds advisories gathered while building the summary.
	Messages []string
}
