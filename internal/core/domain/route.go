package domain

// RouteStatus reports whether a route has been exercised.
type RouteStatus string

// Route states recognised by the platform.
const (
	RouteDiscovered RouteStatus = "DISCOVERED"
	RouteExercised  RouteStatus = "EXERCISED"
)

// Route is an application endpoint known to the agent.
type Route struct {
	Signature       string
	Status          RouteStatus
	Exercised       int64
	Vulnerabilities int
	Observations    []string
}

// RouteFilter selects the routes of one application, optionally limited
// to a single agent session or session metadata value.
type RouteFilter struct {
	AppID         string
	SessionID     string
	MetadataName  string
	MetadataValue string
}

// RouteCoverage summarises the routes of an application.
type RouteCoverage struct {
	Routes     []Route
	Total      int
	Exercised  int
	Discovered int
	Messages   []string
}

// NewRouteCoverage counts route states.
func NewRouteCoverage(routes []Route) RouteCoverage {
	cov := RouteCoverage{Routes: routes, Total: len(routes)}
	for i := range routes {
		if routes[i].Status == RouteExercised {
			cov.Exercised++
		} else {
			cov.Discovered++
		}
	}
	return cov
}
