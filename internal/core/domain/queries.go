package domain

// ApplicationQuery selects applications. Name matches as a case-insensitive
// substring, or as a glob when it contains *, ? or [.
type ApplicationQuery struct {
	Name          string
	Tag           string
	Language      string
	MetadataName  string
	MetadataValue string
	Page          PageRequest
}

// VulnerabilityQuery selects vulnerabilities. Session criteria need
// Filter.AppID.
type VulnerabilityQuery struct {
	Filter VulnerabilityFilter

	Session SessionFilter

	// UseLatestSession restricts results to the application's most recent
	// agent session. It cannot be combined with Session.SessionID.
	UseLatestSession bool

	Page PageRequest
}

// HasSessionCriteria reports whether the query filters by agent session.
func (q VulnerabilityQuery) HasSessionCriteria() bool {
	return q.UseLatestSession || !q.Session.IsEmpty()
}

// AttackQuery selects attacks.
type AttackQuery struct {
	Filter AttackFilter
	Page   PageRequest
}

// LibraryQuery selects the libraries of one application.
type LibraryQuery struct {
	AppID          string
	VulnerableOnly bool
	Page           PageRequest
}

// RouteQuery selects the routes of one application.
type RouteQuery struct {
	AppID            string
	Session          SessionFilter
	UseLatestSession bool
}

// ScanQuery selects the findings of a project's latest scan.
type ScanQuery struct {
	ProjectName string
	Severities  []Severity
	Page        PageRequest
}

// ScanResults pairs a scan project with a page of its latest findings.
type ScanResults struct {
	Project  ScanProject
	Findings PagedResult[ScanFinding]
}
