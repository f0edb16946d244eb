package domain

import "time"

// Severity is a vulnerability severity label.
type Severity string

// Severity values recognised by the platform.
const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
	SeverityNote     Severity = "NOTE"
)

// AllSeverities returns severities from most to least severe.
func AllSeverities() []Severity {
	return []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityNote}
}

// IsValid returns true if the severity is recognised.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityNote:
		return true
	default:
		return false
	}
}

// VulnerabilityStatus is the triage state of a vulnerability.
type VulnerabilityStatus string

// Status values recognised by the platform.
const (
	StatusReported       VulnerabilityStatus = "Reported"
	StatusSuspicious     VulnerabilityStatus = "Suspicious"
	StatusConfirmed      VulnerabilityStatus = "Confirmed"
	StatusNotAProblem    VulnerabilityStatus = "NotAProblem"
	StatusRemediated     VulnerabilityStatus = "Remediated"
	StatusFixed          VulnerabilityStatus = "Fixed"
	StatusAutoRemediated VulnerabilityStatus = "AutoRemediated"
)

// AllStatuses returns every recognised status.
func AllStatuses() []VulnerabilityStatus {
	return []VulnerabilityStatus{
		StatusReported, StatusSuspicious, StatusConfirmed, StatusNotAProblem,
		StatusRemediated, StatusFixed, StatusAutoRemediated,
	}
}

// DefaultOpenStatuses are the statuses searched when none are given.
func DefaultOpenStatuses() []VulnerabilityStatus {
	return []VulnerabilityStatus{StatusReported, StatusSuspicious, StatusConfirmed}
}

// Environment is a server environment label.
type Environment string

// Environment values recognised by the platform.
const (
	EnvironmentDevelopment Environment = "DEVELOPMENT"
	EnvironmentQA          Environment = "QA"
	EnvironmentProduction  Environment = "PRODUCTION"
)

// AllEnvironments returns every recognised environment.
func AllEnvironments() []Environment {
	return []Environment{EnvironmentDevelopment, EnvironmentQA, EnvironmentProduction}
}

// Vulnerability is the lightweight record returned by vulnerability searches.
type Vulnerability struct {
	ID           string
	Title        string
	Type         string
	Severity     Severity
	Status       VulnerabilityStatus
	AppID        string
	AppName      string
	Environments []Environment
	Tags         []string
	FirstSeen    time.Time
	LastSeen     time.Time
	Sessions     []SessionMetadata
}

// SessionMetadata implements SessionScoped.
func (v Vulnerability) SessionMetadata() []SessionMetadata {
	return v.Sessions
}

// VulnerabilityFilter is passed through to the vulnerability page source.
type VulnerabilityFilter struct {
	// AppID scopes the search to one application. Empty searches the
	// whole organisation.
	AppID string

	Severities   []Severity
	Statuses     []VulnerabilityStatus
	Environments []Environment
	VulnTypes    []string
	Tags         []string

	LastSeenAfter  *time.Time
	LastSeenBefore *time.Time
}

// VulnerabilityDetail adds the evidence of a single vulnerability.
type VulnerabilityDetail struct {
	Vulnerability

	RuleName       string
	Request        string
	Story          string
	Recommendation string
	StackTrace     []string
	CWE            string
	OWASP          string
}
