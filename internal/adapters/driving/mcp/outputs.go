package mcp

import (
	"time"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
)

// PageInfo describes the page returned by a listing tool.
type PageInfo struct {
	Page         int  `json:"page"`
	PageSize     int  `json:"page_size"`
	HasMorePages bool `json:"has_more_pages"`
	TotalItems   *int `json:"total_items,omitempty" jsonschema:"set only when every matching item was seen"`
	// Messages must be shown to the user: they report partial or truncated results.
	Messages []string `json:"messages,omitempty" jsonschema:"advisories about partial or truncated results; relay them to the user"`
}

// MetadataOutput is one name/value pair.
type MetadataOutput struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ApplicationOutput is one application.
type ApplicationOutput struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Language     string           `json:"language,omitempty"`
	Status       string           `json:"status,omitempty"`
	Importance   string           `json:"importance,omitempty"`
	Tags         []string         `json:"tags,omitempty"`
	Technologies []string         `json:"technologies,omitempty"`
	Metadata     []MetadataOutput `json:"metadata,omitempty"`
	LastSeen     string           `json:"last_seen,omitempty"`
}

// ApplicationsOutput is the output of search_applications.
type ApplicationsOutput struct {
	Applications []ApplicationOutput `json:"applications"`
	PageInfo     PageInfo            `json:"page_info"`
}

// SessionMetadataOutput is the metadata of one agent session.
type SessionMetadataOutput struct {
	SessionID string           `json:"session_id"`
	Metadata  []MetadataOutput `json:"metadata,omitempty"`
}

// VulnerabilityOutput is one vulnerability.
type VulnerabilityOutput struct {
	ID           string                  `json:"id"`
	Title        string                  `json:"title"`
	Type         string                  `json:"type,omitempty"`
	Severity     string                  `json:"severity"`
	Status       string                  `json:"status"`
	AppID        string                  `json:"app_id,omitempty"`
	AppName      string                  `json:"app_name,omitempty"`
	Environments []string                `json:"environments,omitempty"`
	Tags         []string                `json:"tags,omitempty"`
	FirstSeen    string                  `json:"first_seen,omitempty"`
	LastSeen     string                  `json:"last_seen,omitempty"`
	Sessions     []SessionMetadataOutput `json:"sessions,omitempty"`
}

// VulnerabilitiesOutput is the output of both vulnerability search tools.
type VulnerabilitiesOutput struct {
	Vulnerabilities []VulnerabilityOutput `json:"vulnerabilities"`
	PageInfo        PageInfo              `json:"page_info"`
}

// VulnerabilityDetailOutput is the output of get_vulnerability.
type VulnerabilityDetailOutput struct {
	Vulnerability  VulnerabilityOutput `json:"vulnerability"`
	RuleName       string              `json:"rule_name,omitempty"`
	Request        string              `json:"request,omitempty"`
	Story          string              `json:"story,omitempty"`
	Recommendation string              `json:"recommendation,omitempty"`
	StackTrace     []string            `json:"stack_trace,omitempty"`
	CWE            string              `json:"cwe,omitempty"`
	OWASP          string              `json:"owasp,omitempty"`
}

// AttackOutput is one attack.
type AttackOutput struct {
	ID           string   `json:"id"`
	Source       string   `json:"source,omitempty"`
	Status       string   `json:"status,omitempty"`
	Result       string   `json:"result,omitempty"`
	Rules        []string `json:"rules,omitempty"`
	Applications []string `json:"applications,omitempty"`
	Probes       int      `json:"probes"`
	StartTime    string   `json:"start_time,omitempty"`
	EndTime      string   `json:"end_time,omitempty"`
}

// AttacksOutput is the output of search_attacks.
type AttacksOutput struct {
	Attacks  []AttackOutput `json:"attacks"`
	PageInfo PageInfo       `json:"page_info"`
}

// LibraryVulnerabilityOutput is a CVE affecting a library.
type LibraryVulnerabilityOutput struct {
	Name     string  `json:"name"`
	Severity string  `json:"severity,omitempty"`
	Score    float64 `json:"score,omitempty"`
}

// LibraryOutput is one library.
type LibraryOutput struct {
	Hash            string                       `json:"hash"`
	FileName        string                       `json:"file_name"`
	Version         string                       `json:"version,omitempty"`
	LatestVersion   string                       `json:"latest_version,omitempty"`
	Grade           string                       `json:"grade,omitempty"`
	ClassCount      int                          `json:"class_count"`
	ClassesUsed     int                          `json:"classes_used"`
	ReleaseDate     string                       `json:"release_date,omitempty"`
	Vulnerabilities []LibraryVulnerabilityOutput `json:"vulnerabilities,omitempty"`
}

// LibrariesOutput is the output of list_application_libraries.
type LibrariesOutput struct {
	Libraries []LibraryOutput `json:"libraries"`
	PageInfo  PageInfo        `json:"page_info"`
}

// RouteOutput is one route.
type RouteOutput struct {
	Signature       string   `json:"signature"`
	Status          string   `json:"status"`
	Exercised       int64    `json:"exercised,omitempty"`
	Vulnerabilities int      `json:"vulnerabilities"`
	Observations    []string `json:"observations,omitempty"`
}

// RouteCoverageOutput is the output of get_route_coverage.
type RouteCoverageOutput struct {
	Total      int           `json:"total"`
	Exercised  int           `json:"exercised"`
	Discovered int           `json:"discovered"`
	Routes     []RouteOutput `json:"routes"`
	Messages   []string      `json:"messages,omitempty"`
}

// SessionOutput is one agent session.
type SessionOutput struct {
	ID        string           `json:"id"`
	AppID     string           `json:"app_id"`
	StartedAt string           `json:"started_at,omitempty"`
	Metadata  []MetadataOutput `json:"metadata,omitempty"`
}

// LatestSessionOutput is the output of get_latest_session_metadata.
type LatestSessionOutput struct {
	Found    bool           `json:"found"`
	Session  *SessionOutput `json:"session,omitempty"`
	Messages []string       `json:"messages,omitempty"`
}

// CoverageSummaryOutput counts routes without listing them.
type CoverageSummaryOutput struct {
	Total      int `json:"total"`
	Exercised  int `json:"exercised"`
	Discovered int `json:"discovered"`
}

// ApplicationSummaryOutput is the output of get_application_summary.
type ApplicationSummaryOutput struct {
	AppID                  string                 `json:"app_id"`
	LibraryCount           int                    `json:"library_count"`
	VulnerableLibraryCount int                    `json:"vulnerable_library_count"`
	RouteCoverage          *CoverageSummaryOutput `json:"route_coverage,omitempty"`
	LatestSession          *SessionOutput         `json:"latest_session,omitempty"`
	Messages               []string               `json:"messages,omitempty"`
}

// ScanProjectOutput is a static scan project.
type ScanProjectOutput struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Language     string `json:"language,omitempty"`
	LastScanID   string `json:"last_scan_id,omitempty"`
	LastScanTime string `json:"last_scan_time,omitempty"`
	Critical     int    `json:"critical"`
	High         int    `json:"high"`
	Medium       int    `json:"medium"`
	Low          int    `json:"low"`
	Note         int    `json:"note"`
}

// ScanFindingOutput is one scan finding.
type ScanFindingOutput struct {
	ID       string `json:"id"`
	RuleID   string `json:"rule_id"`
	Severity string `json:"severity"`
	Message  string `json:"message,omitempty"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Status   string `json:"status,omitempty"`
}

// ScanResultsOutput is the output of get_scan_results.
type ScanResultsOutput struct {
	Project  ScanProjectOutput   `json:"project"`
	Findings []ScanFindingOutput `json:"findings"`
	PageInfo PageInfo            `json:"page_info"`
}

// ==================== Conversions ====================

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// mapItems converts every item, never returning nil so "[]" is emitted.
func mapItems[T, O any](items []T, conv func(T) O) []O {
	out := make([]O, len(items))
	for i := range items {
		out[i] = conv(items[i])
	}
	return out
}

// pageInfoOf describes page, placing validation warnings before the
// service advisories.
func pageInfoOf[T any](page *domain.PagedResult[T], warnings []string) PageInfo {
	return PageInfo{
		Page:         page.Page,
		PageSize:     page.PageSize,
		HasMorePages: page.HasMorePages,
		TotalItems:   page.TotalItems,
		Messages:     withWarnings(warnings, page.Messages),
	}
}

func withWarnings(warnings, messages []string) []string {
	if len(warnings) == 0 {
		return messages
	}
	return append(append([]string{}, warnings...), messages...)
}

func metadataOutputs(items []domain.MetadataItem) []MetadataOutput {
	if len(items) == 0 {
		return nil
	}
	return mapItems(items, func(m domain.MetadataItem) MetadataOutput {
		return MetadataOutput{Name: m.Name, Value: m.Value}
	})
}

func applicationOutput(a domain.Application) ApplicationOutput {
	return ApplicationOutput{
		ID:           a.ID,
		Name:         a.Name,
		Language:     a.Language,
		Status:       a.Status,
		Importance:   a.Importance,
		Tags:         a.Tags,
		Technologies: a.Techs,
		Metadata:     metadataOutputs(a.Metadata),
		LastSeen:     formatTime(a.LastSeen),
	}
}

func vulnerabilityOutput(v domain.Vulnerability) VulnerabilityOutput {
	out := VulnerabilityOutput{
		ID:        v.ID,
		Title:     v.Title,
		Type:      v.Type,
		Severity:  string(v.Severity),
		Status:    string(v.Status),
		AppID:     v.AppID,
		AppName:   v.AppName,
		Tags:      v.Tags,
		FirstSeen: formatTime(v.FirstSeen),
		LastSeen:  formatTime(v.LastSeen),
	}
	for _, env := range v.Environments {
		out.Environments = append(out.Environments, string(env))
	}
	for _, s := range v.Sessions {
		out.Sessions = append(out.Sessions, SessionMetadataOutput{
			SessionID: s.SessionID,
			Metadata:  metadataOutputs(s.Metadata),
		})
	}
	return out
}

func vulnerabilityDetailOutput(d *domain.VulnerabilityDetail) VulnerabilityDetailOutput {
	return VulnerabilityDetailOutput{
		Vulnerability:  vulnerabilityOutput(d.Vulnerability),
		RuleName:       d.RuleName,
		Request:        d.Request,
		Story:          d.Story,
		Recommendation: d.Recommendation,
		StackTrace:     d.StackTrace,
		CWE:            d.CWE,
		OWASP:          d.OWASP,
	}
}

func attackOutput(a domain.Attack) AttackOutput {
	return AttackOutput{
		ID:           a.ID,
		Source:       a.Source,
		Status:       a.Status,
		Result:       a.Result,
		Rules:        a.Rules,
		Applications: a.Applications,
		Probes:       a.Probes,
		StartTime:    formatTime(a.StartTime),
		EndTime:      formatTime(a.EndTime),
	}
}

func libraryOutput(l domain.Library) LibraryOutput {
	out := LibraryOutput{
		Hash:          l.Hash,
		FileName:      l.FileName,
		Version:       l.Version,
		LatestVersion: l.LatestVersion,
		Grade:         l.Grade,
		ClassCount:    l.ClassCount,
		ClassesUsed:   l.ClassesUsed,
		ReleaseDate:   formatTime(l.ReleaseDate),
	}
	for _, v := range l.Vulnerabilities {
		out.Vulnerabilities = append(out.Vulnerabilities, LibraryVulnerabilityOutput(v))
	}
	return out
}

func routeCoverageOutput(c *domain.RouteCoverage, warnings []string) RouteCoverageOutput {
	return RouteCoverageOutput{
		Total:      c.Total,
		Exercised:  c.Exercised,
		Discovered: c.Discovered,
		Routes: mapItems(c.Routes, func(r domain.Route) RouteOutput {
			return RouteOutput{
				Signature:       r.Signature,
				Status:          string(r.Status),
				Exercised:       r.Exercised,
				Vulnerabilities: r.Vulnerabilities,
				Observations:    r.Observations,
			}
		}),
		Messages: withWarnings(warnings, c.Messages),
	}
}

func sessionOutput(s *domain.AgentSession) *SessionOutput {
	if s == nil {
		return nil
	}
	return &SessionOutput{
		ID:        s.ID,
		AppID:     s.AppID,
		StartedAt: formatTime(s.StartedAt),
		Metadata:  metadataOutputs(s.Metadata),
	}
}

func summaryOutput(s *domain.ApplicationSummary) ApplicationSummaryOutput {
	out := ApplicationSummaryOutput{
		AppID:                  s.AppID,
		LibraryCount:           s.LibraryCount,
		VulnerableLibraryCount: s.VulnerableLibraryCount,
		LatestSession:          sessionOutput(s.LatestSession),
		Messages:               s.Messages,
	}
	if c := s.RouteCoverage; c != nil {
		out.RouteCoverage = &CoverageSummaryOutput{Total: c.Total, Exercised: c.Exercised, Discovered: c.Discovered}
	}
	return out
}

func scanProjectOutput(p domain.ScanProject) ScanProjectOutput {
	return ScanProjectOutput{
		ID:           p.ID,
		Name:         p.Name,
		Language:     p.Language,
		LastScanID:   p.LastScanID,
		LastScanTime: formatTime(p.LastScanTime),
		Critical:     p.Critical,
		High:         p.High,
		Medium:       p.Medium,
		Low:          p.Low,
		Note:         p.Note,
	}
}

func scanFindingOutput(f domain.ScanFinding) ScanFindingOutput {
	return ScanFindingOutput{
		ID:       f.ID,
		RuleID:   f.RuleID,
		Severity: string(f.Severity),
		Message:  f.Message,
		File:     f.File,
		Line:     f.Line,
		Status:   f.Status,
	}
}
