package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
	"github.com/custodia-labs/appsec-mcp/internal/core/validate"
)

// Tool names.
const (
	toolSearchApplications       = "search_applications"
	toolApplicationSummary       = "get_application_summary"
	toolSearchVulnerabilities    = "search_vulnerabilities"
	toolSearchAppVulnerabilities = "search_app_vulnerabilities"
	toolGetVulnerability         = "get_vulnerability"
	toolSearchAttacks            = "search_attacks"
	toolListLibraries            = "list_application_libraries"
	toolRouteCoverage            = "get_route_coverage"
	toolLatestSession            = "get_latest_session_metadata"
	toolScanResults              = "get_scan_results"
)

// SearchApplicationsInput is the input schema for search_applications.
type SearchApplicationsInput struct {
	Name          string `json:"name,omitempty" jsonschema:"case-insensitive name substring, or a glob when it contains * ? or ["`
	Tag           string `json:"tag,omitempty" jsonschema:"application tag, matched ignoring case"`
	Language      string `json:"language,omitempty" jsonschema:"application language, e.g. Java"`
	MetadataName  string `json:"metadata_name,omitempty" jsonschema:"application metadata field name"`
	MetadataValue string `json:"metadata_value,omitempty" jsonschema:"application metadata field value; requires metadata_name"`
	Page          int    `json:"page,omitempty" jsonschema:"1-based page number (default 1)"`
	PageSize      int    `json:"page_size,omitempty" jsonschema:"items per page, 1 to 100 (default 50)"`
}

// ApplicationIDInput is the input schema of tools addressing one application.
type ApplicationIDInput struct {
	AppID string `json:"app_id" jsonschema:"application id"`
}

// SearchVulnerabilitiesInput is the input schema for search_vulnerabilities.
type SearchVulnerabilitiesInput struct {
	Severities     string `json:"severities,omitempty" jsonschema:"comma-separated: CRITICAL, HIGH, MEDIUM, LOW, NOTE"`
	Statuses       string `json:"statuses,omitempty" jsonschema:"comma-separated: Reported, Suspicious, Confirmed, NotAProblem, Remediated, Fixed, AutoRemediated (default Reported, Suspicious, Confirmed)"`
	Environments   string `json:"environments,omitempty" jsonschema:"comma-separated: DEVELOPMENT, QA, PRODUCTION"`
	VulnTypes      string `json:"vuln_types,omitempty" jsonschema:"comma-separated rule names, e.g. sql-injection"`
	Tags           string `json:"tags,omitempty" jsonschema:"comma-separated vulnerability tags"`
	LastSeenAfter  string `json:"last_seen_after,omitempty" jsonschema:"YYYY-MM-DD, RFC 3339 or epoch milliseconds"`
	LastSeenBefore string `json:"last_seen_before,omitempty" jsonschema:"YYYY-MM-DD, RFC 3339 or epoch milliseconds"`
	Page           int    `json:"page,omitempty" jsonschema:"1-based page number (default 1)"`
	PageSize       int    `json:"page_size,omitempty" jsonschema:"items per page, 1 to 100 (default 50)"`
}

// SearchAppVulnerabilitiesInput is the input schema for search_app_vulnerabilities.
type SearchAppVulnerabilitiesInput struct {
	AppID                string `json:"app_id" jsonschema:"application id"`
	Severities           string `json:"severities,omitempty" jsonschema:"comma-separated: CRITICAL, HIGH, MEDIUM, LOW, NOTE"`
	Statuses             string `json:"statuses,omitempty" jsonschema:"comma-separated statuses (default Reported, Suspicious, Confirmed)"`
	Environments         string `json:"environments,omitempty" jsonschema:"comma-separated: DEVELOPMENT, QA, PRODUCTION"`
	VulnTypes            string `json:"vuln_types,omitempty" jsonschema:"comma-separated rule names"`
	Tags                 string `json:"tags,omitempty" jsonschema:"comma-separated vulnerability tags"`
	LastSeenAfter        string `json:"last_seen_after,omitempty" jsonschema:"YYYY-MM-DD, RFC 3339 or epoch milliseconds"`
	LastSeenBefore       string `json:"last_seen_before,omitempty" jsonschema:"YYYY-MM-DD, RFC 3339 or epoch milliseconds"`
	SessionID            string `json:"session_id,omitempty" jsonschema:"only vulnerabilities seen in this agent session"`
	SessionMetadataName  string `json:"session_metadata_name,omitempty" jsonschema:"session metadata field name, e.g. branchName"`
	SessionMetadataValue string `json:"session_metadata_value,omitempty" jsonschema:"session metadata value; requires session_metadata_name"`
	UseLatestSession     bool   `json:"use_latest_session,omitempty" jsonschema:"only vulnerabilities seen in the latest agent session; cannot be combined with session_id"`
	Page                 int    `json:"page,omitempty" jsonschema:"1-based page number (default 1)"`
	PageSize             int    `json:"page_size,omitempty" jsonschema:"items per page, 1 to 100 (default 50)"`
}

// GetVulnerabilityInput is the input schema for get_vulnerability.
type GetVulnerabilityInput struct {
	AppID  string `json:"app_id" jsonschema:"application id"`
	VulnID string `json:"vuln_id" jsonschema:"vulnerability uuid"`
}

// SearchAttacksInput is the input schema for search_attacks.
type SearchAttacksInput struct {
	QuickFilter string `json:"quick_filter,omitempty" jsonschema:"one of ALL, ACTIVE, MANUAL, AUTOMATED, PRODUCTION, EFFECTIVE (default ALL)"`
	Keyword     string `json:"keyword,omitempty" jsonschema:"free-text keyword"`
	Page        int    `json:"page,omitempty" jsonschema:"1-based page number (default 1)"`
	PageSize    int    `json:"page_size,omitempty" jsonschema:"items per page, 1 to 100 (default 50)"`
}

// ListLibrariesInput is the input schema for list_application_libraries.
type ListLibrariesInput struct {
	AppID          string `json:"app_id" jsonschema:"application id"`
	VulnerableOnly bool   `json:"vulnerable_only,omitempty" jsonschema:"only libraries with known CVEs"`
	Page           int    `json:"page,omitempty" jsonschema:"1-based page number (default 1)"`
	PageSize       int    `json:"page_size,omitempty" jsonschema:"items per page, 1 to 100 (default 50)"`
}

// RouteCoverageInput is the input schema for get_route_coverage.
type RouteCoverageInput struct {
	AppID                string `json:"app_id" jsonschema:"application id"`
	SessionID            string `json:"session_id,omitempty" jsonschema:"only routes of this agent session"`
	SessionMetadataName  string `json:"session_metadata_name,omitempty" jsonschema:"session metadata field name"`
	SessionMetadataValue string `json:"session_metadata_value,omitempty" jsonschema:"session metadata value; requires session_metadata_name"`
	UseLatestSession     bool   `json:"use_latest_session,omitempty" jsonschema:"only routes of the latest agent session; cannot be combined with session_id"`
}

// ScanResultsInput is the input schema for get_scan_results.
type ScanResultsInput struct {
	ProjectName string `json:"project_name" jsonschema:"exact scan project name, matched ignoring case"`
	Severities  string `json:"severities,omitempty" jsonschema:"comma-separated: CRITICAL, HIGH, MEDIUM, LOW, NOTE"`
	Page        int    `json:"page,omitempty" jsonschema:"1-based page number (default 1)"`
	PageSize    int    `json:"page_size,omitempty" jsonschema:"items per page, 1 to 100 (default 50)"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	readOnly := &mcp.ToolAnnotations{ReadOnlyHint: true}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolSearchApplications,
		Description: "Search applications by name, tag, language or metadata",
		Annotations: readOnly,
	}, instrument(toolSearchApplications, s.handleSearchApplications))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolApplicationSummary,
		Description: "Summarise one application: library counts, route coverage and latest agent session",
		Annotations: readOnly,
	}, instrument(toolApplicationSummary, s.handleApplicationSummary))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolSearchVulnerabilities,
		Description: "Search vulnerabilities across the organisation",
		Annotations: readOnly,
	}, instrument(toolSearchVulnerabilities, s.handleSearchVulnerabilities))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolSearchAppVulnerabilities,
		Description: "Search the vulnerabilities of one application, optionally limited to an agent session",
		Annotations: readOnly,
	}, instrument(toolSearchAppVulnerabilities, s.handleSearchAppVulnerabilities))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolGetVulnerability,
		Description: "Get one vulnerability with its request, story and recommendation",
		Annotations: readOnly,
	}, instrument(toolGetVulnerability, s.handleGetVulnerability))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolSearchAttacks,
		Description: "Search runtime attacks observed by protect agents",
		Annotations: readOnly,
	}, instrument(toolSearchAttacks, s.handleSearchAttacks))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolListLibraries,
		Description: "List the third-party libraries of one application",
		Annotations: readOnly,
	}, instrument(toolListLibraries, s.handleListLibraries))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolRouteCoverage,
		Description: "Report which routes of an application were exercised",
		Annotations: readOnly,
	}, instrument(toolRouteCoverage, s.handleRouteCoverage))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolLatestSession,
		Description: "Get the metadata of an application's latest agent session",
		Annotations: readOnly,
	}, instrument(toolLatestSession, s.handleLatestSession))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolScanResults,
		Description: "Get the findings of a scan project's latest static scan",
		Annotations: readOnly,
	}, instrument(toolScanResults, s.handleScanResults))
}

func (s *Server) handleSearchApplications(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	in SearchApplicationsInput,
) (*mcp.CallToolResult, ApplicationsOutput, error) {
	v := validate.New()
	v.DependsOn("metadata_value", in.MetadataValue, "metadata_name", in.MetadataName)
	page := v.Page(in.Page, in.PageSize)
	if err := v.Err(); err != nil {
		return nil, ApplicationsOutput{}, err
	}

	res, err := s.ports.Applications.Search(ctx, domain.ApplicationQuery{
		Name:          strings.TrimSpace(in.Name),
		Tag:           strings.TrimSpace(in.Tag),
		Language:      strings.TrimSpace(in.Language),
		MetadataName:  strings.TrimSpace(in.MetadataName),
		MetadataValue: strings.TrimSpace(in.MetadataValue),
		Page:          page,
	})
	if err != nil {
		return nil, ApplicationsOutput{}, err
	}

	return nil, ApplicationsOutput{
		Applications: mapItems(res.Items, applicationOutput),
		PageInfo:     pageInfoOf(res, v.Warnings()),
	}, nil
}

func (s *Server) handleApplicationSummary(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	in ApplicationIDInput,
) (*mcp.CallToolResult, ApplicationSummaryOutput, error) {
	v := validate.New()
	appID := v.Required("app_id", in.AppID)
	if err := v.Err(); err != nil {
		return nil, ApplicationSummaryOutput{}, err
	}

	summary, err := s.ports.Applications.Summary(ctx, appID)
	if err != nil {
		return nil, ApplicationSummaryOutput{}, err
	}
	return nil, summaryOutput(summary), nil
}

// vulnerabilityFilter parses the filter fields shared by both vulnerability
// search tools.
func vulnerabilityFilter(v *validate.Validator, severities, statuses, environments, vulnTypes, tags, after, before string) domain.VulnerabilityFilter {
	f := domain.VulnerabilityFilter{
		Severities:     v.Severities("severities", severities),
		Statuses:       v.Statuses("statuses", statuses),
		Environments:   v.Environments("environments", environments),
		VulnTypes:      validate.List(vulnTypes),
		Tags:           validate.List(tags),
		LastSeenAfter:  v.Date("last_seen_after", after, false),
		LastSeenBefore: v.Date("last_seen_before", before, true),
	}
	v.DateRange("last_seen_after", f.LastSeenAfter, "last_seen_before", f.LastSeenBefore)
	return f
}

func (s *Server) handleSearchVulnerabilities(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	in SearchVulnerabilitiesInput,
) (*mcp.CallToolResult, VulnerabilitiesOutput, error) {
	v := validate.New()
	filter := vulnerabilityFilter(v, in.Severities, in.Statuses, in.Environments,
		in.VulnTypes, in.Tags, in.LastSeenAfter, in.LastSeenBefore)
	page := v.Page(in.Page, in.PageSize)
	if err := v.Err(); err != nil {
		return nil, VulnerabilitiesOutput{}, err
	}

	res, err := s.ports.Vulnerabilities.Search(ctx, domain.VulnerabilityQuery{Filter: filter, Page: page})
	if err != nil {
		return nil, VulnerabilitiesOutput{}, err
	}
	return nil, vulnerabilitiesOutput(res, v.Warnings()), nil
}

func (s *Server) handleSearchAppVulnerabilities(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	in SearchAppVulnerabilitiesInput,
) (*mcp.CallToolResult, VulnerabilitiesOutput, error) {
	v := validate.New()
	appID := v.Required("app_id", in.AppID)
	filter := vulnerabilityFilter(v, in.Severities, in.Statuses, in.Environments,
		in.VulnTypes, in.Tags, in.LastSeenAfter, in.LastSeenBefore)
	filter.AppID = appID
	session := sessionFilter(v, in.SessionID, in.SessionMetadataName, in.SessionMetadataValue, in.UseLatestSession)
	page := v.Page(in.Page, in.PageSize)
	if err := v.Err(); err != nil {
		return nil, VulnerabilitiesOutput{}, err
	}

	res, err := s.ports.Vulnerabilities.Search(ctx, domain.VulnerabilityQuery{
		Filter:           filter,
		Session:          session,
		UseLatestSession: in.UseLatestSession,
		Page:             page,
	})
	if err != nil {
		return nil, VulnerabilitiesOutput{}, err
	}
	return nil, vulnerabilitiesOutput(res, v.Warnings()), nil
}

func vulnerabilitiesOutput(res *domain.PagedResult[domain.Vulnerability], warnings []string) VulnerabilitiesOutput {
	return VulnerabilitiesOutput{
		Vulnerabilities: mapItems(res.Items, vulnerabilityOutput),
		PageInfo:        pageInfoOf(res, warnings),
	}
}

// sessionFilter validates the session criteria shared by the
// session-aware tools.
func sessionFilter(v *validate.Validator, sessionID, name, value string, useLatest bool) domain.SessionFilter {
	v.DependsOn("session_metadata_value", value, "session_metadata_name", name)
	v.Conflicts("use_latest_session", useLatest, "session_id", strings.TrimSpace(sessionID) != "")
	return domain.SessionFilter{
		SessionID:     sessionID,
		MetadataName:  name,
		MetadataValue: value,
	}.Normalise()
}

func (s *Server) handleGetVulnerability(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	in GetVulnerabilityInput,
) (*mcp.CallToolResult, VulnerabilityDetailOutput, error) {
	v := validate.New()
	appID := v.Required("app_id", in.AppID)
	vulnID := v.Required("vuln_id", in.VulnID)
	if err := v.Err(); err != nil {
		return nil, VulnerabilityDetailOutput{}, err
	}

	detail, err := s.ports.Vulnerabilities.Get(ctx, appID, vulnID)
	if err != nil {
		return nil, VulnerabilityDetailOutput{}, err
	}
	return nil, vulnerabilityDetailOutput(detail), nil
}

func (s *Server) handleSearchAttacks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	in SearchAttacksInput,
) (*mcp.CallToolResult, AttacksOutput, error) {
	v := validate.New()
	quick := validate.One(v, "quick_filter", in.QuickFilter, domain.AllAttackQuickFilters(), domain.AttackFilterAll)
	page := v.Page(in.Page, in.PageSize)
	if err := v.Err(); err != nil {
		return nil, AttacksOutput{}, err
	}

	res, err := s.ports.Attacks.Search(ctx, domain.AttackQuery{
		Filter: domain.AttackFilter{QuickFilter: quick, Keyword: strings.TrimSpace(in.Keyword)},
		Page:   page,
	})
	if err != nil {
		return nil, AttacksOutput{}, err
	}
	return nil, AttacksOutput{
		Attacks:  mapItems(res.Items, attackOutput),
		PageInfo: pageInfoOf(res, v.Warnings()),
	}, nil
}

func (s *Server) handleListLibraries(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	in ListLibrariesInput,
) (*mcp.CallToolResult, LibrariesOutput, error) {
	v := validate.New()
	appID := v.Required("app_id", in.AppID)
	page := v.Page(in.Page, in.PageSize)
	if err := v.Err(); err != nil {
		return nil, LibrariesOutput{}, err
	}

	res, err := s.ports.Libraries.List(ctx, domain.LibraryQuery{
		AppID:          appID,
		VulnerableOnly: in.VulnerableOnly,
		Page:           page,
	})
	if err != nil {
		return nil, LibrariesOutput{}, err
	}
	return nil, LibrariesOutput{
		Libraries: mapItems(res.Items, libraryOutput),
		PageInfo:  pageInfoOf(res, v.Warnings()),
	}, nil
}

func (s *Server) handleRouteCoverage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	in RouteCoverageInput,
) (*mcp.CallToolResult, RouteCoverageOutput, error) {
	v := validate.New()
	appID := v.Required("app_id", in.AppID)
	session := sessionFilter(v, in.SessionID, in.SessionMetadataName, in.SessionMetadataValue, in.UseLatestSession)
	if err := v.Err(); err != nil {
		return nil, RouteCoverageOutput{}, err
	}

	coverage, err := s.ports.Routes.Coverage(ctx, domain.RouteQuery{
		AppID:            appID,
		Session:          session,
		UseLatestSession: in.UseLatestSession,
	})
	if err != nil {
		return nil, RouteCoverageOutput{}, err
	}
	return nil, routeCoverageOutput(coverage, v.Warnings()), nil
}

func (s *Server) handleLatestSession(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	in ApplicationIDInput,
) (*mcp.CallToolResult, LatestSessionOutput, error) {
	v := validate.New()
	appID := v.Required("app_id", in.AppID)
	if err := v.Err(); err != nil {
		return nil, LatestSessionOutput{}, err
	}

	session, err := s.ports.Sessions.Latest(ctx, appID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, LatestSessionOutput{
			Messages: []string{fmt.Sprintf("Application %s has no agent sessions.", appID)},
		}, nil
	}
	if err != nil {
		return nil, LatestSessionOutput{}, err
	}
	return nil, LatestSessionOutput{Found: true, Session: sessionOutput(session)}, nil
}

func (s *Server) handleScanResults(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	in ScanResultsInput,
) (*mcp.CallToolResult, ScanResultsOutput, error) {
	v := validate.New()
	name := v.Required("project_name", in.ProjectName)
	severities := v.Severities("severities", in.Severities)
	page := v.Page(in.Page, in.PageSize)
	if err := v.Err(); err != nil {
		return nil, ScanResultsOutput{}, err
	}

	res, err := s.ports.Scans.Results(ctx, domain.ScanQuery{
		ProjectName: name,
		Severities:  severities,
		Page:        page,
	})
	if err != nil {
		return nil, ScanResultsOutput{}, err
	}
	return nil, ScanResultsOutput{
		Project:  scanProjectOutput(res.Project),
		Findings: mapItems(res.Findings.Items, scanFindingOutput),
		PageInfo: pageInfoOf(&res.Findings, v.Warnings()),
	}, nil
}
