package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driving"
	"github.com/custodia-labs/appsec-mcp/internal/core/search"
)

// Ensure ScanService implements the interface.
var _ driving.ScanService = (*ScanService)(nil)

// ScanService reports the findings of static scans.
type ScanService struct {
	projects driven.ScanProjectSource
	findings driven.ScanFindingSource
	limits   driven.LimitsProvider
}

// NewScanService creates a new scan service.
func NewScanService(
	projects driven.ScanProjectSource,
	findings driven.ScanFindingSource,
	limits driven.LimitsProvider,
) *ScanService {
	return &ScanService{projects: projects, findings: findings, limits: limits}
}

// Results finds the project named in q and returns one page of its latest
// scan's findings.
func (s *ScanService) Results(ctx context.Context, q domain.ScanQuery) (*domain.ScanResults, error) {
	if s.projects == nil || s.findings == nil {
		return nil, domain.ErrNotConfigured
	}
	name := strings.TrimSpace(q.ProjectName)
	if name == "" {
		return nil, fmt.Errorf("project name is required: %w", domain.ErrInvalidInput)
	}
	q.Page = q.Page.Normalise()

	project, err := s.findProject(ctx, name)
	if err != nil {
		return nil, err
	}

	out := &domain.ScanResults{Project: *project}
	if project.LastScanID == "" {
		out.Findings = *emptyPage[domain.ScanFinding](q.Page, "Project has no completed scans.")
		return out, nil
	}

	var match search.Predicate[domain.ScanFinding]
	if len(q.Severities) > 0 {
		severities := slices.Clone(q.Severities)
		match = func(f domain.ScanFinding) bool {
			return slices.Contains(severities, f.Severity)
		}
	}

	engine := search.NewEngine[domain.ScanFindingFilter, domain.ScanFinding](
		"scan_findings", s.findings, s.limits.SearchLimits())
	res := engine.Search(ctx,
		domain.ScanFindingFilter{ProjectID: project.ID, ScanID: project.LastScanID},
		match, q.Page.Target())

	page, err := pageOf(res, q.Page)
	if err != nil {
		return nil, err
	}
	out.Findings = *page
	return out, nil
}

// findProject stops at the first project whose name matches exactly,
// ignoring case.
func (s *ScanService) findProject(ctx context.Context, name string) (*domain.ScanProject, error) {
	engine := search.NewEngine[domain.ScanProjectFilter, domain.ScanProject](
		"scan_projects", s.projects, s.limits.SearchLimits())
	res := engine.Search(ctx, domain.ScanProjectFilter{Name: name}, func(p domain.ScanProject) bool {
		return strings.EqualFold(p.Name, name)
	}, 1)

	if len(res.Items) > 0 {
		return &res.Items[0], nil
	}
	if res.HadError {
		return nil, fmt.Errorf("looking up scan project %q: %s: %w", name, res.ErrorMessage, searchCause(res))
	}
	if res.Truncated {
		return nil, fmt.Errorf("scan project %q not found within search limits: %w", name, domain.ErrNotFound)
	}
	return nil, fmt.Errorf("scan project %q: %w", name, domain.ErrNotFound)
}
