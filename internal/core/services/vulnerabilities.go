package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driving"
	"github.com/custodia-labs/appsec-mcp/internal/core/search"
	"github.com/custodia-labs/appsec-mcp/internal/logger"
)

// Ensure VulnerabilityService implements the interface.
var _ driving.VulnerabilityService = (*VulnerabilityService)(nil)

// VulnerabilityService searches vulnerabilities organisation-wide or within
// one application.
type VulnerabilityService struct {
	vulns    driven.VulnerabilitySource
	limits   driven.LimitsProvider
	sessions driving.SessionService
}

// NewVulnerabilityService creates a new vulnerability service.
func NewVulnerabilityService(vulns driven.VulnerabilitySource, limits driven.LimitsProvider) *VulnerabilityService {
	return &VulnerabilityService{vulns: vulns, limits: limits}
}

// SetSessionService enables use_latest_session.
func (s *VulnerabilityService) SetSessionService(sessions driving.SessionService) {
	s.sessions = sessions
}

// Search returns one page of matching vulnerabilities.
func (s *VulnerabilityService) Search(
	ctx context.Context,
	q domain.VulnerabilityQuery,
) (*domain.PagedResult[domain.Vulnerability], error) {
	if s.vulns == nil {
		return nil, domain.ErrNotConfigured
	}

	q.Page = q.Page.Normalise()
	q.Filter.AppID = strings.TrimSpace(q.Filter.AppID)
	q.Session = q.Session.Normalise()

	if q.HasSessionCriteria() && q.Filter.AppID == "" {
		return nil, fmt.Errorf("session filters require an application id: %w", domain.ErrInvalidInput)
	}
	if q.UseLatestSession && q.Session.SessionID != "" {
		return nil, fmt.Errorf("use_latest_session cannot be combined with session_id: %w", domain.ErrInvalidInput)
	}

	var messages []string
	if len(q.Filter.Statuses) == 0 {
		q.Filter.Statuses = domain.DefaultOpenStatuses()
		messages = append(messages,
			"No status filter given; showing open vulnerabilities (Reported, Suspicious, Confirmed).")
	}

	session, ok, advisory, err := resolveSession(ctx, s.sessions, q.Filter.AppID, q.Session, q.UseLatestSession)
	if err != nil {
		return nil, err
	}
	if !ok {
		page := emptyPage[domain.Vulnerability](q.Page, advisory)
		page.Messages = append(messages, page.Messages...)
		return page, nil
	}

	name := "vulnerabilities"
	if q.Filter.AppID != "" {
		name = "app_vulnerabilities"
	}
	logger.Debug("vulnerability search: app=%q session=%+v page=%d", q.Filter.AppID, session, q.Page.Page)

	engine := search.NewEngine[domain.VulnerabilityFilter, domain.Vulnerability](name, s.vulns, s.limits.SearchLimits())
	res := engine.Search(ctx, q.Filter, search.NewSessionPredicate[domain.Vulnerability](session), q.Page.Target())

	page, err := pageOf(res, q.Page)
	if err != nil {
		return nil, err
	}
	page.Messages = append(messages, page.Messages...)
	return page, nil
}

// Get returns one vulnerability with its evidence.
func (s *VulnerabilityService) Get(ctx context.Context, appID, vulnID string) (*domain.VulnerabilityDetail, error) {
	if s.vulns == nil {
		return nil, domain.ErrNotConfigured
	}
	appID = strings.TrimSpace(appID)
	vulnID = strings.TrimSpace(vulnID)
	if appID == "" || vulnID == "" {
		return nil, fmt.Errorf("application id and vulnerability id are required: %w", domain.ErrInvalidInput)
	}
	return s.vulns.Get(ctx, appID, vulnID)
}
