package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driving"
)

// Ensure RouteService implements the interface.
var _ driving.RouteService = (*RouteService)(nil)

// RouteService reports the route coverage of an application.
type RouteService struct {
	routes   driven.RouteSource
	sessions driving.SessionService
}

// NewRouteService creates a new route service.
func NewRouteService(routes driven.RouteSource) *RouteService {
	return &RouteService{routes: routes}
}

// SetSessionService enables use_latest_session.
func (s *RouteService) SetSessionService(sessions driving.SessionService) {
	s.sessions = sessions
}

// Coverage lists routes and counts how many have been exercised.
func (s *RouteService) Coverage(ctx context.Context, q domain.RouteQuery) (*domain.RouteCoverage, error) {
	if s.routes == nil {
		return nil, domain.ErrNotConfigured
	}
	q.AppID = strings.TrimSpace(q.AppID)
	if q.AppID == "" {
		return nil, fmt.Errorf("application id is required: %w", domain.ErrInvalidInput)
	}
	q.Session = q.Session.Normalise()
	if q.UseLatestSession && q.Session.SessionID != "" {
		return nil, fmt.Errorf("use_latest_session cannot be combined with session_id: %w", domain.ErrInvalidInput)
	}

	session, ok, advisory, err := resolveSession(ctx, s.sessions, q.AppID, q.Session, q.UseLatestSession)
	if err != nil {
		return nil, err
	}
	if !ok {
		cov := domain.NewRouteCoverage(nil)
		cov.Messages = append(cov.Messages, advisory)
		return &cov, nil
	}

	routes, err := s.routes.List(ctx, domain.RouteFilter{
		AppID:         q.AppID,
		SessionID:     session.SessionID,
		MetadataName:  session.MetadataName,
		MetadataValue: session.MetadataValue,
	})
	if err != nil {
		return nil, fmt.Errorf("listing routes: %w", err)
	}

	cov := domain.NewRouteCoverage(routes)
	return &cov, nil
}
