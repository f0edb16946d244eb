package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
)

func TestRouteService_Coverage(t *testing.T) {
	routes := &mockRouteSource{routes: []domain.Route{
		{Signature: "GET /users", Status: domain.RouteExercised},
		{Signature: "POST /users", Status: domain.RouteDiscovered},
		{Signature: "GET /orders", Status: domain.RouteExercised},
	}}
	svc := NewRouteService(routes)

	cov, err := svc.Coverage(context.Background(), domain.RouteQuery{
		AppID:   "app-1",
		Session: domain.SessionFilter{MetadataName: " branch ", MetadataValue: "main"},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, cov.Total)
	assert.Equal(t, 2, cov.Exercised)
	assert.Equal(t, 1, cov.Discovered)
	assert.Equal(t, domain.RouteFilter{AppID: "app-1", MetadataName: "branch", MetadataValue: "main"}, routes.filter)
}

func TestRouteService_Coverage_UseLatestSession(t *testing.T) {
	routes := &mockRouteSource{}
	svc := NewRouteService(routes)
	svc.SetSessionService(NewSessionService(&mockSessionSource{session: &domain.AgentSession{ID: "s9"}}))

	_, err := svc.Coverage(context.Background(), domain.RouteQuery{AppID: "app-1", UseLatestSession: true})
	require.NoError(t, err)
	assert.Equal(t, "s9", routes.filter.SessionID)
}

func TestRouteService_Coverage_NoLatestSession(t *testing.T) {
	routes := &mockRouteSource{routes: []domain.Route{{Signature: "GET /"}}}
	svc := NewRouteService(routes)
	svc.SetSessionService(NewSessionService(&mockSessionSource{}))

	cov, err := svc.Coverage(context.Background(), domain.RouteQuery{AppID: "app-1", UseLatestSession: true})
	require.NoError(t, err)
	assert.Zero(t, cov.Total)
	assertMessage(t, cov.Messages, "has no agent sessions")
}

func TestRouteService_Coverage_Errors(t *testing.T) {
	t.Run("missing app id", func(t *testing.T) {
		_, err := NewRouteService(&mockRouteSource{}).Coverage(context.Background(), domain.RouteQuery{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("latest session without session service", func(t *testing.T) {
		_, err := NewRouteService(&mockRouteSource{}).Coverage(context.Background(),
			domain.RouteQuery{AppID: "app-1", UseLatestSession: true})
		assert.ErrorIs(t, err, domain.ErrNotConfigured)
	})

	t.Run("source failure", func(t *testing.T) {
		_, err := NewRouteService(&mockRouteSource{err: domain.ErrRateLimited}).Coverage(context.Background(),
			domain.RouteQuery{AppID: "app-1"})
		assert.ErrorIs(t, err, domain.ErrRateLimited)
	})
}
