package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
	"github.com/custodia-labs/appsec-mcp/internal/core/search"
)

// Summary gathers library counts, route coverage and the latest agent
// session of one application concurrently. A missing session is not an
// error; any other failure cancels the remaining lookups.
func (s *ApplicationService) Summary(ctx context.Context, appID string) (*domain.ApplicationSummary, error) {
	if s.libraries == nil || s.routes == nil || s.sessions == nil {
		return nil, domain.ErrNotConfigured
	}
	appID = strings.TrimSpace(appID)
	if appID == "" {
		return nil, fmt.Errorf("application id is required: %w", domain.ErrInvalidInput)
	}

	var (
		libs     search.Result[domain.Library]
		coverage *domain.RouteCoverage
		session  *domain.AgentSession
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		engine := search.NewEngine[domain.LibraryFilter, domain.Library](
			"summary_libraries", s.libraries, s.limits.SearchLimits())
		libs = engine.FetchAll(gctx, domain.LibraryFilter{AppID: appID})
		if libs.HadError && len(libs.Items) == 0 {
			return fmt.Errorf("libraries: %s: %w", libs.ErrorMessage, searchCause(libs))
		}
		return nil
	})

	g.Go(func() error {
		var err error
		coverage, err = s.routes.Coverage(gctx, domain.RouteQuery{AppID: appID})
		if err != nil {
			return fmt.Errorf("route coverage: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		session, err = s.sessions.Latest(gctx, appID)
		if errors.Is(err, domain.ErrNotFound) {
			session = nil
			return nil
		}
		if err != nil {
			return fmt.Errorf("latest session: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("summarising application %s: %w", appID, err)
	}

	summary := &domain.ApplicationSummary{
		AppID:         appID,
		LibraryCount:  len(libs.Items),
		RouteCoverage: coverage,
		LatestSession: session,
	}
	for i := range libs.Items {
		if libs.Items[i].IsVulnerable() {
			summary.VulnerableLibraryCount++
		}
	}

	summary.Messages = append(summary.Messages, libs.Advisories()...)
	if session == nil {
		summary.Messages = append(summary.Messages, "Application has no agent sessions.")
	}
	return summary, nil
}
