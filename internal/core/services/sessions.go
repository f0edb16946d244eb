package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driving"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService looks up agent sessions.
type SessionService struct {
	sessions driven.SessionSource
	cache    resultCache
}

// NewSessionService creates a new session service.
func NewSessionService(sessions driven.SessionSource) *SessionService {
	return &SessionService{sessions: sessions}
}

// SetCache enables caching of session lookups for ttl. Entries are keyed
// under scope, normally CacheScope of the connection in use.
func (s *SessionService) SetCache(cache driven.Cache, scope string, ttl time.Duration) {
	s.cache = resultCache{cache: cache, scope: scope, ttl: ttl}
}

// Latest returns the most recent agent session of an application.
func (s *SessionService) Latest(ctx context.Context, appID string) (*domain.AgentSession, error) {
	if s.sessions == nil {
		return nil, domain.ErrNotConfigured
	}
	appID = strings.TrimSpace(appID)
	if appID == "" {
		return nil, fmt.Errorf("application id is required: %w", domain.ErrInvalidInput)
	}

	key := "session:latest:" + appID
	if cached, ok := loadCached[domain.AgentSession](ctx, s.cache, key); ok {
		return &cached, nil
	}

	session, err := s.sessions.Latest(ctx, appID)
	if err != nil {
		return nil, err
	}

	storeCached(ctx, s.cache, key, *session)
	return session, nil
}

// resolveSession folds use_latest_session into filter. ok is false when
// the application has no session, in which case nothing can match and
// message explains why.
func resolveSession(
	ctx context.Context,
	sessions driving.SessionService,
	appID string,
	filter domain.SessionFilter,
	useLatest bool,
) (resolved domain.SessionFilter, ok bool, message string, err error) {
	filter = filter.Normalise()
	if !useLatest {
		return filter, true, "", nil
	}
	if sessions == nil {
		return filter, false, "", fmt.Errorf("latest session lookup: %w", domain.ErrNotConfigured)
	}

	latest, err := sessions.Latest(ctx, appID)
	if errors.Is(err, domain.ErrNotFound) {
		return filter, false, fmt.Sprintf(
			"Application %s has no agent sessions, so no results match the latest session.", appID), nil
	}
	if err != nil {
		return filter, false, "", fmt.Errorf("resolving latest session: %w", err)
	}

	filter.SessionID = latest.ID
	return filter, true, "", nil
}
