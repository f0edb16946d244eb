package contrast

import (
	"context"
	"fmt"
	"net/url"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driven"
)

// Ensure SessionAPI implements the interface.
var _ driven.SessionSource = (*SessionAPI)(nil)

// SessionAPI reads agent sessions.
type SessionAPI struct {
	client *Client
}

// NewSessionAPI creates a session source.
func NewSessionAPI(client *Client) *SessionAPI {
	return &SessionAPI{client: client}
}

// Latest returns the most recent agent session. The platform answers 200
// with an empty body when the application has none.
func (s *SessionAPI) Latest(ctx context.Context, appID string) (*domain.AgentSession, error) {
	path := "/ng/organizations/" + url.PathEscape(s.client.OrgID()) +
		"/applications/" + url.PathEscape(appID) + "/agent-sessions/latest"

	var resp agentSessionJSON
	if err := s.client.get(ctx, path, nil, &resp); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("latest session of %s: %w", appID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("latest session of %s: %w", appID, err)
	}
	if resp.AgentSessionID == "" {
		return nil, fmt.Errorf("latest session of %s: %w", appID, domain.ErrNotFound)
	}

	session := resp.toDomain(appID)
	return &session, nil
}
