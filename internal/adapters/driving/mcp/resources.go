package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for appsec-mcp resources.
	uriScheme = "appsec://"

	mimeJSON = "application/json"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	if s.ports.Settings != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + "search-limits",
			Name:        "search-limits",
			Description: "Page size, page budget and item budget applied to every search",
			MIMEType:    mimeJSON,
		}, s.handleLimitsResource)
	}

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "applications/{appId}/summary",
		Name:        "application-summary",
		Description: "Library counts, route coverage and latest session of an application",
		MIMEType:    mimeJSON,
	}, s.handleSummaryResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "applications/{appId}/sessions/latest",
		Name:        "latest-session",
		Description: "Metadata of the latest agent session of an application",
		MIMEType:    mimeJSON,
	}, s.handleSessionResource)
}

// handleLimitsResource returns the effective search limits.
func (s *Server) handleLimitsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	limits := s.ports.Settings.SearchLimits()
	return jsonResource(req.Params.URI, struct {
		PageSize int `json:"page_size"`
		MaxPages int `json:"max_pages"`
		MaxItems int `json:"max_items"`
	}{limits.PageSize, limits.MaxPages, limits.MaxItems})
}

// handleSummaryResource returns the summary of one application.
func (s *Server) handleSummaryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	appID := extractAppID(req.Params.URI, "/summary")
	if appID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	summary, err := s.ports.Applications.Summary(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("summarising application: %w", toolError(err))
	}
	return jsonResource(req.Params.URI, summaryOutput(summary))
}

// handleSessionResource returns the latest session of one application.
func (s *Server) handleSessionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	appID := extractAppID(req.Params.URI, "/sessions/latest")
	if appID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	session, err := s.ports.Sessions.Latest(ctx, appID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting latest session: %w", toolError(err))
	}
	return jsonResource(req.Params.URI, sessionOutput(session))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(data),
		}},
	}, nil
}

// extractAppID extracts the application ID from a URI like
// appsec://applications/{appId}<suffix>.
func extractAppID(uri, suffix string) string {
	const prefix = uriScheme + "applications/"

	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return ""
	}

	id := strings.TrimSuffix(strings.TrimPrefix(uri, prefix), suffix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
