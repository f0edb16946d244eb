package contrast

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
)

// testSettings points a client at server.
func testSettings(server *httptest.Server) domain.ConnectionSettings {
	return domain.ConnectionSettings{
		HostName:          strings.TrimPrefix(server.URL, "http://"),
		Protocol:          "http",
		APIKey:            "api-key",
		ServiceKey:        "service-key",
		Username:          "user@example.com",
		OrgID:             "org-1",
		RequestsPerSecond: 1000,
	}
}

// newTestClient starts a server running handler and returns a client for it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg, err := ParseConfig(testSettings(server))
	require.NoError(t, err)
	return NewClient(cfg)
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}
