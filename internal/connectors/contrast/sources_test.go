package contrast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
	"github.com/custodia-labs/appsec-mcp/internal/core/search"
)

func TestApplicationAPI_FetchPage(t *testing.T) {
	var gotPath, gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		writeJSON(w, `{"applications":[{
			"app_id":"a1","name":"Payments","language":"Java","tags":["pci"],
			"metadataEntities":[{"fieldName":"team","fieldValue":"billing"}],
			"last_seen":1700000000000
		}],"count":1}`)
	})

	apps, err := NewApplicationAPI(client).FetchPage(context.Background(), domain.ApplicationFilter{}, 25, 50)
	require.NoError(t, err)

	assert.Equal(t, "/Contrast/api/ng/org-1/applications/filter", gotPath)
	assert.Contains(t, gotQuery, "limit=25")
	assert.Contains(t, gotQuery, "offset=50")
	require.Len(t, apps, 1)
	assert.Equal(t, "a1", apps[0].ID)
	assert.Equal(t, []domain.MetadataItem{{Name: "team", Value: "billing"}}, apps[0].Metadata)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), apps[0].LastSeen)
}

func TestApplicationAPI_ThroughSearchEngine(t *testing.T) {
	const total = 23
	var offsets []int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		offsets = append(offsets, offset)

		var apps []string
		for i := offset; i < min(offset+limit, total); i++ {
			apps = append(apps, fmt.Sprintf(`{"app_id":"a%d","name":"app-%d"}`, i, i))
		}
		writeJSON(w, `{"applications":[`+strings.Join(apps, ",")+`]}`)
	})

	engine := search.NewEngine[domain.ApplicationFilter, domain.Application](
		"applications", NewApplicationAPI(client), domain.SearchLimits{PageSize: 10})
	res := engine.FetchAll(context.Background(), domain.ApplicationFilter{})

	assert.True(t, res.Complete())
	assert.Len(t, res.Items, total)
	assert.Equal(t, []int{0, 10, 20}, offsets)
}

func TestVulnerabilityAPI_FetchPage(t *testing.T) {
	after := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		filter   domain.VulnerabilityFilter
		wantPath string
	}{
		{"organisation wide", domain.VulnerabilityFilter{}, "/Contrast/api/ng/org-1/orgtraces/filter"},
		{"one application", domain.VulnerabilityFilter{AppID: "a1"}, "/Contrast/api/ng/org-1/traces/a1/filter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotMethod string
			var gotBody traceFilterBody
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath, gotMethod = r.URL.Path, r.Method
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
				writeJSON(w, `{"traces":[{
					"uuid":"T1","title":"SQL Injection","rule_name":"sql-injection",
					"severity":"High","status":"Reported",
					"application":{"app_id":"a1","name":"Payments"},
					"server_environments":["production"],
					"session_metadata":[{"session_id":"s1","metadata":[{"display_label":"branch","value":"main"}]}]
				}]}`)
			})

			filter := tt.filter
			filter.Severities = []domain.Severity{domain.SeverityHigh}
			filter.Statuses = []domain.VulnerabilityStatus{domain.StatusReported}
			filter.LastSeenAfter = &after

			vulns, err := NewVulnerabilityAPI(client).FetchPage(context.Background(), filter, 500, 0)
			require.NoError(t, err)

			assert.Equal(t, http.MethodPost, gotMethod)
			assert.Equal(t, tt.wantPath, gotPath)
			assert.Equal(t, []string{"HIGH"}, gotBody.Severities)
			assert.Equal(t, []string{"Reported"}, gotBody.Status)
			assert.Equal(t, after.UnixMilli(), gotBody.StartDate)
			assert.Equal(t, "LAST", gotBody.TimestampFilter)

			require.Len(t, vulns, 1)
			v := vulns[0]
			assert.Equal(t, domain.SeverityHigh, v.Severity)
			assert.Equal(t, "a1", v.AppID)
			assert.Equal(t, []domain.Environment{domain.EnvironmentProduction}, v.Environments)
			require.Len(t, v.Sessions, 1)
			assert.Equal(t, "s1", v.Sessions[0].SessionID)
			assert.Equal(t, "branch", v.Sessions[0].Metadata[0].Name)
		})
	}
}

func TestVulnerabilityAPI_Get(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Contrast/api/ng/org-1/traces/a1/trace/T1":
			writeJSON(w, `{"trace":{
				"uuid":"T1","rule_name":"sql-injection","severity":"CRITICAL",
				"request":{"method":"GET","uri":"/users?id=1"},
				"recommendation":{"text":"Use prepared statements."},
				"cwe":"https://cwe.mitre.org/data/definitions/89.html"
			}}`)
		case "/Contrast/api/ng/org-1/traces/T1/story":
			writeJSON(w, `{"story":{"chapters":[{"introText":"Data flowed","body":"into a query."}],
				"risk":{"text":"Attackers can read the database."}}}`)
		default:
			http.NotFound(w, r)
		}
	})

	detail, err := NewVulnerabilityAPI(client).Get(context.Background(), "a1", "T1")
	require.NoError(t, err)

	assert.Equal(t, "T1", detail.ID)
	assert.Equal(t, "a1", detail.AppID)
	assert.Equal(t, "sql-injection", detail.RuleName)
	assert.Equal(t, "GET /users?id=1", detail.Request)
	assert.Equal(t, "Use prepared statements.", detail.Recommendation)
	assert.Equal(t, "Data flowed into a query.\n\nAttackers can read the database.", detail.Story)
}

func TestVulnerabilityAPI_Get_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := NewVulnerabilityAPI(client).Get(context.Background(), "a1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAttackAPI_FetchPage(t *testing.T) {
	var body attackFilterBody
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Contrast/api/ng/org-1/attacks", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, `{"attacks":[{"uuid":"AT1","source":"10.0.0.1","rules":["sql-injection"],
			"attacksApplication":[{"application":{"name":"Payments"}}],"probes":3}]}`)
	})

	attacks, err := NewAttackAPI(client).FetchPage(context.Background(), domain.AttackFilter{Keyword: "sql"}, 10, 0)
	require.NoError(t, err)

	assert.Equal(t, attackFilterBody{QuickFilter: "ALL", Keyword: "sql"}, body)
	require.Len(t, attacks, 1)
	assert.Equal(t, []string{"Payments"}, attacks[0].Applications)
	assert.Equal(t, 3, attacks[0].Probes)
}

func TestLibraryAPI_FetchPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Contrast/api/ng/org-1/applications/a1/libraries", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("expand"), "vulns")
		writeJSON(w, `{"libraries":[
			{"file_name":"log4j-core.jar","file_version":"2.14.1","vulns":[{"name":"CVE-2021-44228","severity_code":"CRITICAL","cvss_3_severity_value":10}]},
			{"file_name":"safe.jar"}
		]}`)
	})

	libs, err := NewLibraryAPI(client).FetchPage(context.Background(), domain.LibraryFilter{AppID: "a1"}, 50, 0)
	require.NoError(t, err)
	require.Len(t, libs, 2)
	assert.True(t, libs[0].IsVulnerable())
	assert.InDelta(t, 10.0, libs[0].Vulnerabilities[0].Score, 0.001)
	assert.False(t, libs[1].IsVulnerable())
}

func TestRouteAPI_List(t *testing.T) {
	var body routeFilterBody
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Contrast/api/ng/org-1/applications/a1/route/filter", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, `{"routes":[
			{"signature":"GET /users","status":"EXERCISED","observations":[{"verb":"GET","url":"/users"}]},
			{"signature":"POST /users","status":"discovered"}
		]}`)
	})

	routes, err := NewRouteAPI(client).List(context.Background(), domain.RouteFilter{
		AppID: "a1", SessionID: "s1", MetadataName: "branch", MetadataValue: "main",
	})
	require.NoError(t, err)

	assert.Equal(t, "s1", body.SessionID)
	assert.Equal(t, []routeMetadataFilter{{Label: "branch", Values: []string{"main"}}}, body.Metadata)
	require.Len(t, routes, 2)
	assert.Equal(t, domain.RouteExercised, routes[0].Status)
	assert.Equal(t, []string{"GET /users"}, routes[0].Observations)
	assert.Equal(t, domain.RouteDiscovered, routes[1].Status)
}

func TestSessionAPI_Latest(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/Contrast/api/ng/organizations/org-1/applications/a1/agent-sessions/latest", r.URL.Path)
			writeJSON(w, `{"agentSessionId":"s9","createdDate":1700000000000,
				"metadataSessions":[{"metadataField":{"agentLabel":"commit"},"value":"abc123"}]}`)
		})

		session, err := NewSessionAPI(client).Latest(context.Background(), "a1")
		require.NoError(t, err)
		assert.Equal(t, "s9", session.ID)
		assert.Equal(t, "a1", session.AppID)
		assert.Equal(t, []domain.MetadataItem{{Name: "commit", Value: "abc123"}}, session.Metadata)
	})

	t.Run("empty body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		_, err := NewSessionAPI(client).Latest(context.Background(), "a1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})

		_, err := NewSessionAPI(client).Latest(context.Background(), "a1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestScanAPIs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/Contrast/api/sast/organizations/org-1/projects":
			assert.Equal(t, "payments", q.Get("name"))
			assert.Equal(t, "2", q.Get("page"))
			assert.Equal(t, "100", q.Get("size"))
			writeJSON(w, `{"content":[{"id":"p1","name":"payments","lastScanId":"s1",
				"lastScanTime":"2026-02-01T10:00:00Z","critical":2}]}`)
		case "/Contrast/api/sast/organizations/org-1/projects/p1/scans/s1/result-instances":
			assert.Equal(t, "0", q.Get("page"))
			writeJSON(w, `{"content":[{"id":"r1","ruleId":"java-sqli","severity":"critical",
				"message":{"text":"Tainted query"},"location":{"artifactUri":"src/Db.java","startLine":42}}]}`)
		default:
			http.NotFound(w, r)
		}
	})

	projects, err := NewScanProjectAPI(client).FetchPage(context.Background(),
		domain.ScanProjectFilter{Name: "payments"}, 100, 200)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "s1", projects[0].LastScanID)
	assert.Equal(t, 2, projects[0].Critical)
	assert.Equal(t, 2026, projects[0].LastScanTime.Year())

	findings, err := NewScanResultAPI(client).FetchPage(context.Background(),
		domain.ScanFindingFilter{ProjectID: "p1", ScanID: "s1"}, 100, 0)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, domain.SeverityCritical, findings[0].Severity)
	assert.Equal(t, "src/Db.java", findings[0].File)
	assert.Equal(t, 42, findings[0].Line)
}
