package contrast

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
)

func TestClient_Headers(t *testing.T) {
	var got http.Header
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		writeJSON(w, `{}`)
	})

	require.NoError(t, client.get(context.Background(), "/ng/org-1/ping", nil, nil))

	want := base64.StdEncoding.EncodeToString([]byte("user@example.com:service-key"))
	assert.Equal(t, want, got.Get("Authorization"))
	assert.Equal(t, "api-key", got.Get("API-Key"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Empty(t, got.Get("Content-Type"))
}

func TestClient_PostBody(t *testing.T) {
	var contentType string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		writeJSON(w, `{"ok":true}`)
	})

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, client.post(context.Background(), "/x", nil, map[string]string{"a": "b"}, &out))
	assert.True(t, out.OK)
	assert.Equal(t, "application/json", contentType)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    error
		message string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"messages":["Authorization failure"]}`, domain.ErrAuthInvalid, "Authorization failure"},
		{"forbidden", http.StatusForbidden, `{"message":"no access"}`, domain.ErrForbidden, "no access"},
		{"not found", http.StatusNotFound, ``, domain.ErrNotFound, "no response body"},
		{"bad request", http.StatusBadRequest, `bad filter`, domain.ErrInvalidInput, "bad filter"},
		{"server error", http.StatusBadGateway, `upstream`, domain.ErrPlatformUnavailable, "upstream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := client.get(context.Background(), "/ng/org-1/x", nil, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), tt.message)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
		})
	}
}

func TestClient_ErrorClassifiers(t *testing.T) {
	assert.True(t, IsNotFound(&APIError{StatusCode: 404}))
	assert.ErrorIs(t, &APIError{StatusCode: 401}, domain.ErrAuthInvalid)
	assert.ErrorIs(t, &APIError{StatusCode: 403}, domain.ErrForbidden)
	assert.ErrorIs(t, &RateLimitError{}, domain.ErrRateLimited)
	assert.False(t, IsNotFound(&APIError{StatusCode: 500}))
	assert.False(t, IsNotFound(&RateLimitError{}))
}

func TestClient_RateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(HeaderRetryAfter, "30")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	before := time.Now()
	err := client.get(context.Background(), "/ng/org-1/x", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	var rateErr *RateLimitError
	assert.ErrorAs(t, err, &rateErr)
	assert.True(t, client.rateLimiter.BlockedUntil().After(before.Add(29*time.Second)))

	// The next request waits for the block and gives up with the context.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = client.get(ctx, "/ng/org-1/x", nil, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_DecodeError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{not json`)
	})

	var out map[string]any
	err := client.get(context.Background(), "/x", nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}
