package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
)

func TestSessionService_Latest(t *testing.T) {
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	source := &mockSessionSource{session: &domain.AgentSession{
		ID:        "s1",
		AppID:     "app-1",
		StartedAt: started,
		Metadata:  []domain.MetadataItem{{Name: "commit", Value: "abc123"}},
	}}
	svc := NewSessionService(source)
	svc.SetCache(newMockCache(), testScope, testTTL)

	ctx := context.Background()
	first, err := svc.Latest(ctx, "app-1")
	require.NoError(t, err)
	second, err := svc.Latest(ctx, "app-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, second.StartedAt.Equal(started))
	assert.Equal(t, 1, source.calls, "second lookup should hit the cache")
}

func TestSessionService_Latest_NotFoundNotCached(t *testing.T) {
	source := &mockSessionSource{}
	svc := NewSessionService(source)
	cache := newMockCache()
	svc.SetCache(cache, testScope, testTTL)

	_, err := svc.Latest(context.Background(), "app-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, cache.sets)
}

func TestSessionService_Latest_Validation(t *testing.T) {
	_, err := NewSessionService(&mockSessionSource{}).Latest(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewSessionService(nil).Latest(context.Background(), "app-1")
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}
