package repository

import (
	"context"
	"testing"
	"time"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSessionRepository(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	repo := NewRedisSessionRepository(client, time.Hour)
	ctx := context.Background()

	t.Run("SetAndGetSession", func(t *testing.T) {
		session := &models.Session{
			ID:     "abc-123",
			Prompt: "You are a scheduling assistant.",
		}
		session.Append(models.RoleUser, "hello")

		err := repo.SetSession(ctx, session)
		require.NoError(t, err)

		got, err := repo.GetSession(ctx, "abc-123")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, session.ID, got.ID)
		assert.Equal(t, session.Prompt, got.Prompt)
		require.Len(t, got.History, 1)
		assert.Equal(t, "hello", got.History[0].Content)
	})

	t.Run("GetNonExistentSession", func(t *testing.T) {
		got, err := repo.GetSession(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ClearSession", func(t *testing.T) {
		repo.SetSession(ctx, &models.Session{ID: "gone"})

		err := repo.ClearSession(ctx, "gone")
		require.NoError(t, err)

		got, _ := repo.GetSession(ctx, "gone")
		assert.Nil(t, got)
	})

	t.Run("RateLimit", func(t *testing.T) {
		id := "caller-1"
		limit := 2
		window := time.Second

		allowed, err := repo.CheckRateLimit(ctx, id, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = repo.CheckRateLimit(ctx, id, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = repo.CheckRateLimit(ctx, id, limit, window)
		require.NoError(t, err)
		assert.False(t, allowed)

		s.FastForward(window + time.Millisecond)

		allowed, err = repo.CheckRateLimit(ctx, id, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("Snapshot", func(t *testing.T) {
		got, err := repo.GetSnapshot(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)

		require.NoError(t, repo.SetSnapshot(ctx, "2026-09-01 09:00-09:30"))

		got, err = repo.GetSnapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, "2026-09-01 09:00-09:30", got)
	})

	t.Run("NilClient", func(t *testing.T) {
		repo := NewRedisSessionRepository(nil, time.Hour)
		_, err := repo.GetSession(ctx, "x")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "redis client is nil")
	})

	t.Run("Ping", func(t *testing.T) {
		err := Ping(ctx, client)
		assert.NoError(t, err)
	})

	t.Run("Close", func(t *testing.T) {
		err := Close(client)
		assert.NoError(t, err)
	})
}
