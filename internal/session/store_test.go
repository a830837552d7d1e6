// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openBadger(t *testing.T) Store {
	t.Helper()
	s, err := OpenBadgerStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func openRedis(t *testing.T) Store {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"badger": openBadger(t),
		"redis":  openRedis(t),
	}
}

func TestSessionRoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.GetSession(ctx)
			assert.ErrorIs(t, err, ErrNotFound)

			want := Session{Token: "mock-abc", UserID: "user-1"}
			require.NoError(t, store.PutSession(ctx, want))

			got, err := store.GetSession(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			require.NoError(t, store.DeleteSession(ctx))
			_, err = store.GetSession(ctx)
			assert.ErrorIs(t, err, ErrNotFound)

			// Deleting twice stays quiet.
			assert.NoError(t, store.DeleteSession(ctx))
		})
	}
}

func TestJobMetaRoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.GetJobMeta(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			meta := NewJobMeta("abc123", "hi", true, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
			require.NoError(t, store.PutJobMeta(ctx, meta))

			got, err := store.GetJobMeta(ctx, "abc123")
			require.NoError(t, err)
			assert.Equal(t, meta.TargetLanguage, got.TargetLanguage)
			assert.Equal(t, "94%", got.VoiceMatch)
			assert.Equal(t, "en", got.SourceLanguage)
		})
	}
}

func TestNewJobMetaVoiceMatch(t *testing.T) {
	now := time.Now()
	withSample := NewJobMeta("j1", "fr", true, now)
	withoutSample := NewJobMeta("j2", "fr", false, now)

	assert.Equal(t, "94%", withSample.VoiceMatch)
	assert.Equal(t, "89%", withoutSample.VoiceMatch)
}

func TestJobMetaSingleWriterLastWriteWins(t *testing.T) {
	store := openBadger(t)
	ctx := context.Background()

	first := NewJobMeta("abc123", "hi", false, time.Now())
	second := NewJobMeta("abc123", "ta", true, time.Now())
	require.NoError(t, store.PutJobMeta(ctx, first))
	require.NoError(t, store.PutJobMeta(ctx, second))

	got, err := store.GetJobMeta(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "ta", got.TargetLanguage)
}
