package counter

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/env"
)

type recordingSink struct {
	calls []map[string]int64
	err   error
}

func (s *recordingSink) AddViewCounts(_ context.Context, deltas map[string]int64) error {
	s.calls = append(s.calls, deltas)
	return s.err
}

func newTestViews(t *testing.T, sink ViewSink) *ArticleViews {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", env.GetEnv("CACHE_HOST", "localhost"), env.GetEnv("CACHE_PORT", "6379")),
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		DB:       13,
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Skipping Redis-dependent test: %v", err)
	}

	v := NewArticleViews(client, sink)
	v.key = fmt.Sprintf("test:%s:%d", articleViewsKey, time.Now().UnixNano())
	t.Cleanup(func() {
		client.Del(context.Background(), v.key)
		_ = client.Close()
	})
	return v
}

func TestArticleViews_Flush(t *testing.T) {
	sink := &recordingSink{}
	v := newTestViews(t, sink)
	ctx := context.Background()

	require.NoError(t, v.Flush(ctx))
	assert.Empty(t, sink.calls)

	require.NoError(t, v.Add(ctx, "a"))
	require.NoError(t, v.Add(ctx, "a"))
	require.NoError(t, v.Add(ctx, "b"))

	require.NoError(t, v.Flush(ctx))
	require.Len(t, sink.calls, 1)
	assert.Equal(t, map[string]int64{"a": 2, "b": 1}, sink.calls[0])

	require.NoError(t, v.Flush(ctx))
	assert.Len(t, sink.calls, 1)
}

func TestArticleViews_FlushRestoresOnSinkError(t *testing.T) {
	sink := &recordingSink{err: errors.New("db down")}
	v := newTestViews(t, sink)
	ctx := context.Background()

	require.NoError(t, v.Add(ctx, "a"))
	assert.Error(t, v.Flush(ctx))

	sink.err = nil
	require.NoError(t, v.Flush(ctx))
	require.Len(t, sink.calls, 2)
	assert.Equal(t, map[string]int64{"a": 1}, sink.calls[1])
}
