package counter

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const articleViewsKey = "article:counters:views"

// ViewSink applies drained view increments to durable storage.
type ViewSink interface {
	AddViewCounts(ctx context.Context, deltas map[string]int64) error
}

// ArticleViews buffers article view counts in a Redis hash.
type ArticleViews struct {
	client *redis.Client
	sink   ViewSink
	key    string
}

func NewArticleViews(client *redis.Client, sink ViewSink) *ArticleViews {
	return &ArticleViews{client: client, sink: sink, key: articleViewsKey}
}

// Add increments the pending view counter for an article
func (v *ArticleViews) Add(ctx context.Context, articleID string) error {
	return v.client.HIncrBy(ctx, v.key, articleID, 1).Err()
}

// Flush drains the hash and hands the increments to the sink.
// RENAME to a temporary key keeps increments that arrive during the flush.
func (v *ArticleViews) Flush(ctx context.Context) error {
	tmpKey := fmt.Sprintf("%s:tmp:%d", v.key, time.Now().UnixNano())
	if err := v.client.Rename(ctx, v.key, tmpKey).Err(); err != nil {
		if isNoSuchKey(err) {
			return nil
		}
		return err
	}
	defer v.client.Del(context.Background(), tmpKey)

	data, err := v.client.HGetAll(ctx, tmpKey).Result()
	if err != nil {
		return err
	}

	deltas := make(map[string]int64, len(data))
	for id, raw := range data {
		inc, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil || inc == 0 {
			continue
		}
		deltas[id] = inc
	}
	if len(deltas) == 0 {
		return nil
	}

	if err := v.sink.AddViewCounts(ctx, deltas); err != nil {
		// Put the increments back so the next flush retries them
		pipe := v.client.Pipeline()
		for id, inc := range deltas {
			pipe.HIncrBy(context.Background(), v.key, id, inc)
		}
		if _, perr := pipe.Exec(context.Background()); perr != nil {
			return fmt.Errorf("flush failed: %w (restore failed: %v)", err, perr)
		}
		return err
	}
	return nil
}

func isNoSuchKey(err error) bool {
	return err == redis.Nil || strings.Contains(strings.ToLower(err.Error()), "no such key")
}
