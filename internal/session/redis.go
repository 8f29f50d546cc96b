// ABOUTME: Redis-backed session store for hosts sharing state across processes
// ABOUTME: Keys are namespaced as "{prefix}:state:{id}"

package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mailru/easyjson"
	"github.com/redis/go-redis/v9"

	"github.com/mauromedda/pi-mood-go/internal/emotion"
)

const defaultRedisPrefix = "pimood"

// RedisStore implements Store on a Redis server.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// OpenRedis connects to the redis:// URL. An empty prefix selects "pimood".
func OpenRedis(url, prefix string) (*RedisStore, error) {
	if url == "" {
		url = "redis://localhost:6379/0"
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	return NewRedisStore(redis.NewClient(opts), prefix), nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(id string) string {
	return fmt.Sprintf("%s:state:%s", r.prefix, id)
}

// Save stores the snapshot without expiry.
func (r *RedisStore) Save(ctx context.Context, id string, s emotion.Snapshot) error {
	data, err := easyjson.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling state %s: %w", id, err)
	}
	if err := r.client.Set(ctx, r.key(id), data, 0).Err(); err != nil {
		return fmt.Errorf("saving state %s: %w", id, err)
	}
	return nil
}

// Load returns the snapshot saved for id.
func (r *RedisStore) Load(ctx context.Context, id string) (emotion.Snapshot, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return emotion.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return emotion.Snapshot{}, fmt.Errorf("loading state %s: %w", id, err)
	}
	var s emotion.Snapshot
	if err := easyjson.Unmarshal(data, &s); err != nil {
		return emotion.Snapshot{}, fmt.Errorf("parsing state %s: %w", id, err)
	}
	return s, nil
}

// Delete removes the state of id.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("deleting state %s: %w", id, err)
	}
	return nil
}

// List scans for saved session IDs, sorted.
func (r *RedisStore) List(ctx context.Context) ([]string, error) {
	prefix := r.key("")
	var ids []string
	iter := r.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	slices.Sort(ids)
	return ids, nil
}

// Close closes the client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
