package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/soyeahso/moodai/internal/agent"
	"github.com/soyeahso/moodai/internal/domain"
)

var (
	_ agent.History      = (*RedisHistory)(nil)
	_ agent.ChatRecorder = (*ChatStore)(nil)
)

// RedisHistory keeps conversation windows in Redis lists, one per identity.
type RedisHistory struct {
	client *redis.Client
	max    int
	prefix string
}

// NewRedisHistory connects to redisURL and returns a History capped at limit
// messages per identity.
func NewRedisHistory(ctx context.Context, redisURL string, limit int) (*RedisHistory, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &RedisHistory{
		client: client,
		max:    agent.NormalizeMaxHistory(limit),
		prefix: "moodai:history:",
	}, nil
}

// Close closes the Redis connection.
func (h *RedisHistory) Close() error {
	return h.client.Close()
}

// Max returns the window cap in messages.
func (h *RedisHistory) Max() int { return h.max }

func (h *RedisHistory) key(id domain.Identity) string {
	return h.prefix + string(id)
}

// Append pushes both messages and trims the list in one transaction. The cap
// is even, so trimming always drops whole exchanges.
func (h *RedisHistory) Append(ctx context.Context, id domain.Identity, user, assistant domain.Message) error {
	if id.IsAnonymous() {
		return nil
	}

	u, err := json.Marshal(user)
	if err != nil {
		return err
	}
	a, err := json.Marshal(assistant)
	if err != nil {
		return err
	}

	key := h.key(id)
	_, err = h.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, u, a)
		pipe.LTrim(ctx, key, int64(-h.max), -1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("appending history for %s: %w", id, err)
	}
	return nil
}

// Recent returns up to n of the newest messages, oldest first.
func (h *RedisHistory) Recent(ctx context.Context, id domain.Identity, n int) ([]domain.Message, error) {
	if id.IsAnonymous() || n <= 0 {
		return nil, nil
	}

	raw, err := h.client.LRange(ctx, h.key(id), int64(-n), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading history for %s: %w", id, err)
	}

	msgs := make([]domain.Message, 0, len(raw))
	for _, item := range raw {
		var m domain.Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("decoding history for %s: %w", id, err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// Clear deletes the identity's window.
func (h *RedisHistory) Clear(ctx context.Context, id domain.Identity) error {
	if id.IsAnonymous() {
		return nil
	}
	return h.client.Del(ctx, h.key(id)).Err()
}

// Len returns the number of messages held for the identity.
func (h *RedisHistory) Len(ctx context.Context, id domain.Identity) (int, error) {
	if id.IsAnonymous() {
		return 0, nil
	}
	n, err := h.client.LLen(ctx, h.key(id)).Result()
	return int(n), err
}
