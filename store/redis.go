// Package store provides TranscriptStore backends for durable
// conversations: Redis for shared deployments, MySQL for relational setups.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	roleplaysdk "github.com/convoforge/roleplay-sdk-go"
)

// RedisTranscriptStore implements roleplaysdk.TranscriptStore on Redis.
// Each conversation is a list at "{prefix}:{conversationID}" whose items
// are JSON-encoded transcript entries.
type RedisTranscriptStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	ctx    context.Context
}

// RedisStoreConfig configures the Redis store.
type RedisStoreConfig struct {
	Prefix string        // key prefix, default "transcript"
	TTL    time.Duration // conversation expiry, refreshed on append, 0 = no expiry
}

// NewRedisTranscriptStore creates a TranscriptStore backed by Redis.
// Works with Client, ClusterClient, and Ring.
func NewRedisTranscriptStore(client redis.UniversalClient, config ...RedisStoreConfig) *RedisTranscriptStore {
	cfg := RedisStoreConfig{Prefix: "transcript"}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "transcript"
	}
	return &RedisTranscriptStore{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
		ctx:    context.Background(),
	}
}

func (r *RedisTranscriptStore) key(conversationID string) string {
	return fmt.Sprintf("%s:%s", r.prefix, conversationID)
}

func (r *RedisTranscriptStore) Append(conversationID string, entry roleplaysdk.TranscriptEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}

	k := r.key(conversationID)
	if err := r.client.RPush(r.ctx, k, data).Err(); err != nil {
		return err
	}
	if r.ttl > 0 {
		r.client.Expire(r.ctx, k, r.ttl)
	}
	return nil
}

func (r *RedisTranscriptStore) History(conversationID string, limit, offset int) ([]roleplaysdk.TranscriptEntry, error) {
	start := int64(offset)
	var stop int64
	if limit > 0 {
		stop = start + int64(limit) - 1
	} else {
		stop = -1
	}

	items, err := r.client.LRange(r.ctx, r.key(conversationID), start, stop).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []roleplaysdk.TranscriptEntry{}, nil
		}
		return nil, err
	}

	entries := make([]roleplaysdk.TranscriptEntry, 0, len(items))
	for _, item := range items {
		var entry roleplaysdk.TranscriptEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("decode entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *RedisTranscriptStore) Length(conversationID string) (int, error) {
	n, err := r.client.LLen(r.ctx, r.key(conversationID)).Result()
	return int(n), err
}

func (r *RedisTranscriptStore) Clear(conversationID string) error {
	return r.client.Del(r.ctx, r.key(conversationID)).Err()
}

func (r *RedisTranscriptStore) Close() error {
	return r.client.Close()
}

// Compile-time interface check.
var _ roleplaysdk.TranscriptStore = (*RedisTranscriptStore)(nil)
