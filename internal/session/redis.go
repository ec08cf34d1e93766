package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/santoshk66/maizic-chatbot/internal/models"
)

const redisKeyPrefix = "maizic:session:"

// RedisStore persists sessions as JSON under a TTL so the relay can be
// restarted (or scaled past one process) without dropping conversations.
// Eviction is delegated to key expiry: the TTL is refreshed on every write,
// so Sweep has nothing to do here.
type RedisStore struct {
	client       *redis.Client
	systemPrompt string
	ttl          time.Duration
}

func NewRedisStore(client *redis.Client, systemPrompt string, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTimeout
	}
	return &RedisStore{
		client:       client,
		systemPrompt: systemPrompt,
		ttl:          ttl,
	}
}

func (s *RedisStore) GetOrCreate(ctx context.Context, id string) (*models.Session, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err == nil {
		var sess models.Session
		if err := json.Unmarshal(data, &sess); err != nil {
			return nil, fmt.Errorf("decode session %q: %w", id, err)
		}
		return &sess, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get session %q: %w", id, err)
	}

	sess := &models.Session{
		ID:         id,
		Turns:      []models.Turn{{Role: models.RoleSystem, Content: s.systemPrompt}},
		LastActive: time.Now(),
	}
	if err := s.put(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *RedisStore) AppendAndTrim(ctx context.Context, id string, turns ...models.Turn) error {
	sess, err := s.GetOrCreate(ctx, id)
	if err != nil {
		return err
	}

	sess.Turns = trim(append(sess.Turns, turns...))
	sess.LastActive = time.Now()
	return s.put(ctx, sess)
}

func (s *RedisStore) Clear(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("clear session %q: %w", id, err)
	}
	return nil
}

// Sweep is a no-op: expiry is handled by the key TTL.
func (s *RedisStore) Sweep(ctx context.Context, now time.Time) error {
	return nil
}

func (s *RedisStore) Count(ctx context.Context) (int, error) {
	var cursor uint64
	count := 0
	for {
		keys, next, err := s.client.Scan(ctx, cursor, redisKeyPrefix+"*", 100).Result()
		if err != nil {
			return 0, fmt.Errorf("scan sessions: %w", err)
		}
		count += len(keys)
		if next == 0 {
			return count, nil
		}
		cursor = next
	}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) put(ctx context.Context, sess *models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %q: %w", sess.ID, err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+sess.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("put session %q: %w", sess.ID, err)
	}
	return nil
}
