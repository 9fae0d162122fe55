package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound marks a session id with no live record behind it.
var ErrNotFound = errors.New("session not found")

const (
	sessionKeyPrefix = "session:"
	userKeyPrefix    = "session:user:"
)

// Record is the server-side refresh-token record bound to one session id.
// At most one live record exists per user; a new sign-in overwrites the
// previous one, so concurrent sign-ins from two devices evict each other.
type Record struct {
	UserID       uint      `json:"user_id"`
	RefreshToken string    `json:"refresh_token"`
	IP           string    `json:"ip"`
	UserAgent    string    `json:"user_agent"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store keeps refresh-token records out of client reach. The session cookie
// only carries an opaque id; the signed token itself lives server-side.
type Store interface {
	Save(ctx context.Context, sessionID string, record Record) error
	Get(ctx context.Context, sessionID string) (*Record, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteByUserID(ctx context.Context, userID uint) error
}

// RedisStore 基于 Redis 保存会话与刷新令牌。
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore 构造 RedisStore。
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Save upserts the record for record.UserID under sessionID. Any previous
// session of the same user is removed first to keep the one-record-per-user
// invariant.
func (s *RedisStore) Save(ctx context.Context, sessionID string, record Record) error {
	ttl := time.Until(record.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session record already expired")
	}

	if err := s.DeleteByUserID(ctx, record.UserID); err != nil {
		return err
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+sessionID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("store session record: %w", err)
	}
	if err := s.client.Set(ctx, userKey(record.UserID), sessionID, ttl).Err(); err != nil {
		return fmt.Errorf("store session index: %w", err)
	}
	return nil
}

// Get 读取会话记录；不存在时返回 ErrNotFound。
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*Record, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session record: %w", err)
	}

	var record Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("unmarshal session record: %w", err)
	}
	return &record, nil
}

// Delete 删除指定会话（幂等）。
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	record, err := s.Get(ctx, sessionID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	keys := []string{sessionKeyPrefix + sessionID, userKey(record.UserID)}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteByUserID 删除某个用户的当前会话（幂等）。
func (s *RedisStore) DeleteByUserID(ctx context.Context, userID uint) error {
	sessionID, err := s.client.Get(ctx, userKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session index: %w", err)
	}

	keys := []string{sessionKeyPrefix + sessionID, userKey(userID)}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete session by user: %w", err)
	}
	return nil
}

func userKey(userID uint) string {
	return fmt.Sprintf("%s%d", userKeyPrefix, userID)
}
