package session

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each session under session:<id> with a TTL matching its
// expiry and indexes ids per user in session:user:<uid>.
type RedisStore struct {
	client redis.UniversalClient
	now    func() time.Time
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func sessionKey(id string) string { return "session:" + id }
func userKey(userID int64) string { return "session:user:" + strconv.FormatInt(userID, 10) }

func (r *RedisStore) put(ctx context.Context, s *Session) error {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return r.Delete(ctx, s.ID)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKey(s.ID), data, ttl)
	if s.UserID > 0 {
		pipe.SAdd(ctx, userKey(s.UserID), s.ID)
		pipe.Expire(ctx, userKey(s.UserID), RememberLifetime)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisStore) Create(ctx context.Context, s *Session) error { return r.put(ctx, s) }

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s.Expired(r.now()) {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *RedisStore) Update(ctx context.Context, s *Session) error {
	n, err := r.client.Exists(ctx, sessionKey(s.ID)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return r.put(ctx, s)
}

// Delete removes the session and drops its id from the owner's index.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return r.client.Del(ctx, sessionKey(id)).Err()
	}
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKey(id))
	if s.UserID > 0 {
		pipe.SRem(ctx, userKey(s.UserID), id)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisStore) DeleteByUserID(ctx context.Context, userID int64) error {
	ids, err := r.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, userKey(userID))
	return r.client.Del(ctx, keys...).Err()
}

// PurgeExpired is a no-op; Redis expires session keys itself.
func (r *RedisStore) PurgeExpired(context.Context) (int, error) { return 0, nil }

var _ Store = (*RedisStore)(nil)
