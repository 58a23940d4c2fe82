package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/mycookbook-api/pkg/helpers"
	"github.com/oksasatya/mycookbook-api/pkg/ttlcache"
)

// Session is the server side record a token pair is bound to. Rotating or
// deleting it invalidates every token issued for the previous sid.
type Session struct {
	UserID string
	Email  string
	Name   string
	SID    string
}

// SessionStore keeps at most one session per user.
type SessionStore interface {
	Save(ctx context.Context, s Session, ttl time.Duration) error
	Get(ctx context.Context, userID string) (Session, bool, error)
	Delete(ctx context.Context, userID string) error
}

func sessionKey(userID string) string {
	return helpers.RedisKey("session", userID)
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// RedisSessions stores sessions as Redis hashes under mycookbook:session:<id>.
type RedisSessions struct {
	RDB redis.Cmdable
}

func NewRedisSessions(rdb redis.Cmdable) *RedisSessions {
	return &RedisSessions{RDB: rdb}
}

func (s *RedisSessions) Save(ctx context.Context, sess Session, ttl time.Duration) error {
	key := sessionKey(sess.UserID)
	pipe := s.RDB.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    sess.UserID,
		"email":      sess.Email,
		"name":       sess.Name,
		"sid":        sess.SID,
		"logged_in":  true,
		"updated_at": nowRFC3339(),
	})
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisSessions) Get(ctx context.Context, userID string) (Session, bool, error) {
	data, err := s.RDB.HGetAll(ctx, sessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) || (err == nil && len(data) == 0) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}
	return Session{UserID: data["user_id"], Email: data["email"], Name: data["name"], SID: data["sid"]}, true, nil
}

func (s *RedisSessions) Delete(ctx context.Context, userID string) error {
	return s.RDB.Del(ctx, sessionKey(userID)).Err()
}

// MemorySessions keeps sessions in process for single-instance runs without
// Redis. Every session lives for the ttl given to NewMemorySessions.
type MemorySessions struct {
	cache *ttlcache.Cache[string, Session]
}

func NewMemorySessions(ttl time.Duration) *MemorySessions {
	return &MemorySessions{cache: ttlcache.New[string, Session](ttl)}
}

func (s *MemorySessions) Save(_ context.Context, sess Session, _ time.Duration) error {
	s.cache.Put(sess.UserID, sess)
	return nil
}

func (s *MemorySessions) Get(_ context.Context, userID string) (Session, bool, error) {
	sess, ok := s.cache.Get(userID)
	return sess, ok, nil
}

func (s *MemorySessions) Delete(_ context.Context, userID string) error {
	s.cache.Delete(userID)
	return nil
}
