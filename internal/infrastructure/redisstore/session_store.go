package redisstore

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-user-resource-api/internal/application"
	"github.com/oksasatya/go-user-resource-api/internal/domain/repository"
)

// SessionStore keeps one hash per user under user:session:<id>.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

var _ application.SessionStore = (*SessionStore)(nil)

func sessionKey(userID int64) string {
	return "user:session:" + strconv.FormatInt(userID, 10)
}

func (s *SessionStore) Save(ctx context.Context, sess application.Session, ttl time.Duration) error {
	key := sessionKey(sess.UserID)
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    sess.UserID,
		"sid":        sess.SessionID,
		"email":      sess.Email,
		"name":       sess.Name,
		"created_at": sess.CreatedAt.UTC().Format(time.RFC3339),
	})
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *SessionStore) Get(ctx context.Context, userID int64) (*application.Session, error) {
	m, err := s.rdb.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	if len(m) == 0 || m["sid"] == "" {
		return nil, repository.ErrNotFound
	}
	created, _ := time.Parse(time.RFC3339, m["created_at"])
	return &application.Session{
		UserID:    userID,
		SessionID: m["sid"],
		Email:     m["email"],
		Name:      m["name"],
		CreatedAt: created,
	}, nil
}

func (s *SessionStore) Delete(ctx context.Context, userID int64) error {
	return s.rdb.Del(ctx, sessionKey(userID)).Err()
}
