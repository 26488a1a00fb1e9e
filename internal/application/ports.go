package application

import (
	"context"
	"time"

	"github.com/oksasatya/go-user-resource-api/internal/domain/entity"
)

// Cache is the key-value store memoizing list results.
type Cache interface {
	// Get returns ok=false on a miss.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Remove(ctx context.Context, keys ...string) error
	// Incr atomically increments an integer key, creating it at 1.
	Incr(ctx context.Context, key string) (int64, error)
}

// SessionStore keeps the active session id per user.
type SessionStore interface {
	Save(ctx context.Context, s Session, ttl time.Duration) error
	// Get returns repository.ErrNotFound when the user has no session.
	Get(ctx context.Context, userID int64) (*Session, error)
	Delete(ctx context.Context, userID int64) error
}

// Session is what a token's sid is checked against.
type Session struct {
	UserID    int64
	SessionID string
	Email     string
	Name      string
	CreatedAt time.Time
}

// UserIndexer mirrors users into a search index.
type UserIndexer interface {
	Index(ctx context.Context, u *entity.User) error
	Remove(ctx context.Context, id int64) error
	Search(ctx context.Context, q string, size int) ([]map[string]any, error)
}

// Publisher enqueues JSON messages for background workers.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}
