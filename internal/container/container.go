package container

import (
	"context"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-resource-api/config"
	"github.com/oksasatya/go-user-resource-api/internal/application"
	"github.com/oksasatya/go-user-resource-api/internal/domain/repository"
	"github.com/oksasatya/go-user-resource-api/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-user-resource-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-user-resource-api/internal/infrastructure/redisstore"
	"github.com/oksasatya/go-user-resource-api/internal/infrastructure/search"
	"github.com/oksasatya/go-user-resource-api/pkg/helpers"
)

// Backends are the storage-facing collaborators the services are built from.
// Index and Mail may be nil.
type Backends struct {
	Users    repository.UserRepository
	Roles    repository.RoleRepository
	Cache    application.Cache
	Sessions application.SessionStore
	Index    application.UserIndexer
	Mail     application.Publisher
}

// Container holds the constructed components shared by the router and the binaries.
// Client fields are nil when the dependency is not configured.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	PG     *pgxpool.Pool
	Redis  *redis.Client
	ES     *elasticsearch.Client
	Rabbit *helpers.RabbitPublisher

	JWT   *helpers.JWTManager
	Users *application.UserService
	Auth  *application.AuthService
}

// New builds the services on top of b.
func New(cfg *config.Config, logger *logrus.Logger, b Backends) *Container {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	jwt := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)
	opts := application.ListOptions{
		DefaultPerPage:    cfg.DefaultPerPage,
		MaxPerPage:        cfg.MaxPerPage,
		InvalidateOnWrite: cfg.ListCacheInvalidateOnWrite,
		TTL:               cfg.ListCacheTTL,
	}
	users := application.NewUserService(b.Users, b.Roles, b.Cache, b.Index, b.Mail, logger, opts, cfg.BcryptCost)
	users.Sessions = b.Sessions
	return &Container{
		Config: cfg,
		Logger: logger,
		JWT:    jwt,
		Users:  users,
		Auth:   application.NewAuthService(b.Users, jwt, b.Sessions, logger),
	}
}

// Open connects every configured dependency and wires the services.
// Postgres is required; Redis falls back to in-process stores, and
// Elasticsearch and RabbitMQ are skipped when not configured.
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	b := Backends{
		Users: pginfra.NewUserRepository(pool),
		Roles: pginfra.NewRoleRepository(pool),
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			pool.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		b.Cache = redisstore.NewCache(rdb)
		b.Sessions = redisstore.NewSessionStore(rdb)
	} else {
		logger.Warn("REDIS_ADDR empty; using in-process cache and sessions")
		b.Cache = memory.NewCache()
		b.Sessions = memory.NewSessionStore()
	}

	var es *elasticsearch.Client
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err = helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch disabled")
		} else {
			b.Index = search.NewUserIndex(es, cfg.ESUsersIndex)
		}
	}

	var pub *helpers.RabbitPublisher
	if cfg.MailSendEnabled {
		pub, err = helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; email jobs disabled")
		} else {
			b.Mail = pub
		}
	}

	c := New(cfg, logger, b)
	c.PG = pool
	c.Redis = rdb
	c.ES = es
	c.Rabbit = pub
	return c, nil
}

// Close releases the clients opened by Open.
func (c *Container) Close() {
	c.Rabbit.Close()
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.PG != nil {
		c.PG.Close()
	}
}
