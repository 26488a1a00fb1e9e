package router

import (
	"context"

	"github.com/oksasatya/go-user-resource-api/internal/container"
	handlers "github.com/oksasatya/go-user-resource-api/internal/interface/http"
	"github.com/oksasatya/go-user-resource-api/internal/interface/middleware"
	"github.com/oksasatya/go-user-resource-api/internal/router/modules"
)

// InitModules builds the handlers from c and registers every module.
func InitModules(r *Registry, c *container.Container) {
	auth := middleware.Auth(c.Auth)
	cfg := c.Config

	users := handlers.NewUserHandler(c.Users, c.Logger)
	r.Add(modules.NewUserModule(users, auth))

	authHandler := handlers.NewAuthHandler(c.Auth, c.Logger, cfg.CookieDomain, cfg.CookieSecure)
	r.Add(modules.NewAuthModule(authHandler, auth, c.Redis))

	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(healthChecks(c), c.Logger)))

	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(c.Redis))
	}
}

func healthChecks(c *container.Container) map[string]handlers.Check {
	checks := map[string]handlers.Check{}
	if c.PG != nil {
		checks["postgres"] = c.PG.Ping
	}
	if c.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return c.Redis.Ping(ctx).Err() }
	}
	return checks
}
