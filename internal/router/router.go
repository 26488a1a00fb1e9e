package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-user-resource-api/config"
	"github.com/oksasatya/go-user-resource-api/internal/container"
	"github.com/oksasatya/go-user-resource-api/internal/interface/middleware"
)

// New returns the gin engine with global middleware and every module under /api.
func New(c *container.Container) *gin.Engine {
	cfg := c.Config

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	if mw := corsMiddleware(cfg); mw != nil {
		r.Use(mw)
	}
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}

	reg := NewRegistry(r)
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}

// corsMiddleware returns nil when no origins are configured. A "*" entry allows
// every origin without credentials.
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	origins := cfg.CORSOrigins()
	if len(origins) == 0 {
		return nil
	}
	corsCfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			corsCfg.AllowAllOrigins = true
			corsCfg.AllowCredentials = false
			return cors.New(corsCfg)
		}
	}
	corsCfg.AllowOrigins = origins
	return cors.New(corsCfg)
}
