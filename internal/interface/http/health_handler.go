package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-resource-api/pkg/response"
)

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

type HealthHandler struct {
	Checks map[string]Check
	Logger *logrus.Logger
}

func NewHealthHandler(checks map[string]Check, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{Checks: checks, Logger: logger}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.Checks))
	for name := range h.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.Checks[name](ctx); err != nil {
			h.Logger.WithError(err).WithField("dependency", name).Warn("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "dependency": name, "error": err.Error()})
			return
		}
	}
	response.JSON(c, http.StatusOK, gin.H{"status": "ok"})
}
