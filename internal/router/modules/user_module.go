package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-user-resource-api/internal/interface/http"
)

// UserModule registers the user resource.
// Public: GET /users, GET /users/search, GET /users/:id
// Protected: POST /users, PUT /users/:id, DELETE /users/:id
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    gin.HandlerFunc
}

func NewUserModule(h *handlers.UserHandler, auth gin.HandlerFunc) *UserModule {
	return &UserModule{Handler: h, Auth: auth}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.GET("/users", m.Handler.List)
	rg.GET("/users/search", m.Handler.Search)
	rg.GET("/users/:id", m.Handler.Get)

	auth := rg.Group("/users")
	auth.Use(m.Auth)
	{
		auth.POST("", m.Handler.Create)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
