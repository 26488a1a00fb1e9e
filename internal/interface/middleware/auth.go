package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-user-resource-api/internal/application"
	"github.com/oksasatya/go-user-resource-api/pkg/helpers"
	"github.com/oksasatya/go-user-resource-api/pkg/response"
)

// CtxUserIDKey holds the authenticated user id (int64).
const CtxUserIDKey = "userID"

// Auth requires a valid access token, taken from the Authorization bearer
// header or the access_token cookie, whose session is still current.
// It sets userID, userName and userEmail in the Gin context on success.
func Auth(auth *application.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := auth.Authorize(c.Request.Context(), accessToken(c))
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		c.Set(CtxUserIDKey, sess.UserID)
		c.Set("userName", sess.Name)
		c.Set("userEmail", sess.Email)
		c.Next()
	}
}

func accessToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	token, _ := c.Cookie(helpers.AccessCookie)
	return token
}
