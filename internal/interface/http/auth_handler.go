package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-user-resource-api/internal/application"
	"github.com/oksasatya/go-user-resource-api/internal/domain/entity"
	"github.com/oksasatya/go-user-resource-api/pkg/helpers"
	"github.com/oksasatya/go-user-resource-api/pkg/response"
	"github.com/oksasatya/go-user-resource-api/pkg/validation"
)

type AuthHandler struct {
	Svc     *userapp.AuthService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *userapp.AuthService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresAt    time.Time    `json:"expires_at"`
	User         *entity.User `json:"user,omitempty"`
}

func newTokenResponse(pair userapp.TokenPair, u *entity.User) tokenResponse {
	return tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    pair.AccessTokenExpiry,
		User:         u,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Validation(c, validation.ToFieldErrors(err))
		return
	}

	u, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, userapp.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.Logger.WithError(err).Error("login failed")
		response.Internal(c, "Login failed", err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.JSON(c, http.StatusOK, newTokenResponse(pair, u))
}

// Refresh accepts the refresh token from the JSON body or the refresh_token cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	_ = c.ShouldBindJSON(&req)
	token := req.RefreshToken
	if token == "" {
		token, _ = c.Cookie(helpers.RefreshCookie)
	}
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	pair, err := h.Svc.Refresh(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, userapp.ErrUnauthorized) {
			h.Logger.WithError(err).Warn("refresh failed")
		}
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.JSON(c, http.StatusOK, newTokenResponse(pair, nil))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	uid := c.GetInt64("userID")
	if err := h.Svc.Logout(c.Request.Context(), uid); err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("logout failed")
		response.Internal(c, "Logout failed", err)
		return
	}
	h.Cookies.Clear(c)
	response.Message(c, http.StatusOK, "Logged out")
}
