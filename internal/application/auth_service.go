package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-resource-api/internal/domain/entity"
	repo "github.com/oksasatya/go-user-resource-api/internal/domain/repository"
	"github.com/oksasatya/go-user-resource-api/pkg/helpers"
)

type AuthService struct {
	Repo     repo.UserRepository
	JWT      *helpers.JWTManager
	Sessions SessionStore
	Logger   *logrus.Logger
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, sessions SessionStore, logger *logrus.Logger) *AuthService {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &AuthService{Repo: users, JWT: jwt, Sessions: sessions, Logger: logger}
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			s.Logger.WithError(err).Error("lookup by email failed")
		}
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates access/refresh tokens bound to a fresh session id and records the session.
func (s *AuthService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	pair, err := s.sign(u.ID, sid)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate tokens failed")
		return TokenPair{}, err
	}
	sess := Session{UserID: u.ID, SessionID: sid, Email: u.Email, Name: u.Name, CreatedAt: time.Now().UTC()}
	if err := s.Sessions.Save(ctx, sess, s.JWT.RefreshTTL); err != nil {
		return TokenPair{}, fmt.Errorf("save session: %w", err)
	}
	return pair, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	s.Logger.WithField("user_id", u.ID).Info("user logged in")
	return u, pair, nil
}

// Refresh rotates the session id and both tokens; the presented token must carry the current sid.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrUnauthorized
	}
	if _, err := s.currentSession(ctx, claims); err != nil {
		return TokenPair{}, err
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, ErrUnauthorized
	}
	return s.IssueTokens(ctx, u)
}

// Authorize checks an access token against the stored session.
func (s *AuthService) Authorize(ctx context.Context, accessToken string) (*Session, error) {
	if accessToken == "" {
		return nil, ErrUnauthorized
	}
	claims, err := s.JWT.ParseAccessToken(accessToken)
	if err != nil {
		return nil, ErrUnauthorized
	}
	return s.currentSession(ctx, claims)
}

func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	if err := s.Sessions.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *AuthService) currentSession(ctx context.Context, claims *helpers.Claims) (*Session, error) {
	sess, err := s.Sessions.Get(ctx, claims.UserID)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			s.Logger.WithError(err).WithField("user_id", claims.UserID).Warn("session lookup failed")
		}
		return nil, ErrUnauthorized
	}
	if sess.SessionID != claims.SessionID {
		return nil, ErrUnauthorized
	}
	return sess, nil
}

func (s *AuthService) sign(userID int64, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}
