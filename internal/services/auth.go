package services

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"movierealm/internal/api"
	"movierealm/internal/models"
)

// Auth wraps the authentication endpoints. Login and register are marked
// as the auth surface so a 401 from them reads as bad credentials, never
// as an expired session.
type Auth struct {
	api    *api.Client
	logger *logrus.Logger
}

func NewAuth(client *api.Client, logger *logrus.Logger) *Auth {
	return &Auth{api: client, logger: logger}
}

func (s *Auth) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var res models.LoginResponse
	err := s.api.Do(ctx, api.Request{
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Body:        models.LoginRequest{Email: email, Password: password},
		Out:         &res,
		AuthSurface: true,
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *Auth) Register(ctx context.Context, username, email, password string) error {
	return s.api.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Body: models.RegisterRequest{
			Username: username,
			Email:    email,
			Password: password,
			Role:     models.RoleUser,
		},
		AuthSurface: true,
	})
}

func (s *Auth) Logout(ctx context.Context) error {
	return s.api.Post(ctx, "/auth/logout", nil, nil)
}

// ValidateToken asks the server whether the current token still stands and
// returns the claims bound to it.
func (s *Auth) ValidateToken(ctx context.Context) (*models.TokenClaims, error) {
	var claims models.TokenClaims
	if err := s.api.Post(ctx, "/auth/validate_token", nil, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}
