package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/labdrive/internal/client/client"
	"github.com/dmitrijs2005/labdrive/internal/client/repositories/localstore"
	"github.com/dmitrijs2005/labdrive/internal/common"
)

const (
	loginPath   = "/accounts/login/"
	usernameKey = "username"
)

// AuthService opens a backend session.
type AuthService interface {
	Login(ctx context.Context, username string, password []byte) error
	LastUsername(ctx context.Context) (string, error)
	Ping(ctx context.Context) error
}

type authService struct {
	api   client.API
	store localstore.Repository
}

// NewAuthService returns an AuthService. store keeps the last username.
func NewAuthService(api client.API, store localstore.Repository) AuthService {
	return &authService{api: api, store: store}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login posts the credentials; the backend answers with a sessionid cookie.
// The password buffer is wiped afterwards.
func (a *authService) Login(ctx context.Context, username string, password []byte) error {
	defer common.WipeByteArray(password)

	req := loginRequest{Username: username, Password: string(password)}
	if err := a.api.PostJSON(ctx, loginPath, req, nil); err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	if a.store != nil {
		if err := a.store.Set(ctx, usernameKey, []byte(username)); err != nil {
			return fmt.Errorf("save username: %w", err)
		}
	}
	return nil
}

func (a *authService) LastUsername(ctx context.Context) (string, error) {
	if a.store == nil {
		return "", nil
	}
	v, err := a.store.Get(ctx, usernameKey)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.api.Ping(ctx)
}
