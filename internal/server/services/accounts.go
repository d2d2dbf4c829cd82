package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/labdrive/internal/common"
	"github.com/dmitrijs2005/labdrive/internal/cryptox"
	"github.com/dmitrijs2005/labdrive/internal/dbx"
	"github.com/dmitrijs2005/labdrive/internal/server/auth"
	"github.com/dmitrijs2005/labdrive/internal/server/config"
	"github.com/dmitrijs2005/labdrive/internal/server/models"
	"github.com/dmitrijs2005/labdrive/internal/server/repositories/repomanager"
)

type AccountService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	jwtSecret       []byte
	sessionValidity time.Duration
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AccountService {
	return &AccountService{
		db:              db,
		repomanager:     m,
		jwtSecret:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionValidityDuration,
	}
}

// SessionValidity is the lifetime of issued session tokens.
func (s *AccountService) SessionValidity() time.Duration {
	return s.sessionValidity
}

// EnsureUser creates username with password unless it already exists.
// Existing accounts keep their password.
func (s *AccountService) EnsureUser(ctx context.Context, username, password string) (*models.User, error) {
	var user *models.User

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		existing, err := repo.GetUserByLogin(ctx, username)
		if err == nil {
			user = existing
			return nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error searching user: %w", err)
		}

		salt := common.GenerateRandByteArray(cryptox.SaltSize)
		key := cryptox.DeriveKey([]byte(password), salt)
		defer common.WipeByteArray(key)

		user, err = repo.Create(ctx, &models.User{
			UserName: username,
			Salt:     salt,
			Verifier: cryptox.MakeVerifier(key),
		})
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and returns a signed session token.
// Unknown users and wrong passwords both yield common.ErrorUnauthorized.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	if !cryptox.CheckPassword([]byte(password), user.Salt, user.Verifier) {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.sessionValidity)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// UserID resolves a session token.
func (s *AccountService) UserID(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}
