package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/labdrive/internal/common"
	"github.com/dmitrijs2005/labdrive/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountService(t *testing.T, rm *fakeRepoManager) (*AccountService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAccountService(db, rm, &config.Config{SecretKey: "k", SessionValidityDuration: time.Hour}), mock
}

func TestAccountService_EnsureUserThenLogin(t *testing.T) {
	rm := newFakeRepoManager()
	s, mock := newAccountService(t, rm)
	ctx := context.Background()
	mock.ExpectBegin()
	mock.ExpectCommit()

	u, err := s.EnsureUser(ctx, "dev", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u-dev", u.ID)
	assert.Len(t, u.Salt, 32)
	assert.Len(t, u.Verifier, 32)

	token, err := s.Login(ctx, "dev", "secret")
	require.NoError(t, err)

	id, err := s.UserID(token)
	require.NoError(t, err)
	assert.Equal(t, "u-dev", id)
	assert.Equal(t, time.Hour, s.SessionValidity())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountService_EnsureUserKeepsExisting(t *testing.T) {
	rm := newFakeRepoManager()
	s, mock := newAccountService(t, rm)
	ctx := context.Background()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := s.EnsureUser(ctx, "dev", "first")
	require.NoError(t, err)
	_, err = s.EnsureUser(ctx, "dev", "second")
	require.NoError(t, err)

	assert.Equal(t, 1, rm.users.created)
	_, err = s.Login(ctx, "dev", "first")
	assert.NoError(t, err)
	_, err = s.Login(ctx, "dev", "second")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestAccountService_EnsureUserLookupError(t *testing.T) {
	rm := newFakeRepoManager()
	rm.users.getErr = errors.New("db down")
	s, mock := newAccountService(t, rm)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := s.EnsureUser(context.Background(), "dev", "pw")
	assert.ErrorContains(t, err, "db down")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountService_EnsureUserBeginError(t *testing.T) {
	rm := newFakeRepoManager()
	s, mock := newAccountService(t, rm)
	mock.ExpectBegin().WillReturnError(errors.New("no conn"))

	_, err := s.EnsureUser(context.Background(), "dev", "pw")
	assert.ErrorContains(t, err, "begin tx")
	assert.Zero(t, rm.users.created)
}

func TestAccountService_LoginFailures(t *testing.T) {
	rm := newFakeRepoManager()
	s, mock := newAccountService(t, rm)
	ctx := context.Background()
	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := s.Login(ctx, "ghost", "pw")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.EnsureUser(ctx, "dev", "pw")
	require.NoError(t, err)
	_, err = s.Login(ctx, "dev", "wrong")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	rm.users.getErr = errors.New("db down")
	_, err = s.Login(ctx, "dev", "pw")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestAccountService_UserIDRejectsGarbage(t *testing.T) {
	s, _ := newAccountService(t, newFakeRepoManager())
	_, err := s.UserID("garbage")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
