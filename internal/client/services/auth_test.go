package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/labdrive/internal/client/client"
	"github.com/dmitrijs2005/labdrive/internal/client/repositories/localstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) localstore.Repository {
	t.Helper()
	db, err := localstore.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return localstore.NewSQLiteRepository(db)
}

func TestAuthService_Login(t *testing.T) {
	api := &fakeAPI{}
	store := newStore(t)
	svc := NewAuthService(api, store)

	password := []byte("s3cret")
	require.NoError(t, svc.Login(context.Background(), "ada", password))

	require.Len(t, api.calls, 1)
	assert.Equal(t, "/accounts/login/", api.calls[0].Path)
	assert.Equal(t, loginRequest{Username: "ada", Password: "s3cret"}, api.calls[0].Body)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0}, password, "password buffer must be wiped")

	name, err := svc.LastUsername(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ada", name)
}

func TestAuthService_LoginFailureKeepsStore(t *testing.T) {
	store := newStore(t)
	svc := NewAuthService(&fakeAPI{err: client.ErrForbidden}, store)

	err := svc.Login(context.Background(), "ada", []byte("bad"))
	require.ErrorIs(t, err, client.ErrForbidden)

	name, err := svc.LastUsername(context.Background())
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestAuthService_Ping(t *testing.T) {
	require.NoError(t, NewAuthService(&fakeAPI{}, nil).Ping(context.Background()))
	require.ErrorIs(t, NewAuthService(&fakeAPI{pingErr: client.ErrUnavailable}, nil).Ping(context.Background()), client.ErrUnavailable)

	name, err := NewAuthService(&fakeAPI{}, nil).LastUsername(context.Background())
	require.NoError(t, err)
	assert.Empty(t, name)
}
