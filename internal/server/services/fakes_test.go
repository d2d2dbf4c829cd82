package services

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/labdrive/internal/common"
	"github.com/dmitrijs2005/labdrive/internal/dbx"
	"github.com/dmitrijs2005/labdrive/internal/server/models"
	"github.com/dmitrijs2005/labdrive/internal/server/objectstore"
	"github.com/dmitrijs2005/labdrive/internal/server/repositories/comments"
	"github.com/dmitrijs2005/labdrive/internal/server/repositories/signatures"
	"github.com/dmitrijs2005/labdrive/internal/server/repositories/users"
)

type fakeUsers struct {
	mu      sync.Mutex
	byName  map[string]*models.User
	getErr  error
	created int
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byName: map[string]*models.User{}} }

func (f *fakeUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
	u.ID = "u-" + u.UserName
	f.byName[u.UserName] = u
	return u, nil
}

func (f *fakeUsers) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type fakeComments struct {
	rows    map[string]*models.RunComment
	saveErr error
	getErr  error
}

func (f *fakeComments) Get(ctx context.Context, project, run string) (*models.RunComment, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.rows[project+"/"+run]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return c, nil
}

func (f *fakeComments) Save(ctx context.Context, c *models.RunComment) (*models.RunComment, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	if f.rows == nil {
		f.rows = map[string]*models.RunComment{}
	}
	f.rows[c.Project+"/"+c.Run] = c
	return c, nil
}

type fakeSignatures struct {
	created   []*models.Signature
	createErr error
	purged    time.Time
}

func (f *fakeSignatures) Create(ctx context.Context, s *models.Signature) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, s)
	return nil
}

func (f *fakeSignatures) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	f.purged = before
	return int64(len(f.created)), nil
}

type fakeRepoManager struct {
	users      *fakeUsers
	comments   *fakeComments
	signatures *fakeSignatures
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{users: newFakeUsers(), comments: &fakeComments{}, signatures: &fakeSignatures{}}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return m.users }
func (m *fakeRepoManager) Comments(dbx.DBTX) comments.Repository        { return m.comments }
func (m *fakeRepoManager) Signatures(dbx.DBTX) signatures.Repository    { return m.signatures }

type fakeStore struct {
	objects   []objectstore.Object
	listed    string
	deleted   string
	deleteErr error
	presigned []string
	expiry    time.Time
}

func (f *fakeStore) PresignPut(ctx context.Context, key string) (string, time.Time, error) {
	f.presigned = append(f.presigned, "PUT "+key)
	return "http://minio/" + key + "?put", f.expiry, nil
}

func (f *fakeStore) PresignGet(ctx context.Context, key string) (string, time.Time, error) {
	f.presigned = append(f.presigned, "GET "+key)
	return "http://minio/" + key + "?get", f.expiry, nil
}

func (f *fakeStore) List(ctx context.Context, prefix string) ([]objectstore.Object, error) {
	f.listed = prefix
	return f.objects, nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.deleted = key
	return f.deleteErr
}
