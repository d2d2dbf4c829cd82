package httpapi

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/labdrive/internal/common"
	"github.com/dmitrijs2005/labdrive/internal/server/models"
)

type fakeAccounts struct{}

func (fakeAccounts) Login(ctx context.Context, username, password string) (string, error) {
	if password != "pw" {
		return "", common.ErrorUnauthorized
	}
	return "tok-" + username, nil
}

func (fakeAccounts) UserID(token string) (string, error) {
	switch {
	case token == "expired":
		return "", common.ErrTokenExpired
	case strings.HasPrefix(token, "tok-"):
		return "u-" + strings.TrimPrefix(token, "tok-"), nil
	}
	return "", common.ErrInvalidToken
}

func (fakeAccounts) SessionValidity() time.Duration { return time.Hour }

type call struct {
	op   string
	user string
	args []string
}

type fakeFiles struct {
	mu      sync.Mutex
	calls   []call
	err     error
	records []models.FileRecord
}

func (f *fakeFiles) record(op, user string, args ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{op: op, user: user, args: args})
	return f.err
}

func (f *fakeFiles) last() call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

var testExpiry = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func (f *fakeFiles) PresignRun(ctx context.Context, userID string, req models.SignatureRequest) (*models.PresignedURL, error) {
	if err := f.record("presign-run", userID, req.Project, req.Run, req.Kind, req.Name, req.Mode); err != nil {
		return nil, err
	}
	return &models.PresignedURL{URL: "http://minio/" + req.Name + "?sig", Expiry: testExpiry}, nil
}

func (f *fakeFiles) PresignDocument(ctx context.Context, userID, project string, req models.SignatureRequest) (*models.PresignedURL, error) {
	if err := f.record("presign-doc", userID, project, req.Name, req.Mode); err != nil {
		return nil, err
	}
	return &models.PresignedURL{URL: "http://minio/doc/" + req.Name, Expiry: testExpiry}, nil
}

func (f *fakeFiles) ListRun(ctx context.Context, project, run, kind string) ([]models.FileRecord, error) {
	if err := f.record("list-run", "", project, run, kind); err != nil {
		return nil, err
	}
	return f.records, nil
}

func (f *fakeFiles) ListDocuments(ctx context.Context, project string) ([]models.FileRecord, error) {
	if err := f.record("list-docs", "", project); err != nil {
		return nil, err
	}
	return f.records, nil
}

func (f *fakeFiles) DeleteRunFile(ctx context.Context, project, run, kind, name string) error {
	return f.record("delete-run", "", project, run, kind, name)
}

func (f *fakeFiles) DeleteDocument(ctx context.Context, project, name string) error {
	return f.record("delete-doc", "", project, name)
}

type fakeImages struct{}

func (fakeImages) Issue(project string) (*models.ImageStorage, error) {
	if project == "bad" {
		return nil, common.ErrorInvalidPath
	}
	return &models.ImageStorage{BaseURL: "http://minio/labdrive/projects/" + project + "/images", Token: "sp=r&se=2026-06-01T12:00:00Z&sig=ab"}, nil
}

type fakeNotebook struct {
	mu    sync.Mutex
	rows  map[string]string
	saver string
}

func (f *fakeNotebook) Load(ctx context.Context, project, run string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[project+"/"+run], nil
}

func (f *fakeNotebook) Save(ctx context.Context, userID, project, run, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rows == nil {
		f.rows = map[string]string{}
	}
	f.rows[project+"/"+run] = body
	f.saver = userID
	return nil
}
