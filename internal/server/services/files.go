package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/labdrive/internal/common"
	"github.com/dmitrijs2005/labdrive/internal/logging"
	"github.com/dmitrijs2005/labdrive/internal/server/models"
	"github.com/dmitrijs2005/labdrive/internal/server/objectstore"
	"github.com/dmitrijs2005/labdrive/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ObjectStore is the bucket access FileService needs.
type ObjectStore interface {
	PresignPut(ctx context.Context, key string) (string, time.Time, error)
	PresignGet(ctx context.Context, key string) (string, time.Time, error)
	List(ctx context.Context, prefix string) ([]objectstore.Object, error)
	Delete(ctx context.Context, key string) error
}

// FileService hands out presigned URLs for run files and project
// documents, lists them and deletes them.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       ObjectStore
	logger      logging.Logger
	newID       func() string
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, store ObjectStore, logger logging.Logger) *FileService {
	return &FileService{
		db:          db,
		repomanager: m,
		store:       store,
		logger:      logger,
		newID:       uuid.NewString,
	}
}

// PresignRun signs access to one file of a run. req must name the project,
// run, kind and file.
func (s *FileService) PresignRun(ctx context.Context, userID string, req models.SignatureRequest) (*models.PresignedURL, error) {
	prefix, err := RunPrefix(req.Project, req.Run, req.Kind)
	if err != nil {
		return nil, err
	}
	key, err := objectKey(prefix, req.Name)
	if err != nil {
		return nil, err
	}
	return s.presign(ctx, userID, key, req.Mode)
}

// PresignDocument signs access to one document of project.
func (s *FileService) PresignDocument(ctx context.Context, userID, project string, req models.SignatureRequest) (*models.PresignedURL, error) {
	prefix, err := DocumentPrefix(project)
	if err != nil {
		return nil, err
	}
	key, err := objectKey(prefix, req.Name)
	if err != nil {
		return nil, err
	}
	return s.presign(ctx, userID, key, req.Mode)
}

func (s *FileService) presign(ctx context.Context, userID, key, mode string) (*models.PresignedURL, error) {
	var (
		url    string
		expiry time.Time
		err    error
	)

	switch mode {
	case models.ModeWrite:
		url, expiry, err = s.store.PresignPut(ctx, key)
	case models.ModeRead:
		url, expiry, err = s.store.PresignGet(ctx, key)
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrorInvalidMode, mode)
	}
	if err != nil {
		return nil, err
	}

	sig := &models.Signature{
		ID:        s.newID(),
		UserID:    userID,
		Key:       key,
		Mode:      mode,
		ExpiresAt: expiry,
	}
	if err := s.repomanager.Signatures(s.db).Create(ctx, sig); err != nil {
		return nil, fmt.Errorf("record signature: %w", err)
	}

	s.logger.Debug(ctx, "signature issued", "id", sig.ID, "key", key, "mode", mode)

	return &models.PresignedURL{URL: url, Expiry: expiry}, nil
}

// ListRun returns the files of one kind stored under a run.
func (s *FileService) ListRun(ctx context.Context, project, run, kind string) ([]models.FileRecord, error) {
	prefix, err := RunPrefix(project, run, kind)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, prefix, runPath(project, run, kind))
}

// ListDocuments returns the documents of project.
func (s *FileService) ListDocuments(ctx context.Context, project string) ([]models.FileRecord, error) {
	prefix, err := DocumentPrefix(project)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, prefix, documentPath(project))
}

// list maps the objects under the storage prefix to records whose Path is
// relative to scope. Storage keys stay internal.
func (s *FileService) list(ctx context.Context, prefix, scope string) ([]models.FileRecord, error) {
	objects, err := s.store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	records := make([]models.FileRecord, 0, len(objects))
	for _, o := range objects {
		name := strings.TrimPrefix(o.Key, prefix)
		// nested keys are not addressable through the API
		if name == "" || strings.Contains(name, "/") {
			continue
		}
		records = append(records, models.FileRecord{Name: name, Path: scope + "/" + name, Size: o.Size})
	}
	return records, nil
}

func (s *FileService) DeleteRunFile(ctx context.Context, project, run, kind, name string) error {
	prefix, err := RunPrefix(project, run, kind)
	if err != nil {
		return err
	}
	key, err := objectKey(prefix, name)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, key)
}

func (s *FileService) DeleteDocument(ctx context.Context, project, name string) error {
	prefix, err := DocumentPrefix(project)
	if err != nil {
		return err
	}
	key, err := objectKey(prefix, name)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, key)
}

// PurgeSignatures drops audit rows that expired before now.
func (s *FileService) PurgeSignatures(ctx context.Context, now time.Time) (int64, error) {
	return s.repomanager.Signatures(s.db).DeleteExpired(ctx, now)
}
