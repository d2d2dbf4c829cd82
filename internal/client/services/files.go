// Package services holds the client-side application services: file
// listing and upload through presigned URLs, notebook comments, image
// storage and login.
package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/labdrive/internal/client/client"
	"github.com/dmitrijs2005/labdrive/internal/client/models"
	"github.com/dmitrijs2005/labdrive/internal/filex"
	"github.com/dmitrijs2005/labdrive/internal/logging"
)

// Presigner hands out presigned URLs for one scope.
type Presigner interface {
	FetchUploadPresignedURL(ctx context.Context, name string) (models.PresignedURL, error)
	FetchReadPresignedURL(ctx context.Context, name string) (models.PresignedURL, error)
	Path(name string) string
}

// Storage moves bytes to and from presigned URLs.
type Storage interface {
	Upload(ctx context.Context, target string, body io.Reader, size int64, contentType string, header http.Header) error
	Download(ctx context.Context, target string, w io.Writer) (int64, error)
}

// FileService lists, fetches, deletes and uploads the files of one scope.
type FileService interface {
	ListFiles(ctx context.Context) ([]models.FileRecord, error)
	FetchFile(ctx context.Context, name string, w io.Writer) (int64, error)
	DeleteFile(ctx context.Context, name string) error
	UploadFile(ctx context.Context, blob filex.Blob) (models.FileRecord, error)
	UploadFiles(ctx context.Context, blobs []filex.Blob) ([]models.FileRecord, error)
}

type fileService struct {
	api       client.API
	presigner Presigner
	storage   Storage
	listPath  string
	log       logging.Logger
}

// NewFileService returns the FileService of one run's files of a kind.
func NewFileService(api client.API, presigner Presigner, storage Storage, project, run string, kind models.Kind, log logging.Logger) FileService {
	return &fileService{
		api:       api,
		presigner: presigner,
		storage:   storage,
		listPath:  fmt.Sprintf("/data/%s/runs/%s/%s", url.PathEscape(project), url.PathEscape(run), url.PathEscape(string(kind))),
		log:       log.With("module", "files", "project", project, "run", run, "kind", string(kind)),
	}
}

// NewDocumentFileService returns the FileService of a project's documents.
func NewDocumentFileService(api client.API, presigner Presigner, storage Storage, project string, log logging.Logger) FileService {
	return &fileService{
		api:       api,
		presigner: presigner,
		storage:   storage,
		listPath:  fmt.Sprintf("/data/%s/documents", url.PathEscape(project)),
		log:       log.With("module", "documents", "project", project),
	}
}

func (s *fileService) ListFiles(ctx context.Context) ([]models.FileRecord, error) {
	var files []models.FileRecord
	if err := s.api.GetJSON(ctx, s.listPath, &files); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	if files == nil {
		files = []models.FileRecord{}
	}
	return files, nil
}

func (s *fileService) FetchFile(ctx context.Context, name string, w io.Writer) (int64, error) {
	if name == "" {
		return 0, ErrEmptyName
	}
	u, err := s.presigner.FetchReadPresignedURL(ctx, name)
	if err != nil {
		return 0, err
	}
	n, err := s.storage.Download(ctx, u.BlobURL(name), w)
	if err != nil {
		return n, fmt.Errorf("download %s: %w", name, err)
	}
	s.log.Debug(ctx, "file fetched", "name", name, "bytes", n)
	return n, nil
}

func (s *fileService) DeleteFile(ctx context.Context, name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if err := s.api.Delete(ctx, s.listPath+"/"+url.PathEscape(name)); err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	s.log.Info(ctx, "file deleted", "name", name)
	return nil
}

// UploadFile presigns a write URL for blob and PUTs its bytes there.
func (s *fileService) UploadFile(ctx context.Context, blob filex.Blob) (models.FileRecord, error) {
	if blob.Name == "" {
		return models.FileRecord{}, ErrEmptyName
	}

	u, err := s.presigner.FetchUploadPresignedURL(ctx, blob.Name)
	if err != nil {
		return models.FileRecord{}, err
	}

	body, err := blob.Open()
	if err != nil {
		return models.FileRecord{}, err
	}
	defer body.Close()

	var header http.Header
	if u.Token != "" {
		header = http.Header{"X-Ms-Blob-Type": []string{"BlockBlob"}}
	}

	if err := s.storage.Upload(ctx, u.BlobURL(blob.Name), body, blob.Size, blob.ContentType, header); err != nil {
		return models.FileRecord{}, fmt.Errorf("upload %s: %w", blob.Name, err)
	}

	s.log.Info(ctx, "file uploaded", "name", blob.Name, "size", blob.Size)

	return models.FileRecord{
		Name:        blob.Name,
		Path:        s.presigner.Path(blob.Name),
		Size:        blob.Size,
		ContentType: blob.ContentType,
	}, nil
}

// UploadFiles uploads blobs one after another in slice order. The first
// failure stops the batch: the records uploaded so far are returned with an
// *UploadError naming the failed file.
func (s *fileService) UploadFiles(ctx context.Context, blobs []filex.Blob) ([]models.FileRecord, error) {
	records := make([]models.FileRecord, 0, len(blobs))
	for i, b := range blobs {
		if err := ctx.Err(); err != nil {
			return records, &UploadError{Index: i, Name: b.Name, Err: err}
		}
		rec, err := s.UploadFile(ctx, b)
		if err != nil {
			s.log.Warn(ctx, "upload aborted", "index", i, "name", b.Name, "err", err)
			return records, &UploadError{Index: i, Name: b.Name, Err: err}
		}
		records = append(records, rec)
	}
	return records, nil
}
