// Package presign asks the backend for time-limited object-storage URLs.
package presign

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/labdrive/internal/client/client"
	"github.com/dmitrijs2005/labdrive/internal/client/models"
)

const (
	RunEndpoint      = "/data/runs/shared_access_signature"
	documentEndpoint = "/data/%s/documents/shared_access_signature"

	ModeWrite = "write"
	ModeRead  = "read"
)

var ErrEmptyURL = errors.New("backend returned an empty presigned url")

// Request is the body posted to a shared_access_signature endpoint.
// Project, Run and Kind are omitted for document scope.
type Request struct {
	Project string `json:"project,omitempty"`
	Run     string `json:"run,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Name    string `json:"name"`
	Mode    string `json:"mode"`
}

// Service fetches presigned URLs for one fixed scope.
type Service struct {
	api      client.API
	endpoint string
	project  string
	run      string
	kind     models.Kind
}

// NewRunService scopes the service to the files of one run and kind.
func NewRunService(api client.API, project, run string, kind models.Kind) *Service {
	return &Service{api: api, endpoint: RunEndpoint, project: project, run: run, kind: kind}
}

// NewDocumentService scopes the service to the project documents.
func NewDocumentService(api client.API, project string) *Service {
	return &Service{api: api, endpoint: fmt.Sprintf(documentEndpoint, url.PathEscape(project)), project: project}
}

// Documents reports whether the service is document scoped.
func (s *Service) Documents() bool {
	return s.run == ""
}

// Path returns the storage path name resolves to in this scope.
func (s *Service) Path(name string) string {
	if s.Documents() {
		return models.DocumentPath(s.project, name)
	}
	return models.RunFilePath(s.project, s.run, s.kind, name)
}

func (s *Service) request(name, mode string) Request {
	if s.Documents() {
		return Request{Name: name, Mode: mode}
	}
	return Request{Project: s.project, Run: s.run, Kind: string(s.kind), Name: name, Mode: mode}
}

// FetchUploadPresignedURL returns a URL the caller may PUT name to.
func (s *Service) FetchUploadPresignedURL(ctx context.Context, name string) (models.PresignedURL, error) {
	return s.FetchURL(ctx, s.endpoint, s.request(name, ModeWrite))
}

// FetchReadPresignedURL returns a URL the caller may GET name from.
func (s *Service) FetchReadPresignedURL(ctx context.Context, name string) (models.PresignedURL, error) {
	return s.FetchURL(ctx, s.endpoint, s.request(name, ModeRead))
}

// FetchURL posts req to endpoint and decodes the presigned URL.
// The POST carries the X-CSRFToken header.
func (s *Service) FetchURL(ctx context.Context, endpoint string, req Request) (models.PresignedURL, error) {
	var out models.PresignedURL
	if err := s.api.PostJSON(ctx, endpoint, req, &out); err != nil {
		return models.PresignedURL{}, fmt.Errorf("presign %s %s: %w", req.Mode, req.Name, err)
	}
	if out.URL == "" {
		return models.PresignedURL{}, ErrEmptyURL
	}
	return out, nil
}
