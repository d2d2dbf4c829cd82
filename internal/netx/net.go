// Package netx talks directly to object storage through presigned URLs.
// No backend is involved once a URL has been obtained, so requests made here
// carry neither session cookies nor CSRF headers.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultContentType = "application/octet-stream"

// StatusError is returned when storage answers with an unexpected status.
// Expired or tampered presigned URLs surface here (usually 403).
type StatusError struct {
	Method     string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed: %s; body: %s", e.Method, e.Status, e.Body)
}

// StorageClient performs the direct storage hop of uploads and downloads.
type StorageClient struct {
	client *http.Client
}

func NewStorageClient(timeout time.Duration) *StorageClient {
	return &StorageClient{client: &http.Client{Timeout: timeout}}
}

// NewStorageClientWith wraps an existing http.Client (tests use the one
// returned by httptest.Server.Client).
func NewStorageClientWith(c *http.Client) *StorageClient {
	return &StorageClient{client: c}
}

// Upload PUTs body to target. size < 0 means unknown length (chunked).
// Extra headers are copied onto the request; Azure-style SAS uploads need
// "x-ms-blob-type: BlockBlob".
func (s *StorageClient) Upload(ctx context.Context, target string, body io.Reader, size int64, contentType string, header http.Header) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, body)
	if err != nil {
		return err
	}
	if size >= 0 {
		req.ContentLength = size
	}
	if contentType == "" {
		contentType = defaultContentType
	}
	req.Header.Set("Content-Type", contentType)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	}
	return statusError(http.MethodPut, resp)
}

// Download GETs target and copies the body into w.
func (s *StorageClient) Download(ctx context.Context, target string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return 0, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, statusError(http.MethodGet, resp)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("reading storage body: %w", err)
	}
	return n, nil
}

func statusError(method string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return &StatusError{Method: method, StatusCode: resp.StatusCode, Status: resp.Status, Body: string(b)}
}
