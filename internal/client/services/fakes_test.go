package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/labdrive/internal/client/models"
)

type apiCall struct {
	Method string
	Path   string
	Body   any
}

type fakeAPI struct {
	calls   []apiCall
	replies map[string]any
	err     error
	pingErr error
}

func (f *fakeAPI) reply(path string, out any) error {
	v, ok := f.replies[path]
	if !ok || out == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (f *fakeAPI) GetJSON(_ context.Context, path string, out any) error {
	f.calls = append(f.calls, apiCall{Method: http.MethodGet, Path: path})
	if f.err != nil {
		return f.err
	}
	return f.reply(path, out)
}

func (f *fakeAPI) PostJSON(_ context.Context, path string, in, out any) error {
	f.calls = append(f.calls, apiCall{Method: http.MethodPost, Path: path, Body: in})
	if f.err != nil {
		return f.err
	}
	return f.reply(path, out)
}

func (f *fakeAPI) Delete(_ context.Context, path string) error {
	f.calls = append(f.calls, apiCall{Method: http.MethodDelete, Path: path})
	return f.err
}

func (f *fakeAPI) Ping(context.Context) error { return f.pingErr }

type fakePresigner struct {
	uploadCalls []string
	readCalls   []string
	token       string
	failOn      string
}

func (f *fakePresigner) FetchUploadPresignedURL(_ context.Context, name string) (models.PresignedURL, error) {
	f.uploadCalls = append(f.uploadCalls, name)
	if name == f.failOn {
		return models.PresignedURL{}, errors.New("presign refused")
	}
	return models.PresignedURL{URL: "https://storage.local/c/" + name, Token: f.token}, nil
}

func (f *fakePresigner) FetchReadPresignedURL(_ context.Context, name string) (models.PresignedURL, error) {
	f.readCalls = append(f.readCalls, name)
	return models.PresignedURL{URL: "https://storage.local/c/" + name}, nil
}

func (f *fakePresigner) Path(name string) string { return "proj/run/raw_data/" + name }

type upload struct {
	Target      string
	Data        string
	Size        int64
	ContentType string
	Header      http.Header
}

type fakeStorage struct {
	uploads   []upload
	downloads []string
	content   string
	failOn    string
}

func (f *fakeStorage) Upload(_ context.Context, target string, body io.Reader, size int64, contentType string, header http.Header) error {
	if target == f.failOn {
		return fmt.Errorf("PUT %s: 403 Forbidden", target)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.uploads = append(f.uploads, upload{Target: target, Data: string(data), Size: size, ContentType: contentType, Header: header})
	return nil
}

func (f *fakeStorage) Download(_ context.Context, target string, w io.Writer) (int64, error) {
	f.downloads = append(f.downloads, target)
	return io.Copy(w, bytes.NewBufferString(f.content))
}
