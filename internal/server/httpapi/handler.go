// Package httpapi serves the labdrive JSON API: login, shared access
// signatures, file listings, image storage tokens and run comments.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/labdrive/internal/common"
	"github.com/dmitrijs2005/labdrive/internal/logging"
	"github.com/dmitrijs2005/labdrive/internal/server/models"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

type Accounts interface {
	SessionResolver
	Login(ctx context.Context, username, password string) (string, error)
	SessionValidity() time.Duration
}

type Files interface {
	PresignRun(ctx context.Context, userID string, req models.SignatureRequest) (*models.PresignedURL, error)
	PresignDocument(ctx context.Context, userID, project string, req models.SignatureRequest) (*models.PresignedURL, error)
	ListRun(ctx context.Context, project, run, kind string) ([]models.FileRecord, error)
	ListDocuments(ctx context.Context, project string) ([]models.FileRecord, error)
	DeleteRunFile(ctx context.Context, project, run, kind, name string) error
	DeleteDocument(ctx context.Context, project, name string) error
}

type ImageStorage interface {
	Issue(project string) (*models.ImageStorage, error)
}

type Notebook interface {
	Load(ctx context.Context, project, run string) (string, error)
	Save(ctx context.Context, userID, project, run, body string) error
}

type Handler struct {
	accounts Accounts
	files    Files
	images   ImageStorage
	notebook Notebook
	logger   logging.Logger
}

func NewHandler(accounts Accounts, files Files, images ImageStorage, notebook Notebook, logger logging.Logger) *Handler {
	return &Handler{accounts: accounts, files: files, images: images, notebook: notebook, logger: logger}
}

// fail writes the error response for err, logging unexpected ones.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeError(w, status, code, msg)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationError, "invalid request body")
		return false
	}
	return true
}

// param returns the decoded path parameter.
func param(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	token, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.accounts.SessionValidity().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info(r.Context(), "user logged in", "username", req.Username)
	writeJSON(w, http.StatusOK, map[string]string{"username": req.Username})
}

func (h *Handler) RunSignature(w http.ResponseWriter, r *http.Request) {
	var req models.SignatureRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := h.files.PresignRun(r.Context(), UserIDFromContext(r.Context()), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) DocumentSignature(w http.ResponseWriter, r *http.Request) {
	var req models.SignatureRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := h.files.PresignDocument(r.Context(), UserIDFromContext(r.Context()), param(r, "project"), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) ListRunFiles(w http.ResponseWriter, r *http.Request) {
	out, err := h.files.ListRun(r.Context(), param(r, "project"), param(r, "run"), param(r, "kind"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) DeleteRunFile(w http.ResponseWriter, r *http.Request) {
	err := h.files.DeleteRunFile(r.Context(), param(r, "project"), param(r, "run"), param(r, "kind"), param(r, "name"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	out, err := h.files.ListDocuments(r.Context(), param(r, "project"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.files.DeleteDocument(r.Context(), param(r, "project"), param(r, "name")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ImageStorage(w http.ResponseWriter, r *http.Request) {
	out, err := h.images.Issue(param(r, "project"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetComments(w http.ResponseWriter, r *http.Request) {
	body, err := h.notebook.Load(r.Context(), param(r, "project"), param(r, "run"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.Comments{Comments: body})
}

func (h *Handler) SaveComments(w http.ResponseWriter, r *http.Request) {
	var req models.Comments
	if !decode(w, r, &req) {
		return
	}

	project, run := param(r, "project"), param(r, "run")
	if err := h.notebook.Save(r.Context(), UserIDFromContext(r.Context()), project, run, req.Comments); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}
