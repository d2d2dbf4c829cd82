// Package manager binds an upload form and a file table to a file service.
package manager

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/labdrive/internal/client/models"
	"github.com/dmitrijs2005/labdrive/internal/client/services"
	"github.com/dmitrijs2005/labdrive/internal/filex"
	"github.com/dmitrijs2005/labdrive/internal/logging"
)

var (
	ErrInvalidInput     = errors.New("invalid file selection")
	ErrSubmitInProgress = errors.New("an upload is already in progress")
)

// Form is the upload form the manager drives.
type Form interface {
	SelectedFiles() []filex.Blob
	SetCustomValidity(msg string)
	Reset()
}

// Table renders a file listing.
type Table interface {
	Render(files []models.FileRecord)
}

// Validator returns "" for an acceptable selection, a message otherwise.
type Validator interface {
	GetFileInputCustomValidity(files []string) string
}

type State int

const (
	Idle State = iota
	Submitting
)

func (s State) String() string {
	if s == Submitting {
		return "submitting"
	}
	return "idle"
}

// Manager is the controller created by Enhance.
type Manager struct {
	form      Form
	table     Table
	service   services.FileService
	validator Validator
	log       logging.Logger

	mu    sync.Mutex
	state State
}

// Enhance attaches file-manager behavior to form and table.
func Enhance(form Form, table Table, service services.FileService, validator Validator, log logging.Logger) *Manager {
	return &Manager{
		form:      form,
		table:     table,
		service:   service,
		validator: validator,
		log:       log.With("module", "manager"),
	}
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Init renders the current listing.
func (m *Manager) Init(ctx context.Context) error {
	_, err := m.FetchFiles(ctx)
	return err
}

// FetchFiles lists the service scope and renders it in the table.
func (m *Manager) FetchFiles(ctx context.Context) ([]models.FileRecord, error) {
	files, err := m.service.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	m.table.Render(files)
	return files, nil
}

// Submit validates the selected files, uploads them in order, refreshes
// the table and resets the form. Invalid selections never reach the
// network: the form gets a custom validity message and ErrInvalidInput is
// returned.
func (m *Manager) Submit(ctx context.Context) ([]models.FileRecord, error) {
	m.mu.Lock()
	if m.state == Submitting {
		m.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	m.state = Submitting
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.state = Idle
		m.mu.Unlock()
	}()

	blobs := m.form.SelectedFiles()
	if msg := m.validator.GetFileInputCustomValidity(filex.Names(blobs)); msg != "" {
		m.form.SetCustomValidity(msg)
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, msg)
	}
	m.form.SetCustomValidity("")

	uploaded, err := m.service.UploadFiles(ctx, blobs)
	if err != nil {
		m.log.Error(ctx, "upload failed", "uploaded", len(uploaded), "err", err)
		m.form.SetCustomValidity(err.Error())
		if len(uploaded) > 0 {
			if _, lerr := m.FetchFiles(ctx); lerr != nil {
				m.log.Warn(ctx, "refresh after partial upload failed", "err", lerr)
			}
		}
		return uploaded, err
	}

	if _, err := m.FetchFiles(ctx); err != nil {
		return uploaded, fmt.Errorf("refresh listing: %w", err)
	}
	m.form.Reset()
	m.log.Info(ctx, "upload complete", "files", len(uploaded))
	return uploaded, nil
}
