// Package models defines the records exchanged between the labdrive client
// and the backend.
package models

import (
	"net/url"
	"path"
	"strings"
	"time"
)

// Kind is the category of files stored under a run.
type Kind string

const (
	KindRawData       Kind = "raw_data"
	KindProcessedData Kind = "processed_data"
)

// FileRecord describes one object-storage blob as listed by the backend.
type FileRecord struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type,omitempty"`
}

// RunFilePath builds the storage path of a run file.
func RunFilePath(project, run string, kind Kind, name string) string {
	return path.Join(project, run, string(kind), name)
}

// DocumentPath builds the storage path of a project document.
func DocumentPath(project, name string) string {
	return path.Join(project, "documents", name)
}

// PresignedURL is a time-limited capability on one storage location.
//
// With an empty Token, URL addresses the object itself. Otherwise URL
// addresses a container and the token is appended as a query string.
type PresignedURL struct {
	URL    string    `json:"url"`
	Token  string    `json:"token,omitempty"`
	Expiry time.Time `json:"expiry"`
}

// Expired reports whether the URL can no longer be used at now.
// A zero Expiry never expires.
func (p PresignedURL) Expired(now time.Time) bool {
	if p.Expiry.IsZero() {
		return false
	}
	return !now.Before(p.Expiry)
}

// BlobURL returns the URL a client should PUT to or GET from for name.
func (p PresignedURL) BlobURL(name string) string {
	if p.Token == "" {
		return p.URL
	}
	return strings.TrimSuffix(p.URL, "/") + "/" + url.PathEscape(name) + "?" + strings.TrimPrefix(p.Token, "?")
}
