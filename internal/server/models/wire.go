package models

import "time"

// Access modes accepted by the shared access signature endpoints.
const (
	ModeRead  = "read"
	ModeWrite = "write"
)

// File kinds stored under a run.
const (
	KindRawData       = "raw_data"
	KindProcessedData = "processed_data"
)

// FileRecord is one stored object as the API lists it.
type FileRecord struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type,omitempty"`
}

// SignatureRequest is the body of both shared_access_signature endpoints.
// Project, Run and Kind are only read by the run endpoint.
type SignatureRequest struct {
	Project string `json:"project,omitempty"`
	Run     string `json:"run,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Name    string `json:"name"`
	Mode    string `json:"mode"`
}

type PresignedURL struct {
	URL    string    `json:"url"`
	Token  string    `json:"token,omitempty"`
	Expiry time.Time `json:"expiry"`
}

type ImageStorage struct {
	BaseURL string `json:"baseUrl"`
	Token   string `json:"token"`
}

type Comments struct {
	Comments string `json:"comments"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
