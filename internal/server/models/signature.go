package models

import "time"

// Signature records one presigned URL handed out by the backend.
type Signature struct {
	ID        string
	UserID    string
	Key       string
	Mode      string
	ExpiresAt time.Time
	CreatedAt time.Time
}
