package client

import "context"

// API is the JSON contract of the backend used by the services layer.
// Paths are relative to the configured base URL.
type API interface {
	GetJSON(ctx context.Context, path string, out any) error
	PostJSON(ctx context.Context, path string, in, out any) error
	Delete(ctx context.Context, path string) error
	Ping(ctx context.Context) error
}
