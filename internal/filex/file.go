// Package filex turns local files into upload blobs and prepares download
// destinations.
package filex

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Blob is one file selected for upload: a name, its size, a detected
// content type and a way to (re)open its bytes.
type Blob struct {
	Name        string
	Size        int64
	ContentType string

	open func() (io.ReadCloser, error)
}

// Open returns a fresh reader over the blob's bytes.
func (b Blob) Open() (io.ReadCloser, error) {
	if b.open == nil {
		return nil, fmt.Errorf("blob %q has no content", b.Name)
	}
	return b.open()
}

// Ext returns the blob's lower-cased extension without the dot.
func (b Blob) Ext() string {
	return Ext(b.Name)
}

// Ext returns the lower-cased extension of name without the dot, or "".
func Ext(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// OpenFile builds a Blob from a path on disk. The content type is sniffed
// from the file header.
func OpenFile(path string) (Blob, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Blob{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return Blob{}, fmt.Errorf("%s is a directory", path)
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return Blob{}, fmt.Errorf("detect content type of %s: %w", path, err)
	}

	return Blob{
		Name:        filepath.Base(path),
		Size:        fi.Size(),
		ContentType: mt.String(),
		open:        func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// FromBytes builds an in-memory Blob.
func FromBytes(name string, data []byte) Blob {
	return Blob{
		Name:        name,
		Size:        int64(len(data)),
		ContentType: mimetype.Detect(data).String(),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// Names lists the names of blobs in order.
func Names(blobs []Blob) []string {
	names := make([]string, len(blobs))
	for i, b := range blobs {
		names[i] = b.Name
	}
	return names
}

// EnsureDir creates dir (and parents) if needed and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}
	return abs, nil
}
