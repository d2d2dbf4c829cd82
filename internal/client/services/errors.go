package services

import (
	"errors"
	"fmt"
)

var ErrEmptyName = errors.New("file name is empty")

// UploadError reports which file of a batch stopped UploadFiles.
type UploadError struct {
	Index int
	Name  string
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %d (%s): %v", e.Index, e.Name, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
