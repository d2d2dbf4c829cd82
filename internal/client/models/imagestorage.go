package models

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

var ErrNoExpiry = errors.New("token has no se parameter")

// ImageStorage is the read capability on a project's image container.
type ImageStorage struct {
	BaseURL string `json:"baseUrl"`
	Token   string `json:"token"`
}

// Expiry parses the se (signed expiry) parameter embedded in the token.
func (s ImageStorage) Expiry() (time.Time, error) {
	q, err := url.ParseQuery(strings.TrimPrefix(s.Token, "?"))
	if err != nil {
		return time.Time{}, err
	}
	se := q.Get("se")
	if se == "" {
		return time.Time{}, ErrNoExpiry
	}
	return time.Parse(time.RFC3339, se)
}

// ImageURL returns the readable URL of an image in the container.
func (s ImageStorage) ImageURL(name string) string {
	return PresignedURL{URL: s.BaseURL, Token: s.Token}.BlobURL(name)
}
