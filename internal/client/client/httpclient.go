package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/labdrive/internal/client/csrf"
)

const (
	healthPath   = "/health"
	maxErrorBody = 512
)

// HTTPClient implements API against a backend base URL.
type HTTPClient struct {
	base *url.URL
	jar  http.CookieJar
	http *http.Client
}

// NewHTTPClient builds a client for baseURL with a fresh cookie jar.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	return NewHTTPClientWith(baseURL, timeout, nil)
}

// NewHTTPClientWith is NewHTTPClient with an explicit base transport.
func NewHTTPClientWith(baseURL string, timeout time.Duration, rt http.RoundTripper) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &HTTPClient{
		base: u,
		jar:  jar,
		http: &http.Client{
			Jar:       jar,
			Timeout:   timeout,
			Transport: &csrf.Transport{Origin: u, Jar: jar, Base: rt},
		},
	}, nil
}

// BaseURL returns the backend base URL.
func (c *HTTPClient) BaseURL() string {
	return c.base.String()
}

// CSRFToken returns the csrftoken cookie currently held for the backend.
func (c *HTTPClient) CSRFToken() string {
	return csrf.TokenFromJar(c.jar, c.base)
}

// Cookies returns the cookies the jar holds for the backend.
func (c *HTTPClient) Cookies() []*http.Cookie {
	return c.jar.Cookies(c.base)
}

func (c *HTTPClient) resolve(path string) string {
	return c.base.String() + "/" + strings.TrimPrefix(path, "/")
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, healthPath, nil, nil)
}

func (c *HTTPClient) GetJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *HTTPClient) PostJSON(ctx context.Context, path string, in, out any) error {
	if err := c.ensureCSRF(ctx); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, in, out)
}

func (c *HTTPClient) Delete(ctx context.Context, path string) error {
	if err := c.ensureCSRF(ctx); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// ensureCSRF makes sure the jar holds a csrftoken cookie.
func (c *HTTPClient) ensureCSRF(ctx context.Context) error {
	if c.CSRFToken() != "" {
		return nil
	}
	if err := c.Ping(ctx); err != nil {
		return fmt.Errorf("fetch csrf cookie: %w", err)
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
