// Package client talks to the labdrive backend over HTTP/JSON.
//
// HTTPClient keeps the session and CSRF cookies in a cookie jar and sends the
// X-CSRFToken header on every mutating request (see package csrf). Before the
// first mutating request it performs a GET on /health so that the backend
// issues the csrftoken cookie.
//
// Non-2xx responses come back as *StatusError, which unwraps to
// ErrUnauthorized, ErrForbidden, ErrNotFound or ErrUnavailable so callers can
// use errors.Is. Transport failures are reported as ErrUnavailable.
package client
