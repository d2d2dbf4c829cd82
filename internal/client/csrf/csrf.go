// Package csrf reads the backend's CSRF cookie and attaches it to
// same-origin mutating requests.
package csrf

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/labdrive/internal/common"
)

// GetCSRFToken extracts the csrftoken value from a Cookie header string
// such as "sessionid=abc; csrftoken=TOKEN". It returns "" when absent.
func GetCSRFToken(cookieHeader string) string {
	for _, part := range strings.Split(cookieHeader, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || name != common.CSRFCookieName {
			continue
		}
		return decode(value)
	}
	return ""
}

// decode unescapes a cookie value, keeping it as-is when it is not valid
// escaping.
func decode(value string) string {
	if v, err := url.QueryUnescape(value); err == nil {
		return v
	}
	return value
}

// TokenFromJar returns the csrftoken cookie the jar holds for u.
func TokenFromJar(jar http.CookieJar, u *url.URL) string {
	if jar == nil || u == nil {
		return ""
	}
	for _, c := range jar.Cookies(u) {
		if c.Name == common.CSRFCookieName {
			return decode(c.Value)
		}
	}
	return ""
}

// Safe reports whether method does not need a CSRF token.
func Safe(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

// Transport adds the X-CSRFToken header (and a Referer, which the backend
// checks on HTTPS) to mutating requests aimed at Origin.
type Transport struct {
	Origin *url.URL
	Jar    http.CookieJar
	Base   http.RoundTripper
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) sameOrigin(u *url.URL) bool {
	return t.Origin != nil && strings.EqualFold(u.Scheme, t.Origin.Scheme) && strings.EqualFold(u.Host, t.Origin.Host)
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if Safe(req.Method) || !t.sameOrigin(req.URL) {
		return t.base().RoundTrip(req)
	}

	token := TokenFromJar(t.Jar, req.URL)
	if token == "" {
		return t.base().RoundTrip(req)
	}

	r := req.Clone(req.Context())
	r.Header.Set(common.CSRFHeaderName, token)
	if r.Header.Get("Referer") == "" {
		r.Header.Set("Referer", t.Origin.Scheme+"://"+t.Origin.Host+"/")
	}
	return t.base().RoundTrip(r)
}
