package httpapi

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrijs2005/labdrive/internal/common"
)

type contextKey string

const userIDKey contextKey = "user_id"

// UserIDFromContext returns the user id stored by Session, or "".
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// RequestLogger logs one line per request; 4xx at warn, 5xx at error.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := newResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			level := slog.LevelInfo
			if wrapped.statusCode >= 500 {
				level = slog.LevelError
			} else if wrapped.statusCode >= 400 {
				level = slog.LevelWarn
			}

			logger.LogAttrs(r.Context(), level, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", wrapped.statusCode),
				slog.Duration("duration", time.Since(start)),
				slog.Int64("bytes", wrapped.written),
				slog.String("remote_addr", r.RemoteAddr),
			)
		})
	}
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

// newCSRFToken is replaced in tests.
var newCSRFToken = func() (string, error) {
	return common.MakeRandHexString(32)
}

// CSRF hands a csrftoken cookie to safe requests that lack one and requires
// unsafe requests to echo it in the X-CSRFToken header.
func CSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(common.CSRFCookieName)
		hasCookie := err == nil && cookie.Value != ""

		if safeMethod(r.Method) {
			if !hasCookie {
				token, err := newCSRFToken()
				if err != nil {
					writeError(w, http.StatusInternalServerError, CodeInternalError, common.ErrorInternal.Error())
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     common.CSRFCookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int((365 * 24 * time.Hour).Seconds()),
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r)
			return
		}

		if !hasCookie {
			writeError(w, http.StatusForbidden, CodeForbidden, common.ErrCSRFMissing.Error())
			return
		}
		header := r.Header.Get(common.CSRFHeaderName)
		if header == "" || subtle.ConstantTimeCompare([]byte(header), []byte(cookie.Value)) != 1 {
			writeError(w, http.StatusForbidden, CodeForbidden, common.ErrCSRFMismatch.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionResolver turns a sessionid cookie value into a user id.
type SessionResolver interface {
	UserID(token string) (string, error)
}

// Session rejects requests without a valid sessionid cookie and stores the
// user id in the request context.
func Session(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(common.SessionCookieName)
			if err != nil || cookie.Value == "" {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "authentication required")
				return
			}

			userID, err := resolver.UserID(cookie.Value)
			if err != nil {
				status, code, msg := statusFor(err)
				writeError(w, status, code, msg)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
