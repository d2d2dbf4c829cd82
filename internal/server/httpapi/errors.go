package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/labdrive/internal/common"
)

// Error codes carried in {"error": {"code", "message"}} bodies.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeInternalError   = "INTERNAL_ERROR"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

// statusFor maps service errors onto a status, an error code and the
// message shown to the caller. Unknown errors are not echoed.
func statusFor(err error) (int, string, string) {
	switch {
	case errors.Is(err, common.ErrorInvalidPath), errors.Is(err, common.ErrorInvalidMode):
		return http.StatusBadRequest, CodeValidationError, err.Error()
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, CodeNotFound, "not found"
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, CodeUnauthorized, err.Error()
	case errors.Is(err, common.ErrorForbidden),
		errors.Is(err, common.ErrCSRFMissing),
		errors.Is(err, common.ErrCSRFMismatch):
		return http.StatusForbidden, CodeForbidden, err.Error()
	default:
		return http.StatusInternalServerError, CodeInternalError, common.ErrorInternal.Error()
	}
}
