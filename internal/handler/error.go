// Package handler holds the JSON response helpers shared by the HTTP handlers.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/law7a/internal/domain"
	"github.com/dukerupert/law7a/internal/middleware"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorResponse writes err as {"error":{"code","message"}} with the status
// mapped from its domain code. Validation errors add "fields". Internal errors
// are logged with their cause and answered with the generic message.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	ErrorResponseWith(w, r, err, nil)
}

// ErrorResponseWith writes the error envelope with extra top-level members,
// such as the state a failed action left behind.
func ErrorResponseWith(w http.ResponseWriter, r *http.Request, err error, extra map[string]any) {
	code := domain.ErrorCode(err)
	status := ErrorCodeToHTTPStatus(code)

	logError(r, err, code, status)

	body := errorBody{
		Code:    code,
		Message: domain.ErrorMessage(err),
		Fields:  domain.ValidationFields(err),
	}

	response := make(map[string]any, len(extra)+1)
	for k, v := range extra {
		response[k] = v
	}
	response["error"] = body
	WriteJSON(w, status, response)
}

// NotFoundResponse writes a 404 for routes and resources that do not exist.
func NotFoundResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Errorf(domain.ENOTFOUND, "", "The requested resource was not found"))
}

// UnauthorizedResponse writes a 401.
func UnauthorizedResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.ErrNotAuthenticated)
}

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	return middleware.StatusFor(code)
}

// WriteJSON writes v as a JSON response with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Warn("failed to encode response", "error", err)
	}
}

// DecodeJSON decodes the request body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return domain.Invalid("", "Content-Type must be application/json")
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.Errorf(domain.ETOOLARGE, "", "Request body too large")
		}
		return domain.Invalid("", "Invalid JSON request body")
	}
	return nil
}

func logError(r *http.Request, err error, code string, status int) {
	logger := middleware.GetLogger(r.Context())
	attrs := []any{
		"error", err.Error(),
		"code", code,
		"status", status,
	}
	if op := domain.ErrorOp(err); op != "" {
		attrs = append(attrs, "op", op)
	}

	switch {
	case status >= 500:
		logger.ErrorContext(r.Context(), "request failed", attrs...)
	case status == http.StatusNotFound:
		logger.DebugContext(r.Context(), "request failed", attrs...)
	default:
		logger.InfoContext(r.Context(), "request failed", attrs...)
	}
}
