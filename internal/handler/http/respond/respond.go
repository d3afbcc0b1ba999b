// Package respond writes JSON responses and maps errors to user-facing messages.
// Internal error details are logged with secrets masked and never sent to clients.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"pdf-digest/internal/observability/logging"
)

// JSON writes v as JSON with the given status code.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// headers are already sent
		slog.Default().Error("failed to encode JSON response",
			slog.Int("status_code", code),
			slog.Any("error", err))
	}
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// Error writes err's message verbatim. Use only for messages known to be safe.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, ErrorBody{Error: err.Error()})
}

// AppError carries a user-facing message alongside the internal cause.
type AppError struct {
	UserMsg string
	Err     error
	Code    int
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMsg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError.
func NewAppError(code int, userMsg string, err error) *AppError {
	return &AppError{Code: code, UserMsg: userMsg, Err: err}
}

// Resolve returns the status code and message a client should see for err.
// An AppError anywhere in the chain wins; otherwise messages of 4xx errors are passed
// through and 5xx errors become "internal server error".
func Resolve(code int, err error) (int, string) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, appErr.UserMsg
	}
	if code >= http.StatusInternalServerError {
		return code, "internal server error"
	}
	return code, err.Error()
}

// SafeError resolves err, logs the sanitized cause and writes the JSON error body.
func SafeError(ctx context.Context, w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}
	status, msg := Resolve(code, err)
	Log(ctx, status, msg, err)
	JSON(w, status, ErrorBody{Error: msg})
}

// Log records an error that is about to be shown to a client. Server-side failures log at
// error level, client mistakes at warn.
func Log(ctx context.Context, status int, userMsg string, err error) {
	logger := logging.WithRequestID(ctx, logging.FromContext(ctx))
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(ctx, level, "request failed",
		slog.Int("code", status),
		slog.String("status", http.StatusText(status)),
		slog.String("user_message", userMsg),
		slog.String("error", SanitizeError(err)))
}
