package digest

import (
	"context"
	"errors"
	"net/http"

	"pdf-digest/internal/domain/entity"
	"pdf-digest/internal/handler/http/respond"
)

// User-facing messages for pipeline failures.
const (
	msgParse     = "invalid pdf: document could not be parsed"
	msgEmptyText = "no text could be extracted from the PDF"
	msgModel     = "summarization failed"
	msgTimeout   = "request timeout"
)

// toAppError maps a pipeline error to its status and message. Errors that already carry
// a user message pass through.
func toAppError(err error) error {
	var appErr *respond.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, entity.ErrParse):
		return respond.NewAppError(http.StatusUnprocessableEntity, msgParse, err)
	case errors.Is(err, entity.ErrEmptyText):
		return respond.NewAppError(http.StatusUnprocessableEntity, msgEmptyText, err)
	case errors.Is(err, entity.ErrModel):
		return respond.NewAppError(http.StatusBadGateway, msgModel, err)
	case errors.Is(err, context.DeadlineExceeded):
		return respond.NewAppError(http.StatusGatewayTimeout, msgTimeout, err)
	default:
		return respond.NewAppError(http.StatusInternalServerError, "internal server error", err)
	}
}
