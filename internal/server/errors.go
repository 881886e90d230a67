package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/jonathan/hiring-agent/internal/dispatch"
	"github.com/jonathan/hiring-agent/internal/embedding"
	"github.com/jonathan/hiring-agent/internal/types"
)

// HTTPStatus returns the HTTP status code for an error returned by the service.
func HTTPStatus(err error) int {
	var validationErr *types.ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, dispatch.ErrDuplicateTask):
		return http.StatusConflict
	case errors.Is(err, embedding.ErrProviderUnavailable), errors.Is(err, dispatch.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the client-facing message for err. Internal errors are
// not echoed back.
func errorMessage(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
