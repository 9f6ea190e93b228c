package api

import (
	"context"
	"errors"
	"net/http"

	"Kundali/internal/domain/models"
	"Kundali/internal/usecase"
	xhttp "Kundali/pkg/http"
)

// toAppError maps pipeline errors onto transport errors.
func toAppError(err error) *xhttp.AppError {
	var appErr *xhttp.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var ce *models.ChartError
	if errors.As(err, &ce) {
		status := http.StatusInternalServerError
		switch {
		case models.IsValidationError(err):
			status = http.StatusBadRequest
		case ce.Code == models.CodeModelsNotLoaded, ce.Code == models.CodeEphemerisUnavailable:
			status = http.StatusServiceUnavailable
		}
		return xhttp.NewAppError(string(ce.Code), ce.Field, ce.Message, status).WithError(err)
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidOption):
		return xhttp.NewAppError("ERR_INVALID_OPTION", "", err.Error(), http.StatusBadRequest).WithError(err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return xhttp.ServiceUnavailableError("ERR_TIMEOUT", "request timed out").WithError(err)
	default:
		return xhttp.InternalError("chart generation failed").WithError(err)
	}
}
