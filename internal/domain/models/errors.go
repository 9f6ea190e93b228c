package models

import (
	"errors"
	"fmt"
)

// ErrorCode is the machine-readable chart error code.
type ErrorCode string

const (
	CodeInvalidDateTime         ErrorCode = "ERR_INVALID_DATETIME"
	CodeInvalidTimezone         ErrorCode = "ERR_INVALID_TIMEZONE"
	CodeInvalidCoordinates      ErrorCode = "ERR_INVALID_COORDINATES"
	CodeAscendantComputation    ErrorCode = "ERR_ASCENDANT_COMPUTATION"
	CodeInvalidMoonPosition     ErrorCode = "ERR_INVALID_MOON_POSITION"
	CodeFeatureCountMismatch    ErrorCode = "ERR_FEATURE_COUNT_MISMATCH"
	CodeModelsNotLoaded         ErrorCode = "ERR_MODELS_NOT_LOADED"
	CodeEphemerisUnavailable    ErrorCode = "ERR_EPHEMERIS_UNAVAILABLE"
	CodeDashaInvariantViolation ErrorCode = "ERR_DASHA_INVARIANT"
)

// ChartError is returned by every stage of chart generation.
type ChartError struct {
	Code    ErrorCode `json:"code"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *ChartError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns underlying error.
func (e *ChartError) Unwrap() error { return e.Err }

// Is matches any ChartError with the same code.
func (e *ChartError) Is(target error) bool {
	t, ok := target.(*ChartError)
	return ok && t.Code == e.Code
}

// NewChartError creates a chart error for code and field.
func NewChartError(code ErrorCode, field, message string) *ChartError {
	return &ChartError{Code: code, Field: field, Message: message}
}

// WithError wraps an underlying error.
func (e *ChartError) WithError(err error) *ChartError {
	e.Err = err
	return e
}

// Sentinels for errors.Is comparisons.
var (
	ErrInvalidDateTime      = &ChartError{Code: CodeInvalidDateTime, Message: "invalid date/time"}
	ErrInvalidTimezone      = &ChartError{Code: CodeInvalidTimezone, Message: "invalid timezone"}
	ErrInvalidCoordinates   = &ChartError{Code: CodeInvalidCoordinates, Message: "coordinates out of range"}
	ErrAscendantComputation = &ChartError{Code: CodeAscendantComputation, Message: "ascendant undefined"}
	ErrInvalidMoonPosition  = &ChartError{Code: CodeInvalidMoonPosition, Message: "invalid moon position"}
	ErrFeatureCountMismatch = &ChartError{Code: CodeFeatureCountMismatch, Message: "feature count mismatch"}
	ErrModelsNotLoaded      = &ChartError{Code: CodeModelsNotLoaded, Message: "prediction models not loaded"}
	ErrEphemerisUnavailable = &ChartError{Code: CodeEphemerisUnavailable, Message: "ephemeris unavailable"}
	ErrDashaInvariant       = &ChartError{Code: CodeDashaInvariantViolation, Message: "dasha period sum mismatch"}
)

// CodeOf extracts the chart error code from err, or "" if err is not a ChartError.
func CodeOf(err error) ErrorCode {
	var ce *ChartError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// IsValidationError reports whether err is caused by bad caller input.
func IsValidationError(err error) bool {
	switch CodeOf(err) {
	case CodeInvalidDateTime, CodeInvalidTimezone, CodeInvalidCoordinates, CodeAscendantComputation:
		return true
	default:
		return false
	}
}
