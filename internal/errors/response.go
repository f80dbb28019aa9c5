package errors

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

// ErrorDetail is the wire shape of one error inside an ErrorResponse.
type ErrorDetail struct {
	Message string         `json:"message"`
	Hint    string         `json:"hint,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse is the JSON body returned by HTTP handlers for any error.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// NewErrorResponse converts any error into a response body.
func NewErrorResponse(err error) *ErrorResponse {
	detail := ErrorDetail{Message: "an unexpected error occurred"}
	var ie *InternalError
	if errors.As(err, &ie) {
		detail.Message = ie.message
		detail.Hint = ie.hint
		detail.Details = ie.reportableDetails
	} else if err != nil {
		detail.Message = err.Error()
	}
	return &ErrorResponse{Success: false, Error: detail}
}

// HTTPStatusFromErr maps the error category to an HTTP status code.
func HTTPStatusFromErr(err error) int {
	switch {
	case IsNotFound(err):
		return http.StatusNotFound
	case IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case IsTimeout(err):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
