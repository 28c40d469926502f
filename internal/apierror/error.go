package apierror

import "net/http"

// Error tags rendered by the API.
const (
	TagInvalidParameters   = "invalid-parameters"
	TagNotFound            = "not-found"
	TagAlreadyExists       = "already-exists"
	TagConstraintViolation = "constraint-violation"
)

type (
	// An APIError represents the error format that can be rendered by the itemstore server.
	APIError struct {
		HTTPCode   int `json:"-"`
		FieldError err `json:"error"`
	}

	err struct {
		Tag     string `json:"tag,omitempty"`
		Message string `json:"message"`
	}
)

// StatusCode returns the HTTP status code.
func StatusCode(err error) int {
	if apierr, ok := err.(*APIError); ok && apierr.HTTPCode != 0 {
		return apierr.HTTPCode
	}
	return http.StatusInternalServerError
}

// NewWithTagCode returns a new APIError with the given code, tag and message.
func NewWithTagCode(code int, tag, message string) *APIError {
	return &APIError{HTTPCode: code, FieldError: err{Tag: tag, Message: message}}
}

// InvalidParameters returns a 400 error.
func InvalidParameters(message string) *APIError {
	return NewWithTagCode(http.StatusBadRequest, TagInvalidParameters, message)
}

// NotFound returns a 404 error.
func NotFound(message string) *APIError {
	return NewWithTagCode(http.StatusNotFound, TagNotFound, message)
}

// AlreadyExists returns a 409 error.
func AlreadyExists(message string) *APIError {
	return NewWithTagCode(http.StatusConflict, TagAlreadyExists, message)
}

// ConstraintViolation returns a 400 error.
func ConstraintViolation(message string) *APIError {
	return NewWithTagCode(http.StatusBadRequest, TagConstraintViolation, message)
}

// Tag returns the error tag.
func (e *APIError) Tag() string {
	return e.FieldError.Tag
}

// Error implements error interface.
func (e *APIError) Error() string {
	return e.FieldError.Message
}
