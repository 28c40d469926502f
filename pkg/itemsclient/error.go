package itemsclient

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// An Error reprensents an HTTP error returned by itemstore server.
type Error struct {
	StatusCode int
	Err        struct {
		Tag     string `json:"tag"`
		Message string `json:"message"`
	} `json:"error"`
}

func parseError(r io.Reader, code int) error {
	var apierr Error
	dec := json.NewDecoder(r)
	if err := dec.Decode(&apierr); err != nil {
		// Not an API error (e.g. reverse proxy page).
		apierr.Err.Message = http.StatusText(code)
	}
	apierr.StatusCode = code
	return &apierr
}

func (e *Error) Error() string {
	return e.Err.Message
}

// IsNotFound returns true if err is a 404 returned by the server.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsAlreadyExists returns true if err is a 409 returned by the server.
func IsAlreadyExists(err error) bool {
	return hasStatus(err, http.StatusConflict)
}

func hasStatus(err error, code int) bool {
	var apierr *Error
	return errors.As(err, &apierr) && apierr.StatusCode == code
}
