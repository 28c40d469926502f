package apierror_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/mdouchement/itemstore/internal/apierror"
	"github.com/stretchr/testify/assert"
)

func TestAPIError(t *testing.T) {
	err := apierror.NewWithTagCode(0, "", "some message")

	assert.Equal(t, "some message", err.Error())
	assert.Equal(t, http.StatusInternalServerError, apierror.StatusCode(err))
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, apierror.StatusCode(apierror.InvalidParameters("bad")))
	assert.Equal(t, http.StatusNotFound, apierror.StatusCode(apierror.NotFound("missing")))
	assert.Equal(t, http.StatusConflict, apierror.StatusCode(apierror.AlreadyExists("dup")))
	assert.Equal(t, http.StatusBadRequest, apierror.StatusCode(apierror.ConstraintViolation("check")))
	assert.Equal(t, http.StatusInternalServerError, apierror.StatusCode(errors.New("boom")))
}

func TestAPIError_JSON(t *testing.T) {
	payload, err := json.Marshal(apierror.NotFound("item 42 not found"))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"error":{"tag":"not-found","message":"item 42 not found"}}`, string(payload))

	payload, err = json.Marshal(apierror.NewWithTagCode(http.StatusTeapot, "", "oops"))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"error":{"message":"oops"}}`, string(payload))
}
