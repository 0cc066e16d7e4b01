package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, ErrNotFound.HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, ErrBadRequest.HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, ErrNoChanges.HTTPStatus())
	assert.Equal(t, http.StatusUnauthorized, ErrUnauthorized.HTTPStatus())
	assert.Equal(t, http.StatusForbidden, ErrForbidden.HTTPStatus())
	assert.Equal(t, http.StatusConflict, ErrConflict.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, ErrInternal.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, ErrorCode(0).HTTPStatus())
}

func TestSentinelChecks(t *testing.T) {
	assert.True(t, IsNoChanges(NoChanges()))
	assert.False(t, IsNoChanges(NotFound("appointment", nil)))
	assert.False(t, IsNoChanges(nil))

	assert.True(t, IsNotFound(NotFound("appointment", nil)))
	assert.False(t, IsNotFound(NoChanges()))

	// Wrapped errors still match.
	wrapped := fmt.Errorf("update failed: %w", NoChanges())
	assert.True(t, IsNoChanges(wrapped))
}

func TestErrorMessage(t *testing.T) {
	err := NotFound("driver", nil)
	assert.Equal(t, "driver not found", err.Error())

	withCause := BadRequest("invalid spreadsheet", fmt.Errorf("zip: not a valid zip file"))
	assert.Contains(t, withCause.Error(), "invalid spreadsheet")
	assert.Contains(t, withCause.Error(), "zip")
}
