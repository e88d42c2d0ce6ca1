package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusForSentinels(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{ErrValidation, http.StatusBadRequest},
		{ErrAlreadyClaimed, http.StatusConflict},
		{ErrInsufficientPoints, http.StatusBadRequest},
		{ErrVerificationFailed, http.StatusUnprocessableEntity},
		{ErrInvalidTransition, http.StatusConflict},
		{ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("unexpected"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.status, StatusFor(c.err), c.err.Error())
	}
}

func TestStatusForWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("claim failed: %w", ErrAlreadyClaimed)
	assert.Equal(t, http.StatusConflict, StatusFor(wrapped))
}

func TestStatusForApiError(t *testing.T) {
	apiErr := New("nope", http.StatusTeapot)
	assert.Equal(t, http.StatusTeapot, StatusFor(apiErr))
	assert.Equal(t, "nope", apiErr.Error())
}
