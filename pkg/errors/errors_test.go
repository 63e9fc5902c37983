package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorUnwrapsSentinel(t *testing.T) {
	err := NotFound("article not found")

	assert.True(t, stderrors.Is(err, ErrNotFound))
	assert.False(t, stderrors.Is(err, ErrForbidden))
	assert.Equal(t, "article not found", err.Error())
	assert.Equal(t, "NOT_FOUND", err.Code)
}

func TestAppErrorMessageIncludesWrappedError(t *testing.T) {
	cause := stderrors.New("dial tcp: connection refused")
	err := InternalServer("failed to reach database", cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.Contains(t, err.Error(), "failed to reach database")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestInvalidCredentialsIsDistinctFromUnauthorized(t *testing.T) {
	err := InvalidCredentials()

	assert.True(t, stderrors.Is(err, ErrInvalidCredentials))
	assert.False(t, stderrors.Is(err, ErrUnauthorized))
}
