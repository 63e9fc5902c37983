package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdefghijklmnopqrstuvwxyz"

func TestCodecSignAndVerify(t *testing.T) {
	codec := NewCodec(testSecret, 15*time.Minute, 7*24*time.Hour)

	token, err := codec.Sign("user-123", "reader@example.com", RoleUser)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	res := codec.Verify(token)
	require.True(t, res.Valid)
	require.NotNil(t, res.Claims)
	assert.Equal(t, "user-123", res.Claims.UserID)
	assert.Equal(t, "reader@example.com", res.Claims.Email)
	assert.Equal(t, string(RoleUser), res.Claims.Role)
	assert.Empty(t, res.Reason)
}

func TestCodecVerifyExpired(t *testing.T) {
	codec := NewCodec(testSecret, -time.Minute, 7*24*time.Hour)

	token, err := codec.Sign("user-123", "reader@example.com", RoleUser)
	require.NoError(t, err)

	res := codec.Verify(token)
	assert.False(t, res.Valid)
	assert.Nil(t, res.Claims)
	assert.Equal(t, FailureExpired, res.Reason)
}

func TestCodecVerifyWrongKey(t *testing.T) {
	signer := NewCodec(testSecret, 15*time.Minute, 7*24*time.Hour)
	verifier := NewCodec("another-secret-another-secret-another", 15*time.Minute, 7*24*time.Hour)

	token, err := signer.Sign("user-123", "reader@example.com", RoleUser)
	require.NoError(t, err)

	res := verifier.Verify(token)
	assert.False(t, res.Valid)
	assert.Equal(t, FailureSignatureInvalid, res.Reason)
}

func TestCodecVerifyMalformed(t *testing.T) {
	codec := NewCodec(testSecret, 15*time.Minute, 7*24*time.Hour)

	for _, input := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJIUzI1NiJ9"} {
		res := codec.Verify(input)
		assert.False(t, res.Valid, "input %q", input)
		assert.Equal(t, FailureMalformed, res.Reason, "input %q", input)
	}
}

func TestCodecRejectsRefreshTokenAsAccess(t *testing.T) {
	codec := NewCodec(testSecret, 15*time.Minute, 7*24*time.Hour)

	refresh, err := codec.SignRefresh("user-123", "reader@example.com", RoleUser)
	require.NoError(t, err)

	res := codec.Verify(refresh)
	assert.False(t, res.Valid)
	assert.Equal(t, FailureMalformed, res.Reason)
}

func TestCodecVerifyRefresh(t *testing.T) {
	codec := NewCodec(testSecret, 15*time.Minute, 7*24*time.Hour)

	refresh, err := codec.SignRefresh("user-123", "reader@example.com", RoleEditor)
	require.NoError(t, err)

	res := codec.VerifyRefresh(refresh)
	require.True(t, res.Valid)
	assert.Equal(t, string(RoleEditor), res.Claims.Role)

	access, err := codec.Sign("user-123", "reader@example.com", RoleEditor)
	require.NoError(t, err)

	res = codec.VerifyRefresh(access)
	assert.False(t, res.Valid)
	assert.Equal(t, FailureMalformed, res.Reason)
}
