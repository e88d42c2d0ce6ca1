package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidateTokenPair(t *testing.T) {
	accessToken, refreshToken, err := GenerateTokenPair("user@example.com", testSecret, 42)
	require.NoError(t, err)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, refreshToken)

	claims, err := ValidateAndGetClaims(accessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", claims["email"])
	assert.Equal(t, float64(42), claims["id"])
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	accessToken, _, err := GenerateTokenPair("user@example.com", testSecret, 42)
	require.NoError(t, err)

	_, err = ValidateAndGetClaims(accessToken, "another-secret")
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := ValidateAndGetClaims("not.a.token", testSecret)
	assert.Error(t, err)
}
