package middleware

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret-do-not-use")
	os.Exit(m.Run())
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("user-123", "sung-jinwoo", false)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "sung-jinwoo", claims.Username)
	assert.False(t, claims.IsAdmin)
}

func TestTokenCarriesAdminFlag(t *testing.T) {
	token, err := GenerateToken("admin-1", "system", true)
	assert.NoError(t, err)

	claims, err := ParseToken(token)
	assert.NoError(t, err)
	assert.True(t, claims.IsAdmin)
}

func TestParseToken_RejectsGarbage(t *testing.T) {
	_, err := ParseToken("not-a-jwt")
	assert.Error(t, err)
}

func TestParseToken_RejectsTamperedSignature(t *testing.T) {
	token, err := GenerateToken("user-123", "sung-jinwoo", false)
	assert.NoError(t, err)

	_, err = ParseToken(token + "x")
	assert.Error(t, err)
}
