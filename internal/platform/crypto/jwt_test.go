package crypto

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken_RoundTrip(t *testing.T) {
	token, err := GenerateToken("s3cret", "cli", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, "cli", claims.Sub)
	assert.Equal(t, "shelf", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestGenerateToken_EmptySecret(t *testing.T) {
	_, err := GenerateToken("", "cli", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("s3cret", "cli", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other", token)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken("s3cret", "cli", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("s3cret", token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseToken_RejectsNoneAlgorithm(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Sub:              "cli",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "shelf"},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken("s3cret", token)
	assert.Error(t, err)
}
