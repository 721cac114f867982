package crypto

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken_WithJTI(t *testing.T) {
	token, jti, err := GenerateToken("test-secret", "user-1", "USER", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Len(t, jti, 32)

	claims, err := ParseToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, "user-1", claims.Sub)
	assert.Equal(t, "USER", claims.Role)
	assert.Equal(t, "mediatracker", claims.Issuer)
}

func TestGenerateToken_UniqueJTIs(t *testing.T) {
	_, jti1, err1 := GenerateToken("s", "u", "USER", time.Hour)
	_, jti2, err2 := GenerateToken("s", "u", "USER", time.Hour)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.NotEqual(t, jti1, jti2)
}

func TestParseToken(t *testing.T) {
	secret := "test-secret-key"

	t.Run("invalid signature", func(t *testing.T) {
		token, _, err := GenerateToken("wrong-secret", "u", "USER", time.Hour)
		require.NoError(t, err)

		claims, err := ParseToken(secret, token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("expired token", func(t *testing.T) {
		c := Claims{
			Sub:  "u",
			Role: "USER",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "mediatracker",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
		require.NoError(t, err)

		claims, err := ParseToken(secret, token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		c := Claims{
			Sub: "u",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "mediatracker",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, c).SignedString([]byte(secret))
		require.NoError(t, err)

		_, err = ParseToken(secret, token)
		assert.Error(t, err)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		c := Claims{
			Sub: "u",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
		require.NoError(t, err)

		_, err = ParseToken(secret, token)
		assert.Error(t, err)
	})

	t.Run("malformed token", func(t *testing.T) {
		claims, err := ParseToken(secret, "not.a.valid.token")
		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}

func TestHashToken(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Str0ng#Pass")
	require.NoError(t, err)
	assert.NotEqual(t, "Str0ng#Pass", hash)

	assert.True(t, VerifyPassword(hash, "Str0ng#Pass"))
	assert.False(t, VerifyPassword(hash, "wrongpassword"))

	hash2, err := HashPassword("Str0ng#Pass")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}
