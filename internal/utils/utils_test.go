package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("secret", "user-1", "ADMIN", 5)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), tok.Exp, 5*time.Second)

	claims, err := ParseAccessToken("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "ADMIN", claims.Role)
}

func TestParseAccessToken_Rejects(t *testing.T) {
	tok, err := NewAccessToken("secret", "user-1", "USER", 5)
	require.NoError(t, err)
	_, err = ParseAccessToken("other", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewAccessToken("secret", "user-1", "USER", -1)
	require.NoError(t, err)
	_, err = ParseAccessToken("secret", expired.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u", "role": "ADMIN"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseAccessToken("secret", none)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseAccessToken("secret", "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshToken(t *testing.T) {
	a, err := NewRefreshToken(7)
	require.NoError(t, err)
	b, err := NewRefreshToken(7)
	require.NoError(t, err)
	assert.Len(t, a.Raw, 96)
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.Len(t, HashRefreshRaw(a.Raw), 64)
	assert.Equal(t, HashRefreshRaw(a.Raw), HashRefreshRaw(a.Raw))
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "nope"))

	_, err = HashPassword("", 4)
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestPasswordCost(t *testing.T) {
	assert.Equal(t, 4, PasswordCost(4))
	assert.Equal(t, 12, PasswordCost(12))
	assert.Equal(t, bcrypt.DefaultCost, PasswordCost(0))
	assert.Equal(t, bcrypt.DefaultCost, PasswordCost(-1))
	assert.Equal(t, bcrypt.DefaultCost, PasswordCost(bcrypt.MaxCost+1))

	hash, err := HashPassword("s3cret", 0)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)

	ok, rehash := CheckPassword(hash, "s3cret", 4)
	assert.True(t, ok)
	assert.False(t, rehash)

	ok, rehash = CheckPassword(hash, "s3cret", 5)
	assert.True(t, ok)
	assert.True(t, rehash)

	ok, rehash = CheckPassword(hash, "nope", 5)
	assert.False(t, ok)
	assert.False(t, rehash)
}
