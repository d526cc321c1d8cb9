package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "storefront-test"},
		JWT: config.JWTConfig{
			Secret:             "0123456789abcdef0123456789abcdef",
			SessionTokenExpiry: time.Hour,
			AccessTokenExpiry:  time.Hour,
		},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
	}
}

func TestJWTManager_SessionToken(t *testing.T) {
	j := NewJWTManager(testConfig())

	token, err := j.GenerateSessionToken("sid-1")
	require.NoError(t, err)

	claims, err := j.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.Equal(t, "storefront-test", claims.Issuer)

	assert.Equal(t, TokenTypeSession, claims.TokenType)
}

func TestJWTManager_AccessToken(t *testing.T) {
	j := NewJWTManager(testConfig())

	token, err := j.GenerateAccessToken("u1", "a@b.com")
	require.NoError(t, err)

	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, "a@b.com", claims.Email)

	_, err = j.ValidateSessionToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsForeignAndExpiredTokens(t *testing.T) {
	cfg := testConfig()
	j := NewJWTManager(cfg)

	other := testConfig()
	other.JWT.Secret = "ffffffffffffffffffffffffffffffff"
	foreign, err := NewJWTManager(other).GenerateSessionToken("sid")
	require.NoError(t, err)
	_, err = j.ValidateSessionToken(foreign)
	assert.Error(t, err)

	cfg.JWT.SessionTokenExpiry = -time.Minute
	expired, err := j.GenerateSessionToken("sid")
	require.NoError(t, err)
	_, err = j.ValidateSessionToken(expired)
	assert.Error(t, err)

	_, err = j.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("abc"))
}

func TestPasswordManager(t *testing.T) {
	p := NewPasswordManager(testConfig())

	hash, err := p.HashPassword("Secret12")
	require.NoError(t, err)
	assert.NoError(t, p.VerifyPassword("Secret12", hash))
	assert.Error(t, p.VerifyPassword("Secret13", hash))

	for _, bad := range []string{"secret12", "Sec12", "Secret12345", "SECRET12", "Secret_1"} {
		_, err := p.HashPassword(bad)
		assert.Error(t, err, bad)
	}
}
