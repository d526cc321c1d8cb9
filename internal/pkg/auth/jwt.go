// internal/pkg/auth/jwt.go
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/your-org/storefront-backend/internal/config"
)

// Token types
const (
	TokenTypeSession = "session"
	TokenTypeAccess  = "access"
)

// Claims represents the JWT claims
type Claims struct {
	SessionID string `json:"sid,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	Email     string `json:"email,omitempty"`
	TokenType string `json:"token_type"` // "session" or "access"
	jwt.RegisteredClaims
}

// JWTManager handles JWT operations
type JWTManager struct {
	config *config.Config
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(cfg *config.Config) *JWTManager {
	return &JWTManager{
		config: cfg,
	}
}

// GenerateSessionToken signs the token that identifies a storefront session
func (j *JWTManager) GenerateSessionToken(sessionID string) (string, error) {
	return j.sign(&Claims{
		SessionID: sessionID,
		TokenType: TokenTypeSession,
	}, "session:"+sessionID, j.config.JWT.SessionTokenExpiry)
}

// GenerateAccessToken generates the credential token handed out by the local
// auth provider
func (j *JWTManager) GenerateAccessToken(userID, email string) (string, error) {
	return j.sign(&Claims{
		UserID:    userID,
		Email:     email,
		TokenType: TokenTypeAccess,
	}, "user:"+userID, j.config.JWT.AccessTokenExpiry)
}

func (j *JWTManager) sign(claims *Claims, subject string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    j.config.App.Name,
		Subject:   subject,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.JWT.Secret))
}

// ValidateToken validates and parses a JWT token
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.config.JWT.Secret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if claims.TokenType == "" {
		return nil, fmt.Errorf("token type not specified")
	}

	return claims, nil
}

// ValidateSessionToken validates a session token specifically
func (j *JWTManager) ValidateSessionToken(tokenString string) (*Claims, error) {
	claims, err := j.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != TokenTypeSession || claims.SessionID == "" {
		return nil, fmt.Errorf("invalid token type: expected session, got %s", claims.TokenType)
	}

	return claims, nil
}

// ExtractTokenFromHeader extracts JWT token from Authorization header
func ExtractTokenFromHeader(authHeader string) string {
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}
	return ""
}
