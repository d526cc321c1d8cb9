// internal/interfaces/http/middleware/session.go
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/session"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

const (
	// SessionHeader carries the session token on requests and responses
	SessionHeader = "X-Session-Token"
	// SessionCookie carries the same token for browser clients
	SessionCookie = "session_token"
	// SessionIDKey is the gin context key holding the session id
	SessionIDKey = "session_id"
)

// Gate answers the two questions route guards ask about a session
type Gate interface {
	IsLoggedIn(ctx context.Context, sessionID string) (bool, error)
	HasDashboardAccess(ctx context.Context, sessionID string) (bool, error)
}

// Session resolves the request's session from its token. A missing or
// invalid token starts a new session; the new token is returned in both the
// header and the cookie.
func Session(jwtManager *auth.JWTManager, cfg *config.Config, log *logrus.Entry) gin.HandlerFunc {
	maxAge := int(cfg.JWT.SessionTokenExpiry.Seconds())

	return func(c *gin.Context) {
		token := c.GetHeader(SessionHeader)
		if token == "" {
			token, _ = c.Cookie(SessionCookie)
		}
		if token == "" {
			token = auth.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		}

		if token != "" {
			if claims, err := jwtManager.ValidateSessionToken(token); err == nil {
				c.Set(SessionIDKey, claims.SessionID)
				c.Next()
				return
			}
		}

		sessionID := uuid.NewString()
		token, err := jwtManager.GenerateSessionToken(sessionID)
		if err != nil {
			log.WithError(err).Error("Failed to issue session token")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to start session",
			})
			return
		}

		c.Header(SessionHeader, token)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, token, maxAge, "/", "", cfg.Security.CookieSecure, true)
		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

// GetSessionID returns the session id set by Session
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

// RequireLogin rejects sessions without a stored credential token
func RequireLogin(gate Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := gate.IsLoggedIn(c.Request.Context(), GetSessionID(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to read session",
			})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    session.ErrNotLoggedIn.Error(),
				"redirect": session.RedirectLogin,
			})
			return
		}
		c.Next()
	}
}

// RequireDashboardAccess rejects logged-in sessions without the dashboard flag.
// It must run after RequireLogin.
func RequireDashboardAccess(gate Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := gate.HasDashboardAccess(c.Request.Context(), GetSessionID(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to read session",
			})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    session.ErrNoDashboardAccess.Error(),
				"redirect": session.RedirectHome,
			})
			return
		}
		c.Next()
	}
}
