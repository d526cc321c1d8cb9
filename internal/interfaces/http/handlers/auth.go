// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/session"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// AuthHandler handles login, registration and the session status
type AuthHandler struct {
	sessions *session.Service
	log      *logrus.Entry
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions *session.Service, log *logrus.Entry) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		log:      log,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req session.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	status, err := h.sessions.Register(c.Request.Context(), middleware.GetSessionID(c), &req)
	if err != nil {
		h.providerError(c, err, "Registration failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "success",
		"data":    status,
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req session.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	status, err := h.sessions.Login(c.Request.Context(), middleware.GetSessionID(c), &req)
	if err != nil {
		h.providerError(c, err, "Login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success",
		"data":    status,
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		serverError(c, h.log, "Failed to log out", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Logged out successfully",
		"redirect": session.RedirectLogin,
	})
}

// Status handles GET /session
func (h *AuthHandler) Status(c *gin.Context) {
	status, err := h.sessions.Status(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		serverError(c, h.log, "Failed to read session", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session retrieved successfully",
		"data":    status,
	})
}

// providerError reports a provider rejection with the provider's message
func (h *AuthHandler) providerError(c *gin.Context, err error, msg string) {
	if rejected, ok := session.IsRejected(err); ok {
		status := rejected.StatusCode
		if status < 400 || status >= 500 {
			status = http.StatusUnauthorized
		}
		c.JSON(status, gin.H{
			"error": rejected.Message,
		})
		return
	}

	if errors.Is(err, session.ErrProviderUnavailable) {
		h.log.WithError(err).WithField("session_id", middleware.GetSessionID(c)).Error(msg)
		c.JSON(http.StatusBadGateway, gin.H{
			"error": msg,
		})
		return
	}

	serverError(c, h.log, msg, err)
}
