// internal/interfaces/http/handlers/response.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// invalidRequest answers a failed bind with the per-field messages
func invalidRequest(c *gin.Context, err error) {
	body := gin.H{
		"error":   "Invalid request data",
		"details": err.Error(),
	}
	if fields := middleware.FormatValidationErrors(err); fields != nil {
		body["fields"] = fields
	}
	c.JSON(http.StatusBadRequest, body)
}

// serverError logs err and answers with msg. A request that ran out of time
// is reported as a gateway timeout.
func serverError(c *gin.Context, log *logrus.Entry, msg string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
		msg = "Request timeout"
	}

	log.WithError(err).WithFields(logrus.Fields{
		"request_id": c.GetString(middleware.RequestIDKey),
		"session_id": middleware.GetSessionID(c),
		"path":       c.FullPath(),
	}).Error(msg)

	c.JSON(status, gin.H{
		"error": msg,
	})
}
