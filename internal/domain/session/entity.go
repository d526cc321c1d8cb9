// internal/domain/session/entity.go
package session

import (
	"errors"
	"fmt"
)

var (
	ErrNotLoggedIn       = errors.New("not logged in")
	ErrNoDashboardAccess = errors.New("dashboard access required")
	// ErrProviderUnavailable is returned when the auth provider cannot be
	// reached or answers with something unreadable
	ErrProviderUnavailable = errors.New("auth provider unavailable")
)

// Redirect targets reported by the gate
const (
	RedirectLogin = "/login"
	RedirectHome  = "/home"
)

// LoginRequest represents the login form
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents the registration form
type RegisterRequest struct {
	Name       string `json:"name" binding:"required,min=3,max=10"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone" binding:"required,egphone"`
	Password   string `json:"password" binding:"required,shoppassword"`
	RePassword string `json:"rePassword" binding:"required,eqfield=Password"`
}

// Status describes what the gate knows about a session
type Status struct {
	LoggedIn        bool   `json:"logged_in"`
	DashboardAccess bool   `json:"dashboard_access"`
	Email           string `json:"email,omitempty"`
}

// RejectedError is returned when the auth provider refuses the credentials.
// Message is what the provider said, suitable to show the user.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("auth rejected (%d): %s", e.StatusCode, e.Message)
}

// IsRejected reports whether err is a *RejectedError and returns it
func IsRejected(err error) (*RejectedError, bool) {
	var re *RejectedError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
