// internal/domain/session/service.go
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/pkg/kv"
)

const accessGranted = "true"

// Service is the session gate. A session counts as logged in while a
// credential token is stored for it; the token itself is never inspected.
type Service struct {
	kv          kv.Store
	provider    Provider
	adminEmails map[string]bool
	log         *logrus.Entry
}

// NewService creates a new session service. Logins with an email in
// adminEmails are granted dashboard access.
func NewService(store kv.Store, provider Provider, adminEmails []string, log *logrus.Entry) *Service {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		if e = normalizeEmail(e); e != "" {
			admins[e] = true
		}
	}
	return &Service{kv: store, provider: provider, adminEmails: admins, log: log}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsLoggedIn reports whether a credential token is stored for the session
func (s *Service) IsLoggedIn(ctx context.Context, sessionID string) (bool, error) {
	return s.present(ctx, kv.SessionKey(sessionID, kv.KeyUserToken))
}

// HasDashboardAccess reports whether the session carries the dashboard flag
func (s *Service) HasDashboardAccess(ctx context.Context, sessionID string) (bool, error) {
	v, err := s.kv.Get(ctx, kv.SessionKey(sessionID, kv.KeyDashboardAccess))
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read dashboard access: %w", err)
	}
	return string(v) == accessGranted, nil
}

// Status returns the gate state of the session
func (s *Service) Status(ctx context.Context, sessionID string) (*Status, error) {
	loggedIn, err := s.IsLoggedIn(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	st := &Status{LoggedIn: loggedIn}
	if !loggedIn {
		return st, nil
	}

	if st.DashboardAccess, err = s.HasDashboardAccess(ctx, sessionID); err != nil {
		return nil, err
	}
	email, err := s.kv.Get(ctx, kv.SessionKey(sessionID, kv.KeyUserEmail))
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return nil, fmt.Errorf("failed to read user email: %w", err)
	}
	st.Email = string(email)
	return st, nil
}

// Login signs in with the provider and stores the returned token
func (s *Service) Login(ctx context.Context, sessionID string, req *LoginRequest) (*Status, error) {
	token, err := s.provider.SignIn(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, sessionID, req.Email, token)
}

// Register signs up with the provider; the new account is logged in
func (s *Service) Register(ctx context.Context, sessionID string, req *RegisterRequest) (*Status, error) {
	token, err := s.provider.SignUp(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, sessionID, req.Email, token)
}

// Logout removes the token and everything derived from it
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	err := s.kv.Del(ctx,
		kv.SessionKey(sessionID, kv.KeyUserToken),
		kv.SessionKey(sessionID, kv.KeyUserEmail),
		kv.SessionKey(sessionID, kv.KeyDashboardAccess),
	)
	if err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	s.log.WithField("session_id", sessionID).Info("User logged out")
	return nil
}

func (s *Service) establish(ctx context.Context, sessionID, email, token string) (*Status, error) {
	email = normalizeEmail(email)

	if err := s.kv.Set(ctx, kv.SessionKey(sessionID, kv.KeyUserToken), []byte(token)); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}
	if err := s.kv.Set(ctx, kv.SessionKey(sessionID, kv.KeyUserEmail), []byte(email)); err != nil {
		return nil, fmt.Errorf("failed to store user email: %w", err)
	}

	accessKey := kv.SessionKey(sessionID, kv.KeyDashboardAccess)
	admin := s.adminEmails[email]
	var err error
	if admin {
		err = s.kv.Set(ctx, accessKey, []byte(accessGranted))
	} else {
		err = s.kv.Del(ctx, accessKey)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to store dashboard access: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"session_id":       sessionID,
		"email":            email,
		"dashboard_access": admin,
	}).Info("User logged in")

	return &Status{LoggedIn: true, DashboardAccess: admin, Email: email}, nil
}

func (s *Service) present(ctx context.Context, key string) (bool, error) {
	v, err := s.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return len(v) > 0, nil
}
