// internal/pkg/auth/password.go
package auth

import (
	"fmt"
	"regexp"

	"github.com/your-org/storefront-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// PasswordPattern is the shop's password rule: one capital letter followed
// by 6 to 8 lowercase letters or digits
var PasswordPattern = regexp.MustCompile(`^[A-Z][a-z0-9]{6,8}$`)

// PasswordManager handles password operations
type PasswordManager struct {
	config *config.Config
}

// NewPasswordManager creates a new password manager
func NewPasswordManager(cfg *config.Config) *PasswordManager {
	return &PasswordManager{
		config: cfg,
	}
}

// HashPassword hashes a password using bcrypt
func (p *PasswordManager) HashPassword(password string) (string, error) {
	if err := p.ValidatePassword(password); err != nil {
		return "", fmt.Errorf("password validation failed: %w", err)
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.config.Security.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// VerifyPassword verifies a password against its hash
func (p *PasswordManager) VerifyPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// ValidatePassword checks the password against PasswordPattern
func (p *PasswordManager) ValidatePassword(password string) error {
	if !PasswordPattern.MatchString(password) {
		return fmt.Errorf("password must start with an uppercase letter followed by 6 to 8 lowercase letters or digits")
	}
	return nil
}
