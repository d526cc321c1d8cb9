// internal/domain/session/provider.go
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"github.com/your-org/storefront-backend/internal/pkg/kv"
)

const (
	fallbackLoginMessage    = "Login failed"
	fallbackRegisterMessage = "Something went wrong"
	successMessage          = "success"
)

// Provider verifies credentials and issues the credential token
type Provider interface {
	SignIn(ctx context.Context, req *LoginRequest) (string, error)
	SignUp(ctx context.Context, req *RegisterRequest) (string, error)
}

// RemoteProvider talks to the demo auth API, which answers
// {"message": "success", "token": "..."} on success and
// {"message": "..."} otherwise
type RemoteProvider struct {
	client  *http.Client
	baseURL string
}

// NewRemoteProvider creates a provider rooted at baseURL
func NewRemoteProvider(client *http.Client, baseURL string) *RemoteProvider {
	return &RemoteProvider{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

type authResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// SignIn posts to /auth/signin
func (p *RemoteProvider) SignIn(ctx context.Context, req *LoginRequest) (string, error) {
	return p.post(ctx, "/auth/signin", req, fallbackLoginMessage)
}

// SignUp posts to /auth/signup
func (p *RemoteProvider) SignUp(ctx context.Context, req *RegisterRequest) (string, error) {
	return p.post(ctx, "/auth/signup", req, fallbackRegisterMessage)
}

func (p *RemoteProvider) post(ctx context.Context, path string, body any, fallback string) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", path, err)
	}

	url := p.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request %s: %w", url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: post %s: %v", ErrProviderUnavailable, url, err)
	}
	defer resp.Body.Close()

	var out authResponse
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", ErrProviderUnavailable, url, err)
	}
	decodeErr := json.Unmarshal(data, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := out.Message
		if decodeErr != nil || msg == "" {
			msg = fallback
		}
		return "", &RejectedError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("%w: decode %s: %v", ErrProviderUnavailable, url, decodeErr)
	}
	if out.Message != successMessage || out.Token == "" {
		msg := out.Message
		if msg == "" {
			msg = fallback
		}
		return "", &RejectedError{StatusCode: http.StatusUnauthorized, Message: msg}
	}

	return out.Token, nil
}

// account is what LocalProvider stores per email
type account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// LocalProvider keeps accounts in the key-value store with bcrypt hashes and
// hands out JWT access tokens. Used when no remote auth API is available.
type LocalProvider struct {
	store     kv.Store
	jwt       *auth.JWTManager
	passwords *auth.PasswordManager
	locks     *kv.Locker
}

// NewLocalProvider creates a LocalProvider
func NewLocalProvider(store kv.Store, jwt *auth.JWTManager, passwords *auth.PasswordManager) *LocalProvider {
	return &LocalProvider{
		store:     store,
		jwt:       jwt,
		passwords: passwords,
		locks:     kv.NewLocker(),
	}
}

// SignIn checks the password and issues a token
func (p *LocalProvider) SignIn(ctx context.Context, req *LoginRequest) (string, error) {
	var acc account
	err := kv.GetJSON(ctx, p.store, kv.UserKey(req.Email), &acc)
	if err != nil && !errors.Is(err, kv.ErrNotFound) && !kv.IsCorrupt(err) {
		return "", fmt.Errorf("failed to read account: %w", err)
	}
	if err != nil || p.passwords.VerifyPassword(req.Password, acc.PasswordHash) != nil {
		return "", &RejectedError{StatusCode: http.StatusUnauthorized, Message: "Incorrect email or password"}
	}

	return p.jwt.GenerateAccessToken(acc.ID, acc.Email)
}

// SignUp creates the account and issues a token
func (p *LocalProvider) SignUp(ctx context.Context, req *RegisterRequest) (string, error) {
	key := kv.UserKey(req.Email)
	unlock := p.locks.Lock(key)
	defer unlock()

	_, err := p.store.Get(ctx, key)
	switch {
	case err == nil:
		return "", &RejectedError{StatusCode: http.StatusConflict, Message: "Account Already Exists"}
	case !errors.Is(err, kv.ErrNotFound):
		return "", fmt.Errorf("failed to read account: %w", err)
	}

	hash, err := p.passwords.HashPassword(req.Password)
	if err != nil {
		return "", &RejectedError{StatusCode: http.StatusBadRequest, Message: err.Error()}
	}

	acc := account{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        req.Phone,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := kv.SetJSON(ctx, p.store, key, acc); err != nil {
		return "", fmt.Errorf("failed to save account: %w", err)
	}

	return p.jwt.GenerateAccessToken(acc.ID, acc.Email)
}

var (
	_ Provider = (*RemoteProvider)(nil)
	_ Provider = (*LocalProvider)(nil)
)
