// Package kv is the per-session key-value storage the storefront keeps its
// state in. Every value is a JSON document rewritten in full on each change.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when the key holds no value
var ErrNotFound = errors.New("kv: key not found")

// Store is implemented by the Redis client and by MemoryStore
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, keys ...string) error
}

// Fixed key names inside a session namespace
const (
	KeyCart            = "cart"
	KeyCheckout        = "checkout"
	KeySeenProducts    = "seenProducts"
	KeyAllProducts     = "allProducts"
	KeyOrders          = "orders"
	KeyUserToken       = "userToken"
	KeyUserEmail       = "userEmail"
	KeyDashboardAccess = "dashboardAccess"
)

// SessionKey namespaces name under the given session
func SessionKey(sessionID, name string) string {
	return fmt.Sprintf("storefront:session:%s:%s", sessionID, name)
}

// UserKey is where the local auth provider keeps an account
func UserKey(email string) string {
	return "storefront:user:" + strings.ToLower(strings.TrimSpace(email))
}

// GetJSON decodes the value stored at key into dest.
// A missing key yields ErrNotFound; undecodable data yields a *CorruptError.
func GetJSON(ctx context.Context, s Store, key string, dest any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return &CorruptError{Key: key, Err: err}
	}
	return nil
}

// SetJSON encodes value and writes it to key
func SetJSON(ctx context.Context, s Store, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv: encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, data); err != nil {
		return fmt.Errorf("kv: write %s: %w", key, err)
	}
	return nil
}

// CorruptError reports a stored value that could not be decoded
type CorruptError struct {
	Key string
	Err error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("kv: corrupt value at %s: %v", e.Key, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// IsCorrupt reports whether err is a *CorruptError
func IsCorrupt(err error) bool {
	var ce *CorruptError
	return errors.As(err, &ce)
}
