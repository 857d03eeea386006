// Package credentials keeps the two tokens issued at sign-in: the short-lived
// access token lives in a cookie-like Jar that honours expiry, the refresh
// token in a persistent Storage.
package credentials

import (
	"errors"
	"fmt"
	"time"
)

const (
	// AccessTokenName is the jar entry holding the access token
	AccessTokenName = "accessToken"
	// RefreshTokenKey is the storage key holding the refresh token
	RefreshTokenKey = "refreshToken"
)

// ErrNotFound is returned by Storage when a key is absent
var ErrNotFound = errors.New("credentials: not found")

// Reader exposes the stored tokens without allowing changes
type Reader interface {
	AccessToken() string
	RefreshToken() (string, error)
}

// Store reads and writes both credentials
type Store interface {
	Reader
	SetAccessToken(token string)
	DeleteAccessToken()
	SetRefreshToken(token string) error
	DeleteRefreshToken() error
}

// Vault combines a Jar and a Storage into a Store
type Vault struct {
	Cookies *Jar
	Storage Storage
}

// NewVault creates a vault over storage with a fresh jar
func NewVault(storage Storage) *Vault {
	return &Vault{Cookies: NewJar(), Storage: storage}
}

// AccessToken returns the access token, or "" when absent or expired
func (v *Vault) AccessToken() string {
	token, _ := v.Cookies.Get(AccessTokenName)
	return token
}

// SetAccessToken stores token until the expiry recorded in its claims
func (v *Vault) SetAccessToken(token string) {
	v.Cookies.Set(AccessTokenName, token, v.Cookies.ExpiryOf(token))
}

// DeleteAccessToken overwrites the access token with an already expired value
func (v *Vault) DeleteAccessToken() {
	v.Cookies.Set(AccessTokenName, "", time.Unix(0, 0))
}

// RefreshToken returns the persisted refresh token, or "" when none is stored
func (v *Vault) RefreshToken() (string, error) {
	token, err := v.Storage.GetItem(RefreshTokenKey)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read refresh token: %w", err)
	}
	return token, nil
}

// SetRefreshToken persists token
func (v *Vault) SetRefreshToken(token string) error {
	if err := v.Storage.SetItem(RefreshTokenKey, token); err != nil {
		return fmt.Errorf("write refresh token: %w", err)
	}
	return nil
}

// DeleteRefreshToken removes the persisted refresh token
func (v *Vault) DeleteRefreshToken() error {
	if err := v.Storage.RemoveItem(RefreshTokenKey); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

// HasAny reports whether either credential is present. It says nothing about
// whether the backend still accepts them.
func HasAny(r Reader) bool {
	if r.AccessToken() != "" {
		return true
	}
	refresh, err := r.RefreshToken()
	return err == nil && refresh != ""
}
