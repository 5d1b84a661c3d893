package credential

import (
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "maildash"

// Well-known credential keys for the dashboard session.
const (
	KeyAccessToken  = "access-token"
	KeyRefreshToken = "refresh-token"
)

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/maildash/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("maildash-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Get retrieves a credential value by key from the system keyring.
func Get(key string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a credential value by key in the system keyring.
func Set(key string, value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key from the system keyring. A
// missing key is not an error.
func Delete(key string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	if err := ring.Remove(key); err != nil && err != keyring.ErrKeyNotFound {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}

// Session adapts the keyring to the api.TokenStore contract.
type Session struct{}

// AccessToken returns the stored access token, or "" when absent.
func (Session) AccessToken() string {
	token, err := Get(KeyAccessToken)
	if err != nil {
		return ""
	}
	return token
}

// RefreshToken returns the stored refresh token, or "" when absent.
func (Session) RefreshToken() string {
	token, err := Get(KeyRefreshToken)
	if err != nil {
		return ""
	}
	return token
}

// SetTokens stores a freshly issued token pair. An empty refresh
// token leaves the stored one untouched.
func (Session) SetTokens(access, refresh string) error {
	if err := Set(KeyAccessToken, access); err != nil {
		return err
	}
	if refresh != "" {
		return Set(KeyRefreshToken, refresh)
	}
	return nil
}

// Clear drops both tokens, ending the session.
func (Session) Clear() {
	_ = Delete(KeyAccessToken)
	_ = Delete(KeyRefreshToken)
}
