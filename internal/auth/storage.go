package auth

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// ErrNotFound is returned when no password is stored for a user
var ErrNotFound = errors.New("no stored password")

// StorageBackend stores server passwords by username
type StorageBackend interface {
	Save(username, password string) error
	Load(username string) (string, error)
	Delete(username string) error
	Name() string
}

// KeyringStorage keeps passwords in the system keyring
type KeyringStorage struct {
	serviceName string
}

// NewKeyringStorage creates a keyring storage backend
func NewKeyringStorage(serviceName string) *KeyringStorage {
	return &KeyringStorage{
		serviceName: serviceName,
	}
}

func (s *KeyringStorage) Save(username, password string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if err := keyring.Set(s.serviceName, username, password); err != nil {
		return fmt.Errorf("save password for %s: %w", username, err)
	}
	return nil
}

func (s *KeyringStorage) Load(username string) (string, error) {
	password, err := keyring.Get(s.serviceName, username)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%w for %s", ErrNotFound, username)
		}
		return "", fmt.Errorf("load password for %s: %w", username, err)
	}
	return password, nil
}

func (s *KeyringStorage) Delete(username string) error {
	if err := keyring.Delete(s.serviceName, username); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("%w for %s", ErrNotFound, username)
		}
		return fmt.Errorf("delete password for %s: %w", username, err)
	}
	return nil
}

func (s *KeyringStorage) Name() string {
	return "system-keyring"
}
