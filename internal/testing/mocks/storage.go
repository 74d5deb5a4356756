package mocks

import (
	"fmt"
	"sync"

	"github.com/dl-alexandre/chspool/internal/auth"
)

// MockStorage is an in-memory auth.StorageBackend
type MockStorage struct {
	mu        sync.Mutex
	passwords map[string]string

	// Err, when set, is returned by every operation
	Err error
}

// NewMockStorage creates an empty storage
func NewMockStorage() *MockStorage {
	return &MockStorage{passwords: make(map[string]string)}
}

func (s *MockStorage) Save(username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.passwords[username] = password
	return nil
}

func (s *MockStorage) Load(username string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	password, ok := s.passwords[username]
	if !ok {
		return "", fmt.Errorf("%w for %s", auth.ErrNotFound, username)
	}
	return password, nil
}

func (s *MockStorage) Delete(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.passwords[username]; !ok {
		return fmt.Errorf("%w for %s", auth.ErrNotFound, username)
	}
	delete(s.passwords, username)
	return nil
}

func (s *MockStorage) Name() string {
	return "mock"
}

var _ auth.StorageBackend = (*MockStorage)(nil)
