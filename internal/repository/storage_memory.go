package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/nikolayk812/rocketcart/internal/domain"
	"github.com/nikolayk812/rocketcart/internal/port"
)

type memoryStorage struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemory returns a process-local storage. Values do not survive restarts.
func NewMemory() port.Storage {
	return &memoryStorage{
		entries: make(map[string][]byte),
	}
}

func (s *memoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	if !ok {
		return nil, fmt.Errorf("key[%s]: %w", key, domain.ErrNotFound)
	}

	return slices.Clone(value), nil
}

func (s *memoryStorage) Set(_ context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = slices.Clone(value)

	return nil
}
