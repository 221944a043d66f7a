// Package memory keeps the snapshot in process memory. It backs tests and
// the "memory" store backend.
package memory

import (
	"context"
	"sync"

	"github.com/lalith-99/beans/internal/models"
	"github.com/lalith-99/beans/internal/repository"
)

// SnapshotStore holds the last saved snapshot in encoded form, so callers
// never share pointers with what Load returns.
type SnapshotStore struct {
	mu    sync.Mutex
	blob  []byte
	saves int
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

func (s *SnapshotStore) Load(_ context.Context) (*models.Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blob == nil {
		return nil, nil
	}
	return repository.Decode(s.blob)
}

func (s *SnapshotStore) Save(_ context.Context, data *models.Data) error {
	b, err := repository.Encode(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.blob = b
	s.saves++
	s.mu.Unlock()
	return nil
}

func (s *SnapshotStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.blob = nil
	s.mu.Unlock()
	return nil
}

// Saves reports how many times Save succeeded.
func (s *SnapshotStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
