package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/lalith-99/beans/internal/models"
	"github.com/lalith-99/beans/internal/repository"
	goredis "github.com/redis/go-redis/v9"
)

const DefaultKey = "beans:snapshot"

// SnapshotStore keeps the snapshot under one key. SET replaces the value
// atomically.
type SnapshotStore struct {
	client goredis.UniversalClient
	key    string
}

func NewSnapshotStore(client goredis.UniversalClient, key string) *SnapshotStore {
	if key == "" {
		key = DefaultKey
	}
	return &SnapshotStore{client: client, key: key}
}

func (s *SnapshotStore) Load(ctx context.Context) (*models.Data, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return repository.Decode(raw)
}

func (s *SnapshotStore) Save(ctx context.Context, data *models.Data) error {
	raw, err := repository.Encode(data)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}
