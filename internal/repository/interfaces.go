package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lalith-99/beans/internal/models"
)

// SnapshotRepository persists the whole workspace snapshot.
//
// Save is called synchronously after every successful mutation and must be
// total: a later Load sees either the previous snapshot or the new one,
// never a mix.
type SnapshotRepository interface {
	// Load returns the stored snapshot. Returns nil, nil if nothing has
	// been saved yet.
	Load(ctx context.Context) (*models.Data, error)

	// Save replaces the stored snapshot.
	Save(ctx context.Context, data *models.Data) error

	// Clear removes the stored snapshot.
	Clear(ctx context.Context) error
}

// Encode is the wire form shared by every backend.
func Encode(data *models.Data) ([]byte, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

func Decode(b []byte) (*models.Data, error) {
	var data models.Data
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	data.Normalize()
	return &data, nil
}
