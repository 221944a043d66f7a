package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/beans/internal/models"
	"github.com/lalith-99/beans/internal/repository"
)

// snapshotRowID pins the single row that holds the workspace.
const snapshotRowID = 1

// SnapshotStore keeps the snapshot as one jsonb row.
type SnapshotStore struct {
	pool *pgxpool.Pool
}

func NewSnapshotStore(pool *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

// EnsureSchema creates the snapshot table if it is missing.
func (s *SnapshotStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS workspace_snapshots (
			id         smallint PRIMARY KEY,
			data       jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		)`

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("create snapshot table: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Load(ctx context.Context) (*models.Data, error) {
	query := `
		SELECT data
		FROM workspace_snapshots
		WHERE id = $1`

	var raw []byte
	err := s.pool.QueryRow(ctx, query, snapshotRowID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return repository.Decode(raw)
}

// Save upserts the row; a single statement is atomic, so readers see the
// old or the new snapshot.
func (s *SnapshotStore) Save(ctx context.Context, data *models.Data) error {
	raw, err := repository.Encode(data)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO workspace_snapshots (id, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE
		SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`

	if _, err := s.pool.Exec(ctx, query, snapshotRowID, raw); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Clear(ctx context.Context) error {
	query := `DELETE FROM workspace_snapshots WHERE id = $1`

	if _, err := s.pool.Exec(ctx, query, snapshotRowID); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}
