package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"sponsored-bid-lab/internal/domain"
	"sponsored-bid-lab/internal/storage"
)

// InventorySnapshotStore implements storage.InventorySnapshotStore using PostgreSQL.
type InventorySnapshotStore struct {
	pool *Pool
}

// NewInventorySnapshotStore creates a new InventorySnapshotStore.
func NewInventorySnapshotStore(pool *Pool) *InventorySnapshotStore {
	return &InventorySnapshotStore{pool: pool}
}

// Compile-time interface check.
var _ storage.InventorySnapshotStore = (*InventorySnapshotStore)(nil)

const insertSnapshotQuery = `
	INSERT INTO asin_inventory_snapshots (run_id, asin, runway_days)
	VALUES ($1, $2, $3)
`

// Insert adds a snapshot. Returns ErrDuplicateKey if (run_id, asin) exists.
func (s *InventorySnapshotStore) Insert(ctx context.Context, runID string, snap *domain.AsinInventorySnapshot) error {
	if runID == "" || snap == nil || snap.ASIN == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, insertSnapshotQuery, runID, snap.ASIN, snap.RunwayDays)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert inventory snapshot: %w", err)
	}
	return nil
}

// InsertBulk adds multiple snapshots atomically. Fails entire batch on any duplicate.
func (s *InventorySnapshotStore) InsertBulk(ctx context.Context, runID string, snapshots []*domain.AsinInventorySnapshot) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(snapshots) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, snap := range snapshots {
		if snap == nil || snap.ASIN == "" {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, insertSnapshotQuery, runID, snap.ASIN, snap.RunwayDays)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert inventory snapshot in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByRun retrieves all snapshots for a run, ordered by ASIN ASC.
func (s *InventorySnapshotStore) GetByRun(ctx context.Context, runID string) ([]*domain.AsinInventorySnapshot, error) {
	query := `
		SELECT asin, runway_days
		FROM asin_inventory_snapshots
		WHERE run_id = $1
		ORDER BY asin ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get inventory snapshots by run: %w", err)
	}
	defer rows.Close()

	var snaps []*domain.AsinInventorySnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory snapshot row: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory snapshot rows: %w", err)
	}

	return snaps, nil
}

// GetByASIN retrieves one ASIN's snapshot from a run. Returns ErrNotFound if not exists.
func (s *InventorySnapshotStore) GetByASIN(ctx context.Context, runID, asin string) (*domain.AsinInventorySnapshot, error) {
	query := `
		SELECT asin, runway_days
		FROM asin_inventory_snapshots
		WHERE run_id = $1 AND asin = $2
	`

	row := s.pool.QueryRow(ctx, query, runID, asin)
	snap, err := scanSnapshot(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get inventory snapshot by asin: %w", err)
	}
	return snap, nil
}

// scanSnapshot scans a single row into an AsinInventorySnapshot.
func scanSnapshot(row pgx.Row) (*domain.AsinInventorySnapshot, error) {
	var snap domain.AsinInventorySnapshot
	if err := row.Scan(&snap.ASIN, &snap.RunwayDays); err != nil {
		return nil, err
	}
	return &snap, nil
}
