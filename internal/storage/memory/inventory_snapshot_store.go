package memory

import (
	"context"
	"sort"
	"sync"

	"sponsored-bid-lab/internal/domain"
	"sponsored-bid-lab/internal/storage"
)

// InventorySnapshotStore is an in-memory implementation of storage.InventorySnapshotStore.
type InventorySnapshotStore struct {
	mu   sync.RWMutex
	data map[string]map[string]*domain.AsinInventorySnapshot // run_id -> asin
}

// NewInventorySnapshotStore creates a new in-memory inventory snapshot store.
func NewInventorySnapshotStore() *InventorySnapshotStore {
	return &InventorySnapshotStore{
		data: make(map[string]map[string]*domain.AsinInventorySnapshot),
	}
}

// Insert adds a snapshot. Returns ErrDuplicateKey if (run_id, asin) exists.
func (s *InventorySnapshotStore) Insert(_ context.Context, runID string, snap *domain.AsinInventorySnapshot) error {
	if runID == "" || snap == nil || snap.ASIN == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertLocked(runID, snap)
}

// InsertBulk adds multiple snapshots atomically. Fails entire batch on any duplicate.
func (s *InventorySnapshotStore) InsertBulk(_ context.Context, runID string, snapshots []*domain.AsinInventorySnapshot) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(snapshots) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(snapshots))
	run := s.data[runID]
	for _, snap := range snapshots {
		if snap == nil || snap.ASIN == "" {
			return storage.ErrInvalidInput
		}
		if run != nil {
			if _, exists := run[snap.ASIN]; exists {
				return storage.ErrDuplicateKey
			}
		}
		if _, exists := batchKeys[snap.ASIN]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[snap.ASIN] = struct{}{}
	}

	for _, snap := range snapshots {
		if err := s.insertLocked(runID, snap); err != nil {
			return err
		}
	}

	return nil
}

func (s *InventorySnapshotStore) insertLocked(runID string, snap *domain.AsinInventorySnapshot) error {
	run := s.data[runID]
	if run == nil {
		run = make(map[string]*domain.AsinInventorySnapshot)
		s.data[runID] = run
	}

	if _, exists := run[snap.ASIN]; exists {
		return storage.ErrDuplicateKey
	}

	run[snap.ASIN] = copySnapshot(snap)
	return nil
}

// GetByRun retrieves all snapshots for a run, ordered by ASIN ASC.
func (s *InventorySnapshotStore) GetByRun(_ context.Context, runID string) ([]*domain.AsinInventorySnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run := s.data[runID]
	result := make([]*domain.AsinInventorySnapshot, 0, len(run))
	for _, snap := range run {
		result = append(result, copySnapshot(snap))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ASIN < result[j].ASIN
	})

	return result, nil
}

// GetByASIN retrieves one ASIN's snapshot from a run. Returns ErrNotFound if not exists.
func (s *InventorySnapshotStore) GetByASIN(_ context.Context, runID, asin string) (*domain.AsinInventorySnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run := s.data[runID]
	if run == nil {
		return nil, storage.ErrNotFound
	}
	snap, exists := run[asin]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return copySnapshot(snap), nil
}

// copySnapshot deep-copies a snapshot, including the nullable runway.
func copySnapshot(snap *domain.AsinInventorySnapshot) *domain.AsinInventorySnapshot {
	c := *snap
	if snap.RunwayDays != nil {
		v := *snap.RunwayDays
		c.RunwayDays = &v
	}
	return &c
}

var _ storage.InventorySnapshotStore = (*InventorySnapshotStore)(nil)
