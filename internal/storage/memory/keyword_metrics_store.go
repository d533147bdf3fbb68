package memory

import (
	"context"
	"sort"
	"sync"

	"sponsored-bid-lab/internal/domain"
	"sponsored-bid-lab/internal/storage"
)

// KeywordMetricsStore is an in-memory implementation of storage.KeywordMetricsStore.
type KeywordMetricsStore struct {
	mu   sync.RWMutex
	data map[string]*domain.KeywordMetrics // keyed by keyword_id
}

// NewKeywordMetricsStore creates a new in-memory keyword metrics store.
func NewKeywordMetricsStore() *KeywordMetricsStore {
	return &KeywordMetricsStore{
		data: make(map[string]*domain.KeywordMetrics),
	}
}

// Insert adds a snapshot. Returns ErrDuplicateKey if keyword_id exists.
func (s *KeywordMetricsStore) Insert(_ context.Context, m *domain.KeywordMetrics) error {
	if m == nil || m.KeywordID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[m.KeywordID]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[m.KeywordID] = copyMetrics(m)
	return nil
}

// InsertBulk adds multiple snapshots atomically. Fails entire batch on any duplicate.
func (s *KeywordMetricsStore) InsertBulk(_ context.Context, metrics []*domain.KeywordMetrics) error {
	if len(metrics) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: check for duplicates (existing + intra-batch)
	batchKeys := make(map[string]struct{}, len(metrics))
	for _, m := range metrics {
		if m == nil || m.KeywordID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[m.KeywordID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[m.KeywordID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[m.KeywordID] = struct{}{}
	}

	// Second pass: insert all
	for _, m := range metrics {
		s.data[m.KeywordID] = copyMetrics(m)
	}

	return nil
}

// GetByID retrieves a snapshot by keyword ID. Returns ErrNotFound if not exists.
func (s *KeywordMetricsStore) GetByID(_ context.Context, keywordID string) (*domain.KeywordMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, exists := s.data[keywordID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return copyMetrics(m), nil
}

// GetByASIN retrieves all snapshots for an ASIN, ordered by keyword ID ASC.
func (s *KeywordMetricsStore) GetByASIN(_ context.Context, asin string) ([]*domain.KeywordMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.KeywordMetrics
	for _, m := range s.data {
		if m.ASIN == asin {
			result = append(result, copyMetrics(m))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].KeywordID < result[j].KeywordID
	})

	return result, nil
}

// GetAll retrieves all snapshots, ordered by keyword ID ASC.
func (s *KeywordMetricsStore) GetAll(_ context.Context) ([]*domain.KeywordMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.KeywordMetrics, 0, len(s.data))
	for _, m := range s.data {
		result = append(result, copyMetrics(m))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].KeywordID < result[j].KeywordID
	})

	return result, nil
}

// copyMetrics deep-copies a snapshot, including the nullable fields.
func copyMetrics(m *domain.KeywordMetrics) *domain.KeywordMetrics {
	c := *m
	if m.AcosTarget != nil {
		v := *m.AcosTarget
		c.AcosTarget = &v
	}
	if m.OrganicRank != nil {
		v := *m.OrganicRank
		c.OrganicRank = &v
	}
	if m.TargetRank != nil {
		v := *m.TargetRank
		c.TargetRank = &v
	}
	return &c
}

var _ storage.KeywordMetricsStore = (*KeywordMetricsStore)(nil)
