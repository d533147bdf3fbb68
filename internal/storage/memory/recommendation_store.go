package memory

import (
	"context"
	"sort"
	"sync"

	"sponsored-bid-lab/internal/domain"
	"sponsored-bid-lab/internal/storage"
)

// RecommendationStore is an in-memory implementation of storage.RecommendationStore.
type RecommendationStore struct {
	mu   sync.RWMutex
	data map[string]map[string]*domain.KeywordRecommendation // run_id -> keyword_id
}

// NewRecommendationStore creates a new in-memory recommendation store.
func NewRecommendationStore() *RecommendationStore {
	return &RecommendationStore{
		data: make(map[string]map[string]*domain.KeywordRecommendation),
	}
}

// Insert adds a recommendation. Returns ErrDuplicateKey if (run_id, keyword_id) exists.
func (s *RecommendationStore) Insert(_ context.Context, runID string, r *domain.KeywordRecommendation) error {
	if runID == "" || r == nil || r.KeywordID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertLocked(runID, r)
}

// InsertBulk adds multiple recommendations atomically. Fails entire batch on any duplicate.
func (s *RecommendationStore) InsertBulk(_ context.Context, runID string, recs []*domain.KeywordRecommendation) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(recs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: check for duplicates (existing + intra-batch)
	batchKeys := make(map[string]struct{}, len(recs))
	run := s.data[runID]
	for _, r := range recs {
		if r == nil || r.KeywordID == "" {
			return storage.ErrInvalidInput
		}
		if run != nil {
			if _, exists := run[r.KeywordID]; exists {
				return storage.ErrDuplicateKey
			}
		}
		if _, exists := batchKeys[r.KeywordID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[r.KeywordID] = struct{}{}
	}

	// Second pass: insert all
	for _, r := range recs {
		if err := s.insertLocked(runID, r); err != nil {
			return err
		}
	}

	return nil
}

func (s *RecommendationStore) insertLocked(runID string, r *domain.KeywordRecommendation) error {
	run := s.data[runID]
	if run == nil {
		run = make(map[string]*domain.KeywordRecommendation)
		s.data[runID] = run
	}

	if _, exists := run[r.KeywordID]; exists {
		return storage.ErrDuplicateKey
	}

	run[r.KeywordID] = copyRecommendation(r)
	return nil
}

// GetByRun retrieves all recommendations for a run, ordered by keyword ID ASC.
func (s *RecommendationStore) GetByRun(_ context.Context, runID string) ([]*domain.KeywordRecommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run := s.data[runID]
	result := make([]*domain.KeywordRecommendation, 0, len(run))
	for _, r := range run {
		result = append(result, copyRecommendation(r))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].KeywordID < result[j].KeywordID
	})

	return result, nil
}

// GetByKeyword retrieves one keyword's recommendation from a run.
// Returns ErrNotFound if not exists.
func (s *RecommendationStore) GetByKeyword(_ context.Context, runID, keywordID string) (*domain.KeywordRecommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run := s.data[runID]
	if run == nil {
		return nil, storage.ErrNotFound
	}
	r, exists := run[keywordID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return copyRecommendation(r), nil
}

// copyRecommendation deep-copies a recommendation, including the guard trail.
func copyRecommendation(r *domain.KeywordRecommendation) *domain.KeywordRecommendation {
	c := *r
	if len(r.GuardTrail) > 0 {
		c.GuardTrail = make([]string, len(r.GuardTrail))
		copy(c.GuardTrail, r.GuardTrail)
	}
	return &c
}

var _ storage.RecommendationStore = (*RecommendationStore)(nil)
