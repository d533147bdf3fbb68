package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"sponsored-bid-lab/internal/domain"
	"sponsored-bid-lab/internal/storage"
)

// DailyAsinStatStore is an in-memory implementation of storage.DailyAsinStatStore.
type DailyAsinStatStore struct {
	mu   sync.RWMutex
	data map[statKey]*domain.DailyAsinStat
}

type statKey struct {
	asin string
	date time.Time
}

// NewDailyAsinStatStore creates a new in-memory daily stat store.
func NewDailyAsinStatStore() *DailyAsinStatStore {
	return &DailyAsinStatStore{
		data: make(map[statKey]*domain.DailyAsinStat),
	}
}

// InsertBulk adds multiple daily stats. Fails entire batch on duplicate (asin, date).
func (s *DailyAsinStatStore) InsertBulk(_ context.Context, stats []*domain.DailyAsinStat) error {
	if len(stats) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[statKey]struct{}, len(stats))
	for _, st := range stats {
		if st == nil || st.ASIN == "" {
			return storage.ErrInvalidInput
		}
		k := statKey{st.ASIN, st.Date.UTC().Truncate(24 * time.Hour)}
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	for _, st := range stats {
		k := statKey{st.ASIN, st.Date.UTC().Truncate(24 * time.Hour)}
		c := *st
		s.data[k] = &c
	}

	return nil
}

// GetByASIN retrieves all stats for an ASIN, ordered by date ASC.
func (s *DailyAsinStatStore) GetByASIN(_ context.Context, asin string) ([]*domain.DailyAsinStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.DailyAsinStat
	for _, st := range s.data {
		if st.ASIN == asin {
			c := *st
			result = append(result, &c)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	return result, nil
}

// GetByDateRange retrieves stats for an ASIN within [start, end] (inclusive).
func (s *DailyAsinStatStore) GetByDateRange(_ context.Context, asin string, start, end time.Time) ([]*domain.DailyAsinStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.DailyAsinStat
	for _, st := range s.data {
		if st.ASIN != asin {
			continue
		}
		if st.Date.Before(start) || st.Date.After(end) {
			continue
		}
		c := *st
		result = append(result, &c)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	return result, nil
}

var _ storage.DailyAsinStatStore = (*DailyAsinStatStore)(nil)
