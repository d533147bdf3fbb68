package storage

import (
	"context"
	"time"

	"sponsored-bid-lab/internal/domain"
)

// KeywordMetricsStore provides access to per-run keyword metric snapshots.
type KeywordMetricsStore interface {
	// Insert adds a snapshot. Returns ErrDuplicateKey if keyword_id exists.
	Insert(ctx context.Context, m *domain.KeywordMetrics) error

	// InsertBulk adds multiple snapshots atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, metrics []*domain.KeywordMetrics) error

	// GetByID retrieves a snapshot by keyword ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, keywordID string) (*domain.KeywordMetrics, error)

	// GetByASIN retrieves all snapshots for an ASIN, ordered by keyword ID ASC.
	GetByASIN(ctx context.Context, asin string) ([]*domain.KeywordMetrics, error)

	// GetAll retrieves all snapshots, ordered by keyword ID ASC.
	GetAll(ctx context.Context) ([]*domain.KeywordMetrics, error)
}

// RecommendationStore provides access to keyword_recommendations storage.
// Recommendations are keyed by (run_id, keyword_id) and never updated.
type RecommendationStore interface {
	// Insert adds a recommendation. Returns ErrDuplicateKey if (run_id, keyword_id) exists.
	Insert(ctx context.Context, runID string, r *domain.KeywordRecommendation) error

	// InsertBulk adds multiple recommendations atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, runID string, recs []*domain.KeywordRecommendation) error

	// GetByRun retrieves all recommendations for a run, ordered by keyword ID ASC.
	GetByRun(ctx context.Context, runID string) ([]*domain.KeywordRecommendation, error)

	// GetByKeyword retrieves one keyword's recommendation from a run.
	// Returns ErrNotFound if not exists.
	GetByKeyword(ctx context.Context, runID, keywordID string) (*domain.KeywordRecommendation, error)
}

// InventorySnapshotStore provides access to asin_inventory_snapshots storage.
type InventorySnapshotStore interface {
	// Insert adds a snapshot. Returns ErrDuplicateKey if (run_id, asin) exists.
	Insert(ctx context.Context, runID string, s *domain.AsinInventorySnapshot) error

	// InsertBulk adds multiple snapshots atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, runID string, snapshots []*domain.AsinInventorySnapshot) error

	// GetByRun retrieves all snapshots for a run, ordered by ASIN ASC.
	GetByRun(ctx context.Context, runID string) ([]*domain.AsinInventorySnapshot, error)

	// GetByASIN retrieves one ASIN's snapshot from a run. Returns ErrNotFound if not exists.
	GetByASIN(ctx context.Context, runID, asin string) (*domain.AsinInventorySnapshot, error)
}

// DailyAsinStatStore provides access to asin_daily_stats storage in the
// analytics warehouse.
type DailyAsinStatStore interface {
	// InsertBulk adds multiple daily stats. Fails entire batch on duplicate (asin, date).
	InsertBulk(ctx context.Context, stats []*domain.DailyAsinStat) error

	// GetByASIN retrieves all stats for an ASIN, ordered by date ASC.
	GetByASIN(ctx context.Context, asin string) ([]*domain.DailyAsinStat, error)

	// GetByDateRange retrieves stats for an ASIN within [start, end] (inclusive).
	GetByDateRange(ctx context.Context, asin string, start, end time.Time) ([]*domain.DailyAsinStat, error)
}
