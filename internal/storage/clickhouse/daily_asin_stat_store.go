package clickhouse

import (
	"context"
	"fmt"
	"time"

	"sponsored-bid-lab/internal/domain"
	"sponsored-bid-lab/internal/storage"
)

// DailyAsinStatStore implements storage.DailyAsinStatStore using ClickHouse.
type DailyAsinStatStore struct {
	conn *Conn
}

// NewDailyAsinStatStore creates a new DailyAsinStatStore.
func NewDailyAsinStatStore(conn *Conn) *DailyAsinStatStore {
	return &DailyAsinStatStore{conn: conn}
}

// Compile-time interface check.
var _ storage.DailyAsinStatStore = (*DailyAsinStatStore)(nil)

// InsertBulk adds multiple daily stats. Fails entire batch on duplicate (asin, date).
// MergeTree does not enforce uniqueness, so duplicates are detected with
// explicit checks before the batch is sent.
func (s *DailyAsinStatStore) InsertBulk(ctx context.Context, stats []*domain.DailyAsinStat) error {
	if len(stats) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		asin string
		date time.Time
	}
	seen := make(map[key]struct{})
	for _, st := range stats {
		if st == nil || st.ASIN == "" {
			return storage.ErrInvalidInput
		}
		k := key{st.ASIN, st.Date.UTC().Truncate(24 * time.Hour)}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, st := range stats {
		exists, err := s.exists(ctx, st.ASIN, st.Date)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO asin_daily_stats (asin, date, revenue, spend)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, st := range stats {
		if err := batch.Append(st.ASIN, st.Date, st.Revenue, st.Spend); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByASIN retrieves all stats for an ASIN, ordered by date ASC.
func (s *DailyAsinStatStore) GetByASIN(ctx context.Context, asin string) ([]*domain.DailyAsinStat, error) {
	query := `
		SELECT asin, date, revenue, spend
		FROM asin_daily_stats
		WHERE asin = ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, asin)
	if err != nil {
		return nil, fmt.Errorf("query by asin: %w", err)
	}
	defer rows.Close()

	return scanDailyStats(rows)
}

// GetByDateRange retrieves stats for an ASIN within [start, end] (inclusive).
func (s *DailyAsinStatStore) GetByDateRange(ctx context.Context, asin string, start, end time.Time) ([]*domain.DailyAsinStat, error) {
	query := `
		SELECT asin, date, revenue, spend
		FROM asin_daily_stats
		WHERE asin = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, asin, start, end)
	if err != nil {
		return nil, fmt.Errorf("query by date range: %w", err)
	}
	defer rows.Close()

	return scanDailyStats(rows)
}

// exists checks if a stat with the given key exists.
func (s *DailyAsinStatStore) exists(ctx context.Context, asin string, date time.Time) (bool, error) {
	query := `
		SELECT count(*) FROM asin_daily_stats
		WHERE asin = ? AND date = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, asin, date).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// chRows is the subset of driver.Rows the scanner needs.
type chRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanDailyStats scans multiple rows.
func scanDailyStats(rows chRows) ([]*domain.DailyAsinStat, error) {
	var stats []*domain.DailyAsinStat

	for rows.Next() {
		var st domain.DailyAsinStat
		if err := rows.Scan(&st.ASIN, &st.Date, &st.Revenue, &st.Spend); err != nil {
			return nil, fmt.Errorf("scan daily stat row: %w", err)
		}
		stats = append(stats, &st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily stat rows: %w", err)
	}

	return stats, nil
}
