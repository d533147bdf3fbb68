package clickhouse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sponsored-bid-lab/internal/domain"
	"sponsored-bid-lab/internal/storage"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDailyAsinStatStore_InsertBulkAndGetByASIN(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDailyAsinStatStore(conn)
	ctx := context.Background()

	stats := []*domain.DailyAsinStat{
		{ASIN: "B1", Date: day(2026, 8, 3), Revenue: 1000, Spend: 120},
		{ASIN: "B1", Date: day(2026, 8, 1), Revenue: 800, Spend: 90},
		{ASIN: "B2", Date: day(2026, 8, 1), Revenue: 500, Spend: 40},
	}
	require.NoError(t, store.InsertBulk(ctx, stats))

	got, err := store.GetByASIN(ctx, "B1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.True(t, got[0].Date.Before(got[1].Date), "rows must be ordered by date ASC")
	require.InDelta(t, 90.0, got[0].Spend, 1e-9)
}

func TestDailyAsinStatStore_DuplicateKey(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDailyAsinStatStore(conn)
	ctx := context.Background()

	stats := []*domain.DailyAsinStat{
		{ASIN: "B1", Date: day(2026, 8, 1), Revenue: 800, Spend: 90},
	}
	require.NoError(t, store.InsertBulk(ctx, stats))
	require.ErrorIs(t, store.InsertBulk(ctx, stats), storage.ErrDuplicateKey)
}

func TestDailyAsinStatStore_GetByDateRange(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDailyAsinStatStore(conn)
	ctx := context.Background()

	var stats []*domain.DailyAsinStat
	for d := 1; d <= 10; d++ {
		stats = append(stats, &domain.DailyAsinStat{
			ASIN: "B1", Date: day(2026, 8, d), Revenue: 100, Spend: 10,
		})
	}
	require.NoError(t, store.InsertBulk(ctx, stats))

	got, err := store.GetByDateRange(ctx, "B1", day(2026, 8, 3), day(2026, 8, 6))
	require.NoError(t, err)
	require.Len(t, got, 4)
	require.Equal(t, day(2026, 8, 3), got[0].Date.UTC())
	require.Equal(t, day(2026, 8, 6), got[3].Date.UTC())
}
