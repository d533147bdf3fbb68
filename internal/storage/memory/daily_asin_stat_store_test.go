package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"sponsored-bid-lab/internal/domain"
	"sponsored-bid-lab/internal/storage"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDailyAsinStatStore_InsertBulkAndGet(t *testing.T) {
	store := NewDailyAsinStatStore()
	ctx := context.Background()

	stats := []*domain.DailyAsinStat{
		{ASIN: "B1", Date: day(2026, 8, 3), Revenue: 1000, Spend: 120},
		{ASIN: "B1", Date: day(2026, 8, 1), Revenue: 800, Spend: 90},
		{ASIN: "B2", Date: day(2026, 8, 1), Revenue: 500, Spend: 40},
	}

	if err := store.InsertBulk(ctx, stats); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByASIN(ctx, "B1")
	if err != nil {
		t.Fatalf("GetByASIN failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 stats, got %d", len(got))
	}
	if !got[0].Date.Before(got[1].Date) {
		t.Error("Stats not ordered by date ASC")
	}
}

func TestDailyAsinStatStore_DuplicateKey(t *testing.T) {
	store := NewDailyAsinStatStore()
	ctx := context.Background()

	stats := []*domain.DailyAsinStat{
		{ASIN: "B1", Date: day(2026, 8, 1), Revenue: 800, Spend: 90},
	}
	if err := store.InsertBulk(ctx, stats); err != nil {
		t.Fatalf("First InsertBulk failed: %v", err)
	}

	err := store.InsertBulk(ctx, stats)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestDailyAsinStatStore_GetByDateRange(t *testing.T) {
	store := NewDailyAsinStatStore()
	ctx := context.Background()

	var stats []*domain.DailyAsinStat
	for d := 1; d <= 10; d++ {
		stats = append(stats, &domain.DailyAsinStat{
			ASIN: "B1", Date: day(2026, 8, d), Revenue: 100, Spend: 10,
		})
	}
	if err := store.InsertBulk(ctx, stats); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByDateRange(ctx, "B1", day(2026, 8, 3), day(2026, 8, 6))
	if err != nil {
		t.Fatalf("GetByDateRange failed: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("Expected 4 stats in range, got %d", len(got))
	}
	if !got[0].Date.Equal(day(2026, 8, 3)) || !got[3].Date.Equal(day(2026, 8, 6)) {
		t.Errorf("Range bounds wrong: first=%v last=%v", got[0].Date, got[3].Date)
	}
}
