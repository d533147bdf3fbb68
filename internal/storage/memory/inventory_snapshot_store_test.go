package memory

import (
	"context"
	"errors"
	"testing"

	"sponsored-bid-lab/internal/domain"
	"sponsored-bid-lab/internal/storage"
)

func TestInventorySnapshotStore_InsertAndGet(t *testing.T) {
	store := NewInventorySnapshotStore()
	ctx := context.Background()

	runway := 5.0
	snap := &domain.AsinInventorySnapshot{ASIN: "B000000001", RunwayDays: &runway}

	if err := store.Insert(ctx, "run1", snap); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByASIN(ctx, "run1", "B000000001")
	if err != nil {
		t.Fatalf("GetByASIN failed: %v", err)
	}
	if got.RunwayDays == nil || *got.RunwayDays != 5.0 {
		t.Errorf("RunwayDays mismatch: got %v, want 5.0", got.RunwayDays)
	}
	if got.Status() != domain.StockLowStrict {
		t.Errorf("Status mismatch: got %s, want %s", got.Status(), domain.StockLowStrict)
	}
}

func TestInventorySnapshotStore_NilRunwayRoundTrips(t *testing.T) {
	store := NewInventorySnapshotStore()
	ctx := context.Background()

	snap := &domain.AsinInventorySnapshot{ASIN: "B000000002"}
	if err := store.Insert(ctx, "run1", snap); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByASIN(ctx, "run1", "B000000002")
	if err != nil {
		t.Fatalf("GetByASIN failed: %v", err)
	}
	if got.RunwayDays != nil {
		t.Errorf("RunwayDays should be nil, got %v", *got.RunwayDays)
	}
	if got.Status() != domain.StockUnknown {
		t.Errorf("Status mismatch: got %s, want %s", got.Status(), domain.StockUnknown)
	}
}

func TestInventorySnapshotStore_DuplicateKey(t *testing.T) {
	store := NewInventorySnapshotStore()
	ctx := context.Background()

	snap := &domain.AsinInventorySnapshot{ASIN: "B000000001"}

	if err := store.Insert(ctx, "run1", snap); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	err := store.Insert(ctx, "run1", snap)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestInventorySnapshotStore_GetByRunOrdered(t *testing.T) {
	store := NewInventorySnapshotStore()
	ctx := context.Background()

	snaps := []*domain.AsinInventorySnapshot{
		{ASIN: "B3"}, {ASIN: "B1"}, {ASIN: "B2"},
	}
	if err := store.InsertBulk(ctx, "run1", snaps); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByRun(ctx, "run1")
	if err != nil {
		t.Fatalf("GetByRun failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 snapshots, got %d", len(got))
	}
	if got[0].ASIN != "B1" || got[2].ASIN != "B3" {
		t.Errorf("Unexpected order: %s, %s, %s", got[0].ASIN, got[1].ASIN, got[2].ASIN)
	}
}
