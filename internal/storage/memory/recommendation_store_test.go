package memory

import (
	"context"
	"errors"
	"testing"

	"sponsored-bid-lab/internal/domain"
	"sponsored-bid-lab/internal/storage"
)

func TestRecommendationStore_InsertAndGet(t *testing.T) {
	store := NewRecommendationStore()
	ctx := context.Background()

	rec := &domain.KeywordRecommendation{
		KeywordID:  "kw1",
		CampaignID: "camp1",
		ASIN:       "B000000001",
		Action:     domain.ActionMildUp,
		ChangeRate: 0.12,
		CurrentBid: 100,
		NewBid:     112,
		GuardTrail: []string{"event: up multiplier capped at 1.30"},
	}

	if err := store.Insert(ctx, "run1", rec); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByKeyword(ctx, "run1", "kw1")
	if err != nil {
		t.Fatalf("GetByKeyword failed: %v", err)
	}

	if got.NewBid != 112 {
		t.Errorf("NewBid mismatch: got %f, want %f", got.NewBid, 112.0)
	}
	if len(got.GuardTrail) != 1 {
		t.Errorf("GuardTrail length mismatch: got %d, want 1", len(got.GuardTrail))
	}
}

func TestRecommendationStore_DuplicateKey(t *testing.T) {
	store := NewRecommendationStore()
	ctx := context.Background()

	rec := &domain.KeywordRecommendation{KeywordID: "kw1", Action: domain.ActionKeep}

	if err := store.Insert(ctx, "run1", rec); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, "run1", rec)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	// Same keyword in a different run is a distinct key.
	if err := store.Insert(ctx, "run2", rec); err != nil {
		t.Errorf("Insert into different run failed: %v", err)
	}
}

func TestRecommendationStore_NotFound(t *testing.T) {
	store := NewRecommendationStore()
	ctx := context.Background()

	_, err := store.GetByKeyword(ctx, "run1", "nonexistent")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRecommendationStore_InsertBulk(t *testing.T) {
	store := NewRecommendationStore()
	ctx := context.Background()

	recs := []*domain.KeywordRecommendation{
		{KeywordID: "kw2", Action: domain.ActionKeep},
		{KeywordID: "kw1", Action: domain.ActionStrongUp, ChangeRate: 0.3},
		{KeywordID: "kw3", Action: domain.ActionStop, ChangeRate: -1.0},
	}

	if err := store.InsertBulk(ctx, "run1", recs); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByRun(ctx, "run1")
	if err != nil {
		t.Fatalf("GetByRun failed: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("Expected 3 recommendations, got %d", len(got))
	}
	// Ordered by keyword ID ASC.
	if got[0].KeywordID != "kw1" || got[2].KeywordID != "kw3" {
		t.Errorf("Unexpected order: %s, %s, %s", got[0].KeywordID, got[1].KeywordID, got[2].KeywordID)
	}
}

func TestRecommendationStore_InsertBulkDuplicateFailsBatch(t *testing.T) {
	store := NewRecommendationStore()
	ctx := context.Background()

	recs := []*domain.KeywordRecommendation{
		{KeywordID: "kw1", Action: domain.ActionKeep},
		{KeywordID: "kw1", Action: domain.ActionStop},
	}

	err := store.InsertBulk(ctx, "run1", recs)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	got, err := store.GetByRun(ctx, "run1")
	if err != nil {
		t.Fatalf("GetByRun failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Batch should not have been partially applied, got %d rows", len(got))
	}
}

func TestRecommendationStore_CopyOnRead(t *testing.T) {
	store := NewRecommendationStore()
	ctx := context.Background()

	rec := &domain.KeywordRecommendation{
		KeywordID:  "kw1",
		GuardTrail: []string{"brand: STOP downgraded to MILD_DOWN"},
	}
	if err := store.Insert(ctx, "run1", rec); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByKeyword(ctx, "run1", "kw1")
	if err != nil {
		t.Fatalf("GetByKeyword failed: %v", err)
	}
	got.GuardTrail[0] = "mutated"

	again, err := store.GetByKeyword(ctx, "run1", "kw1")
	if err != nil {
		t.Fatalf("GetByKeyword failed: %v", err)
	}
	if again.GuardTrail[0] == "mutated" {
		t.Error("Store returned a shared slice; reads must be copies")
	}
}
