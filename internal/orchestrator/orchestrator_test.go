package orchestrator

import (
	"context"
	"testing"
	"time"

	"sponsored-bid-lab/internal/adsapi/stub"
	"sponsored-bid-lab/internal/domain"
	"sponsored-bid-lab/internal/storage/memory"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
}

// seedMetrics inserts a healthy up-trending keyword and a decayed one.
func seedMetrics(t *testing.T, store *memory.KeywordMetricsStore) {
	t.Helper()
	ctx := context.Background()

	up := &domain.KeywordMetrics{
		KeywordID:  "kw-up",
		CampaignID: "c1",
		AdGroupID:  "g1",
		ASIN:       "B1",
		Keyword:    "wireless earbuds",
		Clicks3h:   12,
		Full7d:     domain.WindowStats{Impressions: 4000, Clicks: 80, Conversions: 8, Spend: 800, Sales: 8000},
		Excl3d7d:   domain.WindowStats{Impressions: 2000, Clicks: 40, Conversions: 2, Spend: 400, Sales: 2000},
		Last3d:     domain.WindowStats{Impressions: 2000, Clicks: 40, Conversions: 6, Spend: 400, Sales: 6000},
		Last30d:    domain.WindowStats{Impressions: 16000, Clicks: 320, Conversions: 30, Spend: 3200, Sales: 30000},
		CurrentBid: 100, BaselineCPC: 10, CompetitorCPC: 120,
		Rank: domain.RankA, Phase: domain.PhaseGrowth,
	}
	down := &domain.KeywordMetrics{
		KeywordID:  "kw-down",
		CampaignID: "c1",
		AdGroupID:  "g1",
		ASIN:       "B2",
		Keyword:    "earbuds case",
		Clicks3h:   20,
		Full7d:     domain.WindowStats{Impressions: 3000, Clicks: 60, Conversions: 1, Spend: 900, Sales: 300},
		Excl3d7d:   domain.WindowStats{Impressions: 1500, Clicks: 30, Conversions: 1, Spend: 450, Sales: 300},
		Last3d:     domain.WindowStats{Impressions: 1500, Clicks: 30, Conversions: 0, Spend: 450, Sales: 0},
		Last30d:    domain.WindowStats{Impressions: 12000, Clicks: 240, Conversions: 5, Spend: 3600, Sales: 1500},
		CurrentBid: 100, BaselineCPC: 10, CompetitorCPC: 90,
		Rank: domain.RankB, Phase: domain.PhaseMature,
	}

	if err := store.InsertBulk(ctx, []*domain.KeywordMetrics{up, down}); err != nil {
		t.Fatalf("seed metrics: %v", err)
	}
}

func TestRun_ShadowModePersistsWithoutApplying(t *testing.T) {
	metricsStore := memory.NewKeywordMetricsStore()
	recStore := memory.NewRecommendationStore()
	seedMetrics(t, metricsStore)

	ads := stub.NewClient()

	o := New(Options{
		MetricsStore:        metricsStore,
		RecommendationStore: recStore,
		RunID:               "run1",
		Config:              domain.DefaultGlobalConfig(),
		TacosConfig:         domain.DefaultTacosHealthConfig(),
		ExecutionMode:       domain.ExecutionShadow,
		ManualEventMode:     domain.EventNone,
		AdsClient:           ads,
		Now:                 fixedNow,
	})

	result, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.KeywordsEvaluated != 2 {
		t.Errorf("KeywordsEvaluated = %d, want 2", result.KeywordsEvaluated)
	}
	if result.Applied != 0 {
		t.Errorf("Shadow mode applied %d bids", result.Applied)
	}
	if len(ads.Submitted()) != 0 {
		t.Errorf("Shadow mode submitted %d updates to the API", len(ads.Submitted()))
	}

	recs, err := recStore.GetByRun(context.Background(), "run1")
	if err != nil {
		t.Fatalf("GetByRun failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("Expected 2 persisted recommendations, got %d", len(recs))
	}
}

func TestRun_ApplyModeSubmitsChangedBids(t *testing.T) {
	metricsStore := memory.NewKeywordMetricsStore()
	recStore := memory.NewRecommendationStore()
	seedMetrics(t, metricsStore)

	ads := stub.NewClient()

	o := New(Options{
		MetricsStore:        metricsStore,
		RecommendationStore: recStore,
		RunID:               "run1",
		Config:              domain.DefaultGlobalConfig(),
		TacosConfig:         domain.DefaultTacosHealthConfig(),
		ExecutionMode:       domain.ExecutionApply,
		ManualEventMode:     domain.EventNone,
		AdsClient:           ads,
		Now:                 fixedNow,
	})

	result, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	submitted := ads.Submitted()
	if len(submitted) == 0 {
		t.Fatal("Apply mode submitted no updates")
	}
	if result.Applied != len(submitted) {
		t.Errorf("Applied = %d, want %d", result.Applied, len(submitted))
	}
	for _, u := range submitted {
		if u.KeywordID == "" {
			t.Error("Submitted update missing keyword ID")
		}
	}
}

func TestRun_InventoryHardKillSkips(t *testing.T) {
	metricsStore := memory.NewKeywordMetricsStore()
	recStore := memory.NewRecommendationStore()
	invStore := memory.NewInventorySnapshotStore()
	seedMetrics(t, metricsStore)

	ctx := context.Background()
	zero := 0.0
	if err := invStore.Insert(ctx, "run1", &domain.AsinInventorySnapshot{ASIN: "B1", RunwayDays: &zero}); err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	ads := stub.NewClient()

	o := New(Options{
		MetricsStore:        metricsStore,
		RecommendationStore: recStore,
		InventoryStore:      invStore,
		RunID:               "run1",
		Config:              domain.DefaultGlobalConfig(),
		TacosConfig:         domain.DefaultTacosHealthConfig(),
		ExecutionMode:       domain.ExecutionApply,
		ManualEventMode:     domain.EventNone,
		InventoryMode:       domain.InventoryGuardOn,
		OutOfStockPolicy:    domain.PolicySkipRecommendation,
		AdsClient:           ads,
		Now:                 fixedNow,
	})

	result, err := o.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", result.Skipped)
	}
	for _, u := range ads.Submitted() {
		if u.KeywordID == "kw-up" {
			t.Error("Skipped keyword was still submitted to the API")
		}
	}
}

func TestRun_TacosHealthFromWarehouse(t *testing.T) {
	metricsStore := memory.NewKeywordMetricsStore()
	recStore := memory.NewRecommendationStore()
	statStore := memory.NewDailyAsinStatStore()
	seedMetrics(t, metricsStore)

	ctx := context.Background()

	// 30 days of B1 history at a healthy ratio, enough for the profit curve.
	var stats []*domain.DailyAsinStat
	for d := 0; d < 30; d++ {
		stats = append(stats, &domain.DailyAsinStat{
			ASIN:    "B1",
			Date:    fixedNow().AddDate(0, 0, -d-1),
			Revenue: 1000,
			Spend:   100, // ratio 0.10
		})
	}
	if err := statStore.InsertBulk(ctx, stats); err != nil {
		t.Fatalf("seed daily stats: %v", err)
	}

	o := New(Options{
		MetricsStore:        metricsStore,
		RecommendationStore: recStore,
		DailyStatStore:      statStore,
		RunID:               "run1",
		Config:              domain.DefaultGlobalConfig(),
		TacosConfig:         domain.DefaultTacosHealthConfig(),
		ExecutionMode:       domain.ExecutionShadow,
		ManualEventMode:     domain.EventNone,
		Now:                 fixedNow,
	})

	result, err := o.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Errors) != 0 {
		t.Errorf("Unexpected errors: %v", result.Errors)
	}

	// B2 has no warehouse history and must degrade silently, not error.
	recs, err := recStore.GetByRun(ctx, "run1")
	if err != nil {
		t.Fatalf("GetByRun failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("Expected 2 recommendations, got %d", len(recs))
	}
}

func TestRun_DuplicateRunFails(t *testing.T) {
	metricsStore := memory.NewKeywordMetricsStore()
	recStore := memory.NewRecommendationStore()
	seedMetrics(t, metricsStore)

	opts := Options{
		MetricsStore:        metricsStore,
		RecommendationStore: recStore,
		RunID:               "run1",
		Config:              domain.DefaultGlobalConfig(),
		TacosConfig:         domain.DefaultTacosHealthConfig(),
		ExecutionMode:       domain.ExecutionShadow,
		ManualEventMode:     domain.EventNone,
		Now:                 fixedNow,
	}

	if _, err := New(opts).Run(context.Background()); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if _, err := New(opts).Run(context.Background()); err == nil {
		t.Fatal("second run with the same run ID should fail")
	}
}
