// Package main runs one bid evaluation cycle.
// Executes: load metrics → resolve guards → evaluate → persist → report
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"sponsored-bid-lab/internal/adsapi"
	"sponsored-bid-lab/internal/adsapi/stub"
	"sponsored-bid-lab/internal/calendar"
	"sponsored-bid-lab/internal/config"
	"sponsored-bid-lab/internal/domain"
	"sponsored-bid-lab/internal/orchestrator"
	"sponsored-bid-lab/internal/reporting"
	"sponsored-bid-lab/internal/storage"
	chstore "sponsored-bid-lab/internal/storage/clickhouse"
	"sponsored-bid-lab/internal/storage/memory"
	"sponsored-bid-lab/internal/storage/migrations"
	pgstore "sponsored-bid-lab/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to run configuration")
	runID := flag.String("run-id", "", "Run identifier (default: evaluate-<timestamp>)")
	outputDir := flag.String("output-dir", "docs", "Output directory for generated files")
	withFixtures := flag.Bool("fixtures", false, "Seed built-in fixture data before the run")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling run...\n", sig)
		cancel()
	}()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *runID == "" {
		*runID = fmt.Sprintf("evaluate-%s", time.Now().UTC().Format("20060102-150405"))
	}

	stores, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening stores: %v\n", err)
		os.Exit(1)
	}
	defer closeStores()

	if *withFixtures {
		if err := loadFixtureData(ctx, *runID, stores); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading fixtures: %v\n", err)
			os.Exit(1)
		}
	}

	execMode := domain.ParseExecutionMode(cfg.Run.ExecutionMode)

	var ads adsapi.Client
	if execMode == domain.ExecutionApply {
		// The real bidding client is provisioned outside this repo; the
		// recording stub keeps APPLY runs observable end to end.
		ads = stub.NewClient()
	}

	fmt.Println("=== Bid Evaluation ===")
	orch := orchestrator.New(orchestrator.Options{
		MetricsStore:        stores.metrics,
		RecommendationStore: stores.recommendations,
		InventoryStore:      stores.inventory,
		DailyStatStore:      stores.dailyStats,
		RunID:               *runID,
		Config:              cfg.GlobalConfig(),
		TacosConfig:         cfg.TacosConfig(),
		ExecutionMode:       execMode,
		EventSource:         domain.ParseEventModeSource(cfg.Run.EventSource),
		ManualEventMode:     domain.EventMode(cfg.Run.EventMode),
		Calendar:            calendar.NewResolver(nil),
		InventoryMode:       domain.ParseInventoryGuardMode(cfg.Inventory.GuardMode),
		OutOfStockPolicy:    domain.OutOfStockPolicy(cfg.Inventory.OutOfStockPolicy),
		AdsClient:           ads,
		Workers:             cfg.Run.Workers,
		Verbose:             *verbose,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Run error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Run %s completed:\n", result.RunID)
	fmt.Printf("  Keywords: %d\n", result.KeywordsEvaluated)
	fmt.Printf("  Skipped: %d\n", result.Skipped)
	if execMode == domain.ExecutionApply {
		fmt.Printf("  Applied: %d (rejected %d)\n", result.Applied, result.Rejected)
	}
	if len(result.Errors) > 0 {
		fmt.Printf("  Errors: %d\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("    - %s\n", e)
		}
	}

	if err := writeReports(result, execMode, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "Report error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nEvaluation completed successfully:")
	fmt.Printf("  - %s/RUN_%s.md\n", *outputDir, result.RunID)
	fmt.Printf("  - %s/recommendations_%s.csv\n", *outputDir, result.RunID)
}

// runStores holds the stores for one run.
type runStores struct {
	metrics         storage.KeywordMetricsStore
	recommendations storage.RecommendationStore
	inventory       storage.InventorySnapshotStore
	dailyStats      storage.DailyAsinStatStore

	// Seeding hooks; nil when the backing store is not in-memory.
	seedMetrics   *memory.KeywordMetricsStore
	seedInventory *memory.InventorySnapshotStore
	seedStats     *memory.DailyAsinStatStore
}

// openStores wires persistent stores when DSNs are configured and falls
// back to in-memory stores otherwise. Metrics snapshots are always
// in-memory: they arrive per run and are never persisted here.
func openStores(ctx context.Context, cfg *config.Config) (*runStores, func(), error) {
	metricsStore := memory.NewKeywordMetricsStore()
	stores := &runStores{
		metrics:     metricsStore,
		seedMetrics: metricsStore,
	}
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if dsn := cfg.Storage.PostgresDSN; dsn != "" {
		pool, err := pgstore.NewPool(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		closers = append(closers, pool.Close)
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		stores.recommendations = pgstore.NewRecommendationStore(pool)
		stores.inventory = pgstore.NewInventorySnapshotStore(pool)
	} else {
		recStore := memory.NewRecommendationStore()
		invStore := memory.NewInventorySnapshotStore()
		stores.recommendations = recStore
		stores.inventory = invStore
		stores.seedInventory = invStore
	}

	if dsn := cfg.Storage.ClickhouseDSN; dsn != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, dsn)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("migrate clickhouse: %w", err)
		}
		closers = append(closers, func() { _ = conn.Close() })
		stores.dailyStats = chstore.NewDailyAsinStatStore(conn)
	} else {
		statStore := memory.NewDailyAsinStatStore()
		stores.dailyStats = statStore
		stores.seedStats = statStore
	}

	return stores, closeAll, nil
}

// loadFixtureData seeds a small realistic dataset so the pipeline can be
// exercised without external feeds.
func loadFixtureData(ctx context.Context, runID string, stores *runStores) error {
	if stores.seedMetrics != nil {
		if err := stores.seedMetrics.InsertBulk(ctx, fixtureMetrics()); err != nil {
			return fmt.Errorf("seed metrics: %w", err)
		}
	}
	if stores.seedInventory != nil {
		if err := stores.seedInventory.InsertBulk(ctx, runID, fixtureInventory()); err != nil {
			return fmt.Errorf("seed inventory: %w", err)
		}
	}
	if stores.seedStats != nil {
		if err := stores.seedStats.InsertBulk(ctx, fixtureDailyStats()); err != nil {
			return fmt.Errorf("seed daily stats: %w", err)
		}
	}
	return nil
}

func fixtureMetrics() []*domain.KeywordMetrics {
	target := 0.2
	return []*domain.KeywordMetrics{
		{
			KeywordID: "kw-surge", CampaignID: "c1", AdGroupID: "g1", ASIN: "B0FIXTURE01",
			Keyword: "wireless earbuds", Clicks3h: 14,
			Full7d:   domain.WindowStats{Impressions: 5000, Clicks: 90, Conversions: 9, Spend: 900, Sales: 9000},
			Excl3d7d: domain.WindowStats{Impressions: 2500, Clicks: 45, Conversions: 2, Spend: 450, Sales: 2000},
			Last3d:   domain.WindowStats{Impressions: 2500, Clicks: 45, Conversions: 7, Spend: 450, Sales: 7000},
			Last30d:  domain.WindowStats{Impressions: 20000, Clicks: 360, Conversions: 34, Spend: 3600, Sales: 34000},
			CurrentBid: 120, BaselineCPC: 10, CompetitorCPC: 150,
			Rank: domain.RankS, Brand: domain.BrandGeneric, Phase: domain.PhaseGrowth,
		},
		{
			KeywordID: "kw-decay", CampaignID: "c1", AdGroupID: "g1", ASIN: "B0FIXTURE02",
			Keyword: "earbuds case", Clicks3h: 22,
			Full7d:     domain.WindowStats{Impressions: 3000, Clicks: 70, Conversions: 1, Spend: 1200, Sales: 400},
			Excl3d7d:   domain.WindowStats{Impressions: 1500, Clicks: 35, Conversions: 1, Spend: 600, Sales: 400},
			Last3d:     domain.WindowStats{Impressions: 1500, Clicks: 35, Conversions: 0, Spend: 600, Sales: 0},
			Last30d:    domain.WindowStats{Impressions: 12000, Clicks: 280, Conversions: 4, Spend: 4800, Sales: 1600},
			CurrentBid: 90, BaselineCPC: 12, CompetitorCPC: 80,
			AcosTarget: &target,
			Rank:       domain.RankB, Brand: domain.BrandGeneric, Phase: domain.PhaseMature,
		},
		{
			KeywordID: "kw-brand", CampaignID: "c2", AdGroupID: "g2", ASIN: "B0FIXTURE02",
			Keyword: "acme earbuds", Clicks3h: 8,
			Full7d:     domain.WindowStats{Impressions: 2000, Clicks: 40, Conversions: 0, Spend: 700, Sales: 100},
			Excl3d7d:   domain.WindowStats{Impressions: 1000, Clicks: 20, Conversions: 0, Spend: 350, Sales: 100},
			Last3d:     domain.WindowStats{Impressions: 1000, Clicks: 20, Conversions: 0, Spend: 350, Sales: 0},
			Last30d:    domain.WindowStats{Impressions: 8000, Clicks: 150, Conversions: 2, Spend: 2800, Sales: 900},
			CurrentBid: 70, BaselineCPC: 11, CompetitorCPC: 60,
			Rank: domain.RankA, Brand: domain.BrandSelf, Phase: domain.PhaseMature,
		},
	}
}

func fixtureInventory() []*domain.AsinInventorySnapshot {
	healthy := 45.0
	tight := 6.0
	return []*domain.AsinInventorySnapshot{
		{ASIN: "B0FIXTURE01", RunwayDays: &healthy},
		{ASIN: "B0FIXTURE02", RunwayDays: &tight},
	}
}

func fixtureDailyStats() []*domain.DailyAsinStat {
	var stats []*domain.DailyAsinStat
	now := time.Now().UTC().Truncate(24 * time.Hour)
	for d := 1; d <= 60; d++ {
		stats = append(stats, &domain.DailyAsinStat{
			ASIN:    "B0FIXTURE01",
			Date:    now.AddDate(0, 0, -d),
			Revenue: 2000,
			Spend:   220,
		})
	}
	return stats
}

// writeReports renders the Markdown summary and CSV detail files.
func writeReports(result *orchestrator.RunResult, mode domain.ExecutionMode, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	report := reporting.BuildRunReport(result, mode, time.Now().UTC())

	mdPath := filepath.Join(outputDir, fmt.Sprintf("RUN_%s.md", result.RunID))
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		return fmt.Errorf("write markdown report: %w", err)
	}

	csvPath := filepath.Join(outputDir, fmt.Sprintf("recommendations_%s.csv", result.RunID))
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(result.Recommendations)), 0o644); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	return nil
}
