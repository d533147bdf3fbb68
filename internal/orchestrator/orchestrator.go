// Package orchestrator coordinates one evaluation run end to end.
// Flow: load metrics → resolve guards → evaluate → persist → apply
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"sponsored-bid-lab/internal/adsapi"
	"sponsored-bid-lab/internal/calendar"
	"sponsored-bid-lab/internal/domain"
	"sponsored-bid-lab/internal/engine"
	"sponsored-bid-lab/internal/presale"
	"sponsored-bid-lab/internal/storage"
	"sponsored-bid-lab/internal/tacos"
)

// Trailing window for the current cost-to-sales ratio fed to the health gate.
const currentRatioWindowDays = 14

// Orchestrator coordinates one evaluation run.
type Orchestrator struct {
	// Stores
	metricsStore        storage.KeywordMetricsStore
	recommendationStore storage.RecommendationStore
	inventoryStore      storage.InventorySnapshotStore
	dailyStatStore      storage.DailyAsinStatStore

	// Run configuration
	runID         string
	config        domain.GlobalConfig
	tacosConfig   domain.TacosHealthConfig
	executionMode domain.ExecutionMode

	// Event resolution
	eventSource     domain.EventModeSource
	manualEventMode domain.EventMode
	calendar        *calendar.Resolver

	// Inventory guard
	inventoryMode    domain.InventoryGuardMode
	outOfStockPolicy domain.OutOfStockPolicy

	// Optional per-ASIN signals for the health gate and presale adjuster.
	ltvCapRatios    map[string]float64
	productBidMults map[string]float64
	presaleWindows  map[string]*domain.PresaleDiagnosisInput

	adsClient adsapi.Client
	workers   int
	now       func() time.Time
	verbose   bool
}

// Options for creating Orchestrator.
type Options struct {
	// Required stores
	MetricsStore        storage.KeywordMetricsStore
	RecommendationStore storage.RecommendationStore

	// Optional guard input stores; nil disables the corresponding guard.
	InventoryStore storage.InventorySnapshotStore
	DailyStatStore storage.DailyAsinStatStore

	RunID         string
	Config        domain.GlobalConfig
	TacosConfig   domain.TacosHealthConfig
	ExecutionMode domain.ExecutionMode

	EventSource     domain.EventModeSource
	ManualEventMode domain.EventMode
	Calendar        *calendar.Resolver

	InventoryMode    domain.InventoryGuardMode
	OutOfStockPolicy domain.OutOfStockPolicy

	LTVCapRatios          map[string]float64
	ProductBidMultipliers map[string]float64
	PresaleWindows        map[string]*domain.PresaleDiagnosisInput

	// Required in APPLY mode, ignored in SHADOW.
	AdsClient adsapi.Client

	Workers int
	Now     func() time.Time
	Verbose bool
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	workers := opts.Workers
	if workers <= 0 {
		workers = 8
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		metricsStore:        opts.MetricsStore,
		recommendationStore: opts.RecommendationStore,
		inventoryStore:      opts.InventoryStore,
		dailyStatStore:      opts.DailyStatStore,
		runID:               opts.RunID,
		config:              opts.Config,
		tacosConfig:         opts.TacosConfig,
		executionMode:       opts.ExecutionMode,
		eventSource:         opts.EventSource,
		manualEventMode:     opts.ManualEventMode,
		calendar:            opts.Calendar,
		inventoryMode:       opts.InventoryMode,
		outOfStockPolicy:    opts.OutOfStockPolicy,
		ltvCapRatios:        opts.LTVCapRatios,
		productBidMults:     opts.ProductBidMultipliers,
		presaleWindows:      opts.PresaleWindows,
		adsClient:           opts.AdsClient,
		workers:             workers,
		now:                 now,
		verbose:             opts.Verbose,
	}
}

// RunResult contains results from one evaluation run.
type RunResult struct {
	RunID             string
	EventMode         domain.EventMode
	KeywordsEvaluated int
	ActionCounts      map[domain.ActionType]int
	Skipped           int
	Applied           int
	Rejected          int
	Recommendations   []*domain.KeywordRecommendation
	Errors            []string
}

// Run executes the full evaluation run.
// Phases:
//  1. Load keyword metrics
//  2. Resolve the sale event mode and fetch guard inputs
//  3. Evaluate all keywords in parallel
//  4. Persist recommendations
//  5. Apply bid changes (APPLY mode only)
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{
		RunID:        o.runID,
		ActionCounts: make(map[domain.ActionType]int),
	}

	// Phase 1: Load keyword metrics
	o.log("Phase 1: Loading keyword metrics...")
	metrics, err := o.metricsStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("phase 1 (load metrics) failed: %w", err)
	}
	result.KeywordsEvaluated = len(metrics)
	o.log("  Found %d keywords", len(metrics))

	if len(metrics) == 0 {
		return result, nil
	}

	// Phase 2: Resolve event mode and guard inputs
	o.log("Phase 2: Resolving guards...")
	mode := calendar.ResolveEventMode(o.eventSource, o.manualEventMode, o.calendar, o.now())
	result.EventMode = mode
	o.log("  Event mode: %s (source %s)", mode, o.eventSource)

	ec := engine.EvaluationContext{
		Config:           o.config,
		EventPolicy:      domain.PolicyForEvent(mode),
		InventoryMode:    o.inventoryMode,
		OutOfStockPolicy: o.outOfStockPolicy,
		Inventory:        o.loadInventory(ctx, result),
		TacosHealth:      o.evaluateTacosHealth(ctx, metrics, result),
		Presale:          o.diagnosePresale(metrics),
	}

	// Phase 3: Parallel evaluation
	o.log("Phase 3: Evaluating %d keywords with %d workers...", len(metrics), o.workers)
	recs := o.evaluateAll(metrics, ec)
	for _, r := range recs {
		result.ActionCounts[r.Action]++
		if r.Skip {
			result.Skipped++
		}
	}
	result.Recommendations = recs

	// Phase 4: Persist
	o.log("Phase 4: Persisting recommendations...")
	if err := o.recommendationStore.InsertBulk(ctx, o.runID, recs); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil, fmt.Errorf("run %s already persisted: %w", o.runID, err)
		}
		return nil, fmt.Errorf("phase 4 (persist) failed: %w", err)
	}
	o.log("  Persisted %d recommendations", len(recs))

	// Phase 5: Apply
	if o.executionMode == domain.ExecutionApply {
		o.log("Phase 5: Applying bid changes...")
		applied, rejected, errs := o.applyBids(ctx, recs)
		result.Applied = applied
		result.Rejected = rejected
		result.Errors = append(result.Errors, errs...)
		o.log("  Applied %d, rejected %d (%d errors)", applied, rejected, len(errs))
	} else {
		o.log("Phase 5: Shadow mode, no bids submitted")
	}

	o.log("Run %s completed: %d keywords, %d skipped",
		o.runID, result.KeywordsEvaluated, result.Skipped)

	return result, nil
}

// loadInventory fetches the run's stock snapshots. Any failure degrades
// to an empty map: the guard simply does not fire.
func (o *Orchestrator) loadInventory(ctx context.Context, result *RunResult) map[string]*domain.AsinInventorySnapshot {
	out := make(map[string]*domain.AsinInventorySnapshot)
	if o.inventoryStore == nil || o.inventoryMode == domain.InventoryGuardOff {
		return out
	}

	snaps, err := o.inventoryStore.GetByRun(ctx, o.runID)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("load inventory: %v", err))
		o.log("  Inventory unavailable, guard disabled: %v", err)
		return out
	}
	for _, s := range snaps {
		out[s.ASIN] = s
	}
	o.log("  Loaded %d inventory snapshots", len(out))
	return out
}

// evaluateTacosHealth builds the per-ASIN health gate from warehouse
// history. ASINs without enough data are simply absent from the map.
func (o *Orchestrator) evaluateTacosHealth(ctx context.Context, metrics []*domain.KeywordMetrics, result *RunResult) map[string]*domain.TacosHealthResult {
	out := make(map[string]*domain.TacosHealthResult)
	if o.dailyStatStore == nil {
		return out
	}

	now := o.now()
	start := now.AddDate(0, 0, -90)

	for _, asin := range distinctASINs(metrics) {
		stats, err := o.dailyStatStore.GetByDateRange(ctx, asin, start, now)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("load daily stats for %s: %v", asin, err))
			continue
		}
		if len(stats) == 0 {
			continue
		}

		daily := make([]domain.DailyAsinStat, len(stats))
		for i, s := range stats {
			daily[i] = *s
		}

		input := domain.TacosHealthInput{
			ASIN:                 asin,
			Daily:                daily,
			LTVCapRatio:          o.ltvCapRatios[asin],
			CurrentRatio:         trailingRatio(daily, now),
			ProductBidMultiplier: o.productBidMults[asin],
		}
		if health := tacos.Evaluate(input, o.tacosConfig); health != nil {
			out[asin] = health
		}
	}
	o.log("  Health gate active for %d ASINs", len(out))
	return out
}

// diagnosePresale classifies the configured presale windows.
func (o *Orchestrator) diagnosePresale(metrics []*domain.KeywordMetrics) map[string]*domain.PresaleDiagnosis {
	out := make(map[string]*domain.PresaleDiagnosis)
	if len(o.presaleWindows) == 0 {
		return out
	}
	for _, asin := range distinctASINs(metrics) {
		if d := presale.Diagnose(o.presaleWindows[asin]); d != nil {
			out[asin] = d
		}
	}
	o.log("  Presale diagnosis for %d ASINs", len(out))
	return out
}

// evaluateAll runs the pure engine over all keywords with a bounded
// worker pool. Evaluation order does not matter; output order is stable
// (same index as input).
func (o *Orchestrator) evaluateAll(metrics []*domain.KeywordMetrics, ec engine.EvaluationContext) []*domain.KeywordRecommendation {
	recs := make([]*domain.KeywordRecommendation, len(metrics))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < o.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rec := engine.Evaluate(metrics[i], ec)
				recs[i] = &rec
			}
		}()
	}

	for i := range metrics {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return recs
}

// applyBids submits non-skipped recommendations with an actual change
// to the bidding API.
func (o *Orchestrator) applyBids(ctx context.Context, recs []*domain.KeywordRecommendation) (applied, rejected int, errs []string) {
	if o.adsClient == nil {
		return 0, 0, []string{"apply mode with no ads client configured"}
	}

	var updates []adsapi.BidUpdate
	for _, r := range recs {
		if r.Skip || r.NewBid == r.CurrentBid {
			continue
		}
		updates = append(updates, adsapi.BidUpdate{
			KeywordID:  r.KeywordID,
			CampaignID: r.CampaignID,
			AdGroupID:  r.AdGroupID,
			NewBid:     r.NewBid,
		})
	}
	if len(updates) == 0 {
		return 0, 0, nil
	}

	results, err := o.adsClient.UpdateBids(ctx, updates)
	if err != nil {
		return 0, 0, []string{fmt.Sprintf("update bids: %v", err)}
	}

	for _, res := range results {
		if res.Accepted {
			applied++
		} else {
			rejected++
			errs = append(errs, fmt.Sprintf("bid update rejected for %s: %s", res.KeywordID, res.Message))
		}
	}
	return applied, rejected, errs
}

// trailingRatio computes spend/revenue over the most recent window of
// daily stats, or nil when there was no revenue.
func trailingRatio(daily []domain.DailyAsinStat, now time.Time) *float64 {
	cutoff := now.AddDate(0, 0, -currentRatioWindowDays)

	var spend, revenue float64
	for _, d := range daily {
		if d.Date.Before(cutoff) {
			continue
		}
		spend += d.Spend
		revenue += d.Revenue
	}
	if revenue == 0 {
		return nil
	}
	v := spend / revenue
	return &v
}

// distinctASINs returns the unique ASINs in input order.
func distinctASINs(metrics []*domain.KeywordMetrics) []string {
	seen := make(map[string]struct{}, len(metrics))
	var out []string
	for _, m := range metrics {
		if m.ASIN == "" {
			continue
		}
		if _, ok := seen[m.ASIN]; ok {
			continue
		}
		seen[m.ASIN] = struct{}{}
		out = append(out, m.ASIN)
	}
	return out
}

func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		log.Printf("[orchestrator] "+format, args...)
	}
}
