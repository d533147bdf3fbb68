package domain

// WindowStats holds rolled-up performance counters for one time window.
// The derived ratios are nil (never NaN) when their denominator is zero.
type WindowStats struct {
	Impressions int
	Clicks      int
	Conversions int
	Spend       float64 // ad spend in currency units
	Sales       float64 // attributed ad sales in currency units
}

// CTR returns clicks/impressions, or nil if there were no impressions.
func (w WindowStats) CTR() *float64 {
	if w.Impressions == 0 {
		return nil
	}
	v := float64(w.Clicks) / float64(w.Impressions)
	return &v
}

// CVR returns conversions/clicks, or nil if there were no clicks.
func (w WindowStats) CVR() *float64 {
	if w.Clicks == 0 {
		return nil
	}
	v := float64(w.Conversions) / float64(w.Clicks)
	return &v
}

// ACOS returns spend/sales, or nil if there were no sales.
func (w WindowStats) ACOS() *float64 {
	if w.Sales == 0 {
		return nil
	}
	v := w.Spend / w.Sales
	return &v
}

// KeywordMetrics is one keyword's rolled-up signals for one evaluation
// cycle. All window aggregates are snapshots taken before the pure
// decision phase; the engine never mutates them.
type KeywordMetrics struct {
	KeywordID  string
	CampaignID string
	AdGroupID  string
	ASIN       string
	Keyword    string

	// Short-horizon click counters for decision confidence.
	Clicks3h int
	Clicks1h int

	// Time windows.
	Full7d   WindowStats // trailing 7 days, all days
	Excl3d7d WindowStats // trailing 7 days excluding the most recent 3
	Last3d   WindowStats // most recent 3 days only
	Last30d  WindowStats // trailing 30 days

	// Bid and cost signals.
	CurrentBid    float64
	BaselineCPC   float64 // account-baseline cost per click
	CompetitorCPC float64 // estimated competitor cost per click

	// Target cost-to-sales ratio. Nil means use the run default.
	AcosTarget *float64

	// Quality and classification signals.
	Rank               ScoreRank
	Brand              BrandClass
	Phase              LifecyclePhase
	RiskPenalty        float64 // 0..1, higher = riskier
	CompetitorStrength float64 // 0..1, higher = stronger competition

	// Organic rank signals. Nil when unknown.
	OrganicRank *int
	TargetRank  *int

	// Top-of-search targeting signals.
	PriorityScore float64
	TOSTargeted   bool
}

// CVRRecent returns the recent-window conversion rate (last 3 days).
func (m *KeywordMetrics) CVRRecent() *float64 {
	return m.Last3d.CVR()
}

// CVRBaseline returns the baseline conversion rate (7 days excluding the
// most recent 3).
func (m *KeywordMetrics) CVRBaseline() *float64 {
	return m.Excl3d7d.CVR()
}

// CVRBoost returns the relative CVR change vs baseline, or 0 when the
// baseline is zero or unavailable.
func (m *KeywordMetrics) CVRBoost() float64 {
	recent := m.CVRRecent()
	baseline := m.CVRBaseline()
	if recent == nil || baseline == nil || *baseline == 0 {
		return 0
	}
	return (*recent - *baseline) / *baseline
}

// ACOSActual returns the trailing-7-day cost-to-sales ratio, or nil when
// there were no sales.
func (m *KeywordMetrics) ACOSActual() *float64 {
	return m.Full7d.ACOS()
}

// EffectiveAcosTarget returns the keyword target ratio, falling back to
// the run default when the keyword carries none.
func (m *KeywordMetrics) EffectiveAcosTarget(runDefault float64) float64 {
	if m.AcosTarget != nil {
		return *m.AcosTarget
	}
	return runDefault
}
