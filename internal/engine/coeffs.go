package engine

import "sponsored-bid-lab/internal/domain"

// phaseCoeffsSMode maps lifecycle phases to the S_MODE phase coefficient.
// 0.0 freezes all change for the keyword; NORMAL mode always uses 1.0.
var phaseCoeffsSMode = map[domain.LifecyclePhase]float64{
	domain.PhaseLaunch:  1.8,
	domain.PhaseGrowth:  1.4,
	domain.PhaseMature:  1.0,
	domain.PhaseHarvest: 0.0,
}

// tosRewardCoeff is applied when a keyword passes all top-of-search
// value thresholds in S_MODE.
const tosRewardCoeff = 1.3

// ComputeCoefficients returns the seven multiplicative adjustment
// factors for a (metrics, config, action) triple, plus whether the
// keyword is eligible for the S_MODE 200%-cap tier.
func ComputeCoefficients(m *domain.KeywordMetrics, cfg domain.GlobalConfig, action domain.ActionType) (domain.CoefficientBreakdown, bool) {
	tosEligible := tosValueEligible(m, cfg)

	breakdown := domain.CoefficientBreakdown{
		Phase:      phaseCoeff(m, cfg),
		CVR:        cvrCoeff(m, cfg),
		RankGap:    rankGapCoeff(m, action),
		Competitor: competitorCoeff(m, action),
		Brand:      brandCoeff(m.Brand, action),
		Stats:      statsCoeff(m.Full7d.Clicks, cfg, action),
		TOS:        tosCoeff(cfg, tosEligible),
	}

	return breakdown, tosEligible
}

// phaseCoeff is 1.0 in NORMAL mode and lifecycle-phase-specific in
// S_MODE. An unknown phase is treated as MATURE.
func phaseCoeff(m *domain.KeywordMetrics, cfg domain.GlobalConfig) float64 {
	if cfg.Mode != domain.ModeS {
		return 1.0
	}
	if v, ok := phaseCoeffsSMode[m.Phase]; ok {
		return v
	}
	return 1.0
}

// cvrCoeff scales with the CVR boost magnitude, more aggressively in
// S_MODE. A zero/unknown baseline yields exactly 1.0.
func cvrCoeff(m *domain.KeywordMetrics, cfg domain.GlobalConfig) float64 {
	boost := m.CVRBoost()
	if boost == 0 {
		return 1.0
	}

	magnitude := boost
	if magnitude < 0 {
		magnitude = -magnitude
	}
	if magnitude > 1.0 {
		magnitude = 1.0
	}

	sensitivity := 0.3
	if cfg.Mode == domain.ModeS {
		sensitivity = 0.5
	}
	return 1.0 + magnitude*sensitivity
}

// rankGapCoeff scales with the organic-rank gap, direction-aware: it
// boosts UP actions when the keyword sits behind its target rank and
// boosts DOWN actions when it sits ahead. Opposed actions are mildly
// dampened. Unknown ranks yield 1.0.
func rankGapCoeff(m *domain.KeywordMetrics, action domain.ActionType) float64 {
	if m.OrganicRank == nil || m.TargetRank == nil {
		return 1.0
	}
	if !action.IsUp() && !action.IsDown() {
		return 1.0
	}

	gap := *m.OrganicRank - *m.TargetRank // positive = behind target
	behind := gap > 0
	if gap < 0 {
		gap = -gap
	}
	if gap > 10 {
		gap = 10
	}
	if gap == 0 {
		return 1.0
	}

	aligned := (behind && action.IsUp()) || (!behind && action.IsDown())
	if aligned {
		return 1.0 + 0.03*float64(gap)
	}

	damp := 1.0 - 0.02*float64(gap)
	if damp < 0.8 {
		damp = 0.8
	}
	return damp
}

// competitorCoeff scales with the competitor-vs-baseline CPC ratio,
// direction-aware. A zero baseline CPC yields 1.0.
func competitorCoeff(m *domain.KeywordMetrics, action domain.ActionType) float64 {
	if m.BaselineCPC == 0 {
		return 1.0
	}

	ratio := m.CompetitorCPC / m.BaselineCPC

	var coeff float64
	switch {
	case action.IsUp():
		// Competitors paying above baseline justify a stronger push.
		coeff = 1.0 + (ratio-1.0)*0.5
	case action.IsDown():
		// Cheap competition justifies backing off harder.
		coeff = 1.0 + (1.0-ratio)*0.5
	default:
		return 1.0
	}

	if coeff < 0.8 {
		coeff = 0.8
	}
	if coeff > 1.3 {
		coeff = 1.3
	}
	return coeff
}

// brandCoeff protects self-brand spend and tempers conquest aggression.
func brandCoeff(brand domain.BrandClass, action domain.ActionType) float64 {
	switch brand {
	case domain.BrandSelf:
		if action.IsUp() {
			return 1.2
		}
		if action.IsDown() {
			return 0.7
		}
	case domain.BrandConquest:
		if action == domain.ActionStrongUp {
			return 0.8
		}
	}
	return 1.0
}

// statsCoeff discounts low-confidence decisions by 7-day click volume:
// 0.5 under the low floor, 0.7/0.85 (strong/mild actions) under the high
// floor, 1.1 at high confidence.
func statsCoeff(clicks7d int, cfg domain.GlobalConfig, action domain.ActionType) float64 {
	switch {
	case clicks7d < cfg.LowConfidenceClicks:
		return 0.5
	case clicks7d < cfg.HighConfidenceClicks:
		if action == domain.ActionStrongUp || action == domain.ActionStrongDown {
			return 0.7
		}
		return 0.85
	default:
		return 1.1
	}
}

// tosValueEligible reports whether the keyword passes all top-of-search
// value thresholds: priority score, risk penalty and the CTR*CVR product
// over the trailing 7 days.
func tosValueEligible(m *domain.KeywordMetrics, cfg domain.GlobalConfig) bool {
	if cfg.Mode != domain.ModeS || !m.TOSTargeted {
		return false
	}
	if m.PriorityScore < cfg.TOSMinPriorityScore {
		return false
	}
	if m.RiskPenalty > cfg.TOSMaxRiskPenalty {
		return false
	}

	ctr := m.Full7d.CTR()
	cvr := m.Full7d.CVR()
	if ctr == nil || cvr == nil {
		return false
	}
	return (*ctr)*(*cvr) >= cfg.TOSMinCTRxCVR
}

// tosCoeff rewards strong top-of-search value in S_MODE; 1.0 otherwise.
func tosCoeff(cfg domain.GlobalConfig, eligible bool) float64 {
	if cfg.Mode == domain.ModeS && eligible {
		return tosRewardCoeff
	}
	return 1.0
}
