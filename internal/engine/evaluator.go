package engine

import (
	"fmt"
	"strings"

	"sponsored-bid-lab/internal/domain"
	"sponsored-bid-lab/internal/guard"
)

// EvaluationContext carries the run-scoped, read-only inputs shared by
// every keyword in a batch. Guard maps are keyed by ASIN; a missing
// entry means that guard does not apply to the keyword.
type EvaluationContext struct {
	Config      domain.GlobalConfig
	EventPolicy domain.EventBidPolicy

	InventoryMode    domain.InventoryGuardMode
	OutOfStockPolicy domain.OutOfStockPolicy
	Inventory        map[string]*domain.AsinInventorySnapshot

	TacosHealth map[string]*domain.TacosHealthResult
	Presale     map[string]*domain.PresaleDiagnosis
}

// Evaluate runs the full decision pipeline for one keyword. It is a
// pure function: identical inputs always produce an identical
// recommendation, and a batch of keywords may be evaluated in parallel.
func Evaluate(m *domain.KeywordMetrics, ec EvaluationContext) domain.KeywordRecommendation {
	cfg := ec.Config

	action, match := DetermineAction(m, cfg)

	chain := guard.Chain(
		guard.Brand(m.Brand),
		guard.Event(ec.EventPolicy),
		guard.Inventory(ec.Inventory[m.ASIN], ec.InventoryMode, ec.OutOfStockPolicy),
		guard.Tacos(ec.TacosHealth[m.ASIN]),
		guard.Attribution(m, cfg, ec.EventPolicy),
		guard.Presale(ec.Presale[m.ASIN]),
	)
	d := chain(guard.NewDecision(action))

	rec := domain.KeywordRecommendation{
		KeywordID:   m.KeywordID,
		CampaignID:  m.CampaignID,
		AdGroupID:   m.AdGroupID,
		ASIN:        m.ASIN,
		Keyword:     m.Keyword,
		CurrentBid:  m.CurrentBid,
		TOSTargeted: m.TOSTargeted,
		GuardTrail:  d.Trail,
	}

	if d.HardKill {
		return finishHardKill(rec, m, cfg, d, match)
	}

	rec.Action = d.Action

	switch d.Action {
	case domain.ActionStop:
		// STOP is absolute: -100% regardless of coefficients.
		rec.ChangeRate = -1.0
		rec.NewBid = 0
		rec.Coefficients = neutralCoefficients()
	case domain.ActionKeep:
		rec.ChangeRate = 0
		rec.NewBid = m.CurrentBid
		rec.Coefficients = neutralCoefficients()
	default:
		coeffs, tosEligible := ComputeCoefficients(m, cfg, d.Action)
		rec.Coefficients = coeffs
		rec.TOSEligible = tosEligible

		rate := BaseChangeRate(m.Rank, d.Action) * coeffs.Product()
		if d.Action == domain.ActionStrongUp {
			rate *= d.StrongUpMult
		}

		env := NewRateEnvelope(cfg, tosEligible)
		env.CapUpMult(d.UpMultCap)
		env.CapDownMult(d.DownMultCap)
		env.CapDownPct(d.MaxDownPct)

		clip := ClipChangeRate(rate, env)
		bid := ProjectBid(m, d.Action, clip.Rate, cfg)

		rec.ChangeRate = clip.Rate
		rec.NewBid = bid.NewBid
		rec.Clipped = clip.Clipped || bid.Clipped
		// Rate clips take precedence in the reported reason.
		if clip.Clipped {
			rec.ClipReason = clip.Reason
		} else if bid.Clipped {
			rec.ClipReason = bid.Reason
		}
	}

	explain(&rec, m, cfg, match)
	return rec
}

// finishHardKill builds the recommendation for an inventory hard kill.
func finishHardKill(rec domain.KeywordRecommendation, m *domain.KeywordMetrics, cfg domain.GlobalConfig, d guard.Decision, match RuleMatch) domain.KeywordRecommendation {
	rec.Coefficients = neutralCoefficients()
	if d.Skip {
		rec.Skip = true
		rec.Action = domain.ActionKeep
		rec.ChangeRate = 0
		rec.NewBid = m.CurrentBid
	} else {
		rec.Action = domain.ActionStop
		rec.ChangeRate = -1.0
		rec.NewBid = 0
	}
	explain(&rec, m, cfg, match)
	return rec
}

// neutralCoefficients is the all-1.0 breakdown reported when the
// coefficient stage was bypassed (KEEP, STOP, hard kill).
func neutralCoefficients() domain.CoefficientBreakdown {
	return domain.CoefficientBreakdown{
		Phase: 1, CVR: 1, RankGap: 1, Competitor: 1, Brand: 1, Stats: 1, TOS: 1,
	}
}

// explain fills the three free-text explanation fields.
func explain(rec *domain.KeywordRecommendation, m *domain.KeywordMetrics, cfg domain.GlobalConfig, match RuleMatch) {
	target := m.EffectiveAcosTarget(cfg.AcosTargetDefault)

	facts := fmt.Sprintf("clicks3h=%d clicks7d=%d cvrBoost=%+.2f", m.Clicks3h, m.Full7d.Clicks, m.CVRBoost())
	if acos := m.ACOSActual(); acos != nil {
		facts += fmt.Sprintf(" acos=%.3f target=%.3f", *acos, target)
	} else {
		facts += fmt.Sprintf(" acos=n/a target=%.3f", target)
	}
	rec.FactsObserved = facts

	path := match.String()
	if len(rec.GuardTrail) > 0 {
		path += "; " + strings.Join(rec.GuardTrail, "; ")
	}
	rec.DecisionPath = path

	switch {
	case rec.Skip:
		rec.PredictedImpact = "no change submitted; recommendation skipped"
	case rec.NewBid == 0:
		rec.PredictedImpact = "keyword paused; spend on this keyword stops"
	case rec.NewBid > rec.CurrentBid:
		rec.PredictedImpact = fmt.Sprintf("bid %.2f -> %.2f; expect more impressions at higher cost", rec.CurrentBid, rec.NewBid)
	case rec.NewBid < rec.CurrentBid:
		rec.PredictedImpact = fmt.Sprintf("bid %.2f -> %.2f; expect reduced spend and exposure", rec.CurrentBid, rec.NewBid)
	default:
		rec.PredictedImpact = "bid unchanged"
	}
}
