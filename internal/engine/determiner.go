package engine

import (
	"fmt"

	"sponsored-bid-lab/internal/domain"
)

// RuleMatch records which cascade rule produced the action, for the
// decision-path explanation.
type RuleMatch struct {
	Step   int
	Name   string
	Action domain.ActionType
}

func (r RuleMatch) String() string {
	return fmt.Sprintf("rule %d (%s) -> %s", r.Step, r.Name, r.Action)
}

// ruleContext holds the precomputed signals the cascade evaluates.
type ruleContext struct {
	cfg        domain.GlobalConfig
	clicks3h   int
	clicks7d   int
	cvrBoost   float64
	hasAcos    bool    // false when the 7d ACOS denominator was zero
	acosActual float64 // valid only when hasAcos
	acosTarget float64
	acosDiff   float64 // 0 when hasAcos is false
	rank       domain.ScoreRank
	riskPen    float64
	compStr    float64
}

// rule is one (predicate, result) pair of the cascade. Match returns the
// action and true when the rule fires.
type rule struct {
	step  int
	name  string
	match func(c *ruleContext) (domain.ActionType, bool)
}

// actionRules is the ordered first-match-wins cascade. Destructive
// conditions (hard stop, soft down, strong down) are deliberately tested
// before weaker ones so they cannot be absorbed into a milder bucket.
// Never reorder without re-reading that constraint.
var actionRules = []rule{
	{1, "insufficient clicks", func(c *ruleContext) (domain.ActionType, bool) {
		if c.clicks3h < c.cfg.MinClicksForDecision {
			return domain.ActionKeep, true
		}
		return "", false
	}},
	{2, "acos hard stop", func(c *ruleContext) (domain.ActionType, bool) {
		if c.hasAcos && c.acosActual >= c.acosTarget*c.cfg.HardStopMultiplier {
			return domain.ActionStop, true
		}
		return "", false
	}},
	{3, "acos soft down", func(c *ruleContext) (domain.ActionType, bool) {
		if c.hasAcos && c.acosActual >= c.acosTarget*c.cfg.SoftDownMultiplier {
			return domain.ActionStrongDown, true
		}
		return "", false
	}},
	{5, "cvr surge within target", func(c *ruleContext) (domain.ActionType, bool) {
		if c.cvrBoost > 0.3 && c.acosDiff <= 0 {
			if c.rank == domain.RankS || c.rank == domain.RankA {
				return domain.ActionStrongUp, true
			}
			return domain.ActionMildUp, true
		}
		return "", false
	}},
	{6, "cvr lift near target", func(c *ruleContext) (domain.ActionType, bool) {
		if c.cvrBoost > 0.1 && c.acosDiff <= c.acosTarget*0.2 {
			return domain.ActionMildUp, true
		}
		return "", false
	}},
	{7, "acos headroom", func(c *ruleContext) (domain.ActionType, bool) {
		if c.acosDiff < -c.acosTarget*0.2 && c.riskPen < 0.3 {
			if c.rank == domain.RankS {
				return domain.ActionStrongUp, true
			}
			return domain.ActionMildUp, true
		}
		return "", false
	}},
	{8, "cvr collapse over target", func(c *ruleContext) (domain.ActionType, bool) {
		if c.cvrBoost < -0.4 && c.hasAcos && c.acosDiff > c.acosTarget*0.5 {
			return domain.ActionStrongDown, true
		}
		return "", false
	}},
	{9, "cvr drop or acos drift", func(c *ruleContext) (domain.ActionType, bool) {
		if c.cvrBoost < -0.2 || (c.hasAcos && c.acosDiff > c.acosTarget*0.3) {
			return domain.ActionMildDown, true
		}
		return "", false
	}},
	{10, "competitor pressure", func(c *ruleContext) (domain.ActionType, bool) {
		if c.compStr > 0.7 && c.clicks7d < c.cfg.LowConfidenceClicks {
			if c.acosDiff <= 0 {
				return domain.ActionMildUp, true
			}
			return domain.ActionMildDown, true
		}
		return "", false
	}},
	{11, "default keep", func(c *ruleContext) (domain.ActionType, bool) {
		return domain.ActionKeep, true
	}},
}

// DetermineAction runs the cascade and returns the first matching action
// with the rule that produced it. Step 4 of the documented algorithm
// (cvr_boost / acos_diff computation) happens up front; a nil 7d ACOS is
// a data-insufficiency signal and never triggers an ACOS-driven
// destructive rule.
func DetermineAction(m *domain.KeywordMetrics, cfg domain.GlobalConfig) (domain.ActionType, RuleMatch) {
	target := m.EffectiveAcosTarget(cfg.AcosTargetDefault)

	ctx := &ruleContext{
		cfg:        cfg,
		clicks3h:   m.Clicks3h,
		clicks7d:   m.Full7d.Clicks,
		cvrBoost:   m.CVRBoost(),
		acosTarget: target,
		rank:       m.Rank,
		riskPen:    m.RiskPenalty,
		compStr:    m.CompetitorStrength,
	}
	if acos := m.ACOSActual(); acos != nil {
		ctx.hasAcos = true
		ctx.acosActual = *acos
		ctx.acosDiff = *acos - target
	}

	for _, r := range actionRules {
		if action, ok := r.match(ctx); ok {
			return action, RuleMatch{Step: r.step, Name: r.name, Action: action}
		}
	}

	// Unreachable: the last rule always matches.
	return domain.ActionKeep, RuleMatch{Step: 11, Name: "default keep", Action: domain.ActionKeep}
}
