package engine

import (
	"fmt"

	"sponsored-bid-lab/internal/domain"
)

// RateEnvelope bounds the combined change rate. Guard layers narrow it
// before clipping; the floor never drops below -1.0 because a bid cannot
// be reduced by more than 100%.
type RateEnvelope struct {
	Ceiling float64
	Floor   float64
}

// NewRateEnvelope returns the mode-dependent default envelope. S_MODE
// keywords eligible for the 200%-cap tier get the TOS ceiling.
func NewRateEnvelope(cfg domain.GlobalConfig, tosEligible bool) RateEnvelope {
	env := RateEnvelope{Floor: -1.0}
	switch {
	case cfg.Mode == domain.ModeS && tosEligible:
		env.Ceiling = cfg.MaxChangeRateSModeTOS
	case cfg.Mode == domain.ModeS:
		env.Ceiling = cfg.MaxChangeRateSModeDefault
	default:
		env.Ceiling = cfg.MaxChangeRateNormal
	}
	return env
}

// CapUpMult narrows the ceiling to (mult - 1). Only ever reduces it.
func (e *RateEnvelope) CapUpMult(mult float64) {
	if ceil := mult - 1.0; ceil < e.Ceiling {
		e.Ceiling = ceil
	}
}

// CapDownMult raises the floor to (mult - 1). Only ever reduces the
// allowed decrease, never below the -1.0 hard floor.
func (e *RateEnvelope) CapDownMult(mult float64) {
	if floor := mult - 1.0; floor > e.Floor {
		e.Floor = floor
	}
}

// CapDownPct raises the floor to -pct.
func (e *RateEnvelope) CapDownPct(pct float64) {
	if floor := -pct; floor > e.Floor {
		e.Floor = floor
	}
}

// ClipResult carries the clipped rate and the clip metadata.
type ClipResult struct {
	Rate    float64
	Clipped bool
	Reason  string
}

// ClipChangeRate bounds the combined rate to the envelope.
func ClipChangeRate(rate float64, env RateEnvelope) ClipResult {
	if rate > env.Ceiling {
		return ClipResult{
			Rate:    env.Ceiling,
			Clipped: true,
			Reason:  fmt.Sprintf("rate %.4f clipped to ceiling %.4f", rate, env.Ceiling),
		}
	}
	if rate < env.Floor {
		return ClipResult{
			Rate:    env.Floor,
			Clipped: true,
			Reason:  fmt.Sprintf("rate %.4f clipped to floor %.4f", rate, env.Floor),
		}
	}
	return ClipResult{Rate: rate}
}

// BidResult carries the projected bid and the bid-clip metadata.
type BidResult struct {
	NewBid  float64
	Clipped bool
	Reason  string
}

// ProjectBid applies the clipped rate to the current bid and bounds the
// result. STOP forces 0 and KEEP leaves the bid unchanged. The CPC
// ceiling is min(bid*3.0, competitorCPC*1.15, baselineCPC*2.5) but never
// below the absolute floor, which protects against degenerate
// competitor/baseline data driving the ceiling to near-zero.
func ProjectBid(m *domain.KeywordMetrics, action domain.ActionType, rate float64, cfg domain.GlobalConfig) BidResult {
	switch action {
	case domain.ActionStop:
		return BidResult{NewBid: 0}
	case domain.ActionKeep:
		return BidResult{NewBid: m.CurrentBid}
	}

	newBid := m.CurrentBid * (1 + rate)
	if newBid < 0 {
		newBid = 0
	}

	ceiling := cpcCeiling(m, cfg)
	if newBid > ceiling {
		return BidResult{
			NewBid:  ceiling,
			Clipped: true,
			Reason:  fmt.Sprintf("bid %.2f clipped to cpc ceiling %.2f", newBid, ceiling),
		}
	}

	if newBid > 0 && newBid < cfg.MinBid {
		return BidResult{
			NewBid:  cfg.MinBid,
			Clipped: true,
			Reason:  fmt.Sprintf("bid %.2f raised to minimum %.2f", newBid, cfg.MinBid),
		}
	}

	return BidResult{NewBid: newBid}
}

// cpcCeiling computes the bid ceiling from competitor and baseline cost
// signals, floored at the absolute minimum.
func cpcCeiling(m *domain.KeywordMetrics, cfg domain.GlobalConfig) float64 {
	ceiling := m.CurrentBid * 3.0
	if c := m.CompetitorCPC * 1.15; c < ceiling {
		ceiling = c
	}
	if c := m.BaselineCPC * 2.5; c < ceiling {
		ceiling = c
	}
	if ceiling < cfg.AbsoluteCPCFloor {
		ceiling = cfg.AbsoluteCPCFloor
	}
	return ceiling
}
