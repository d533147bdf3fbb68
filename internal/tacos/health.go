// Package tacos computes the per-ASIN cost-efficiency health assessment
// from 90 days of revenue/spend history. The result gates the STRONG_UP
// multiplier in the decision pipeline.
package tacos

import (
	"math"

	"sponsored-bid-lab/internal/domain"
)

// ratioBin accumulates per-day observations for one ratio bucket.
type ratioBin struct {
	days   int
	profit float64 // sum of revenue * (marginPotential - ratio)
}

// Evaluate derives the health result for one ASIN. It returns nil when
// the input cannot support an assessment (no scoreable days, no bin with
// enough observations, or no current ratio) - absence of the gate, never
// an error.
func Evaluate(input domain.TacosHealthInput, cfg domain.TacosHealthConfig) *domain.TacosHealthResult {
	if input.CurrentRatio == nil || cfg.BinWidth <= 0 {
		return nil
	}

	targetMid, ok := estimateTargetMid(input.Daily, cfg)
	if !ok {
		return nil
	}

	ceiling := targetMid + cfg.CeilingOffset
	if input.LTVCapRatio > 0 && input.LTVCapRatio < ceiling {
		ceiling = input.LTVCapRatio
	}

	current := *input.CurrentRatio
	score := healthScore(current, targetMid, ceiling, cfg.LowMargin)
	zone := healthZone(current, targetMid, ceiling)
	mult := strongUpMult(score, zone, input.ProductBidMultiplier, cfg)

	return &domain.TacosHealthResult{
		ASIN:         input.ASIN,
		TargetMid:    targetMid,
		Ceiling:      ceiling,
		Score:        score,
		Zone:         zone,
		StrongUpMult: mult,
	}
}

// estimateTargetMid bins observed daily ratios and picks the midpoint of
// the bin with maximum historical profit. Bins with fewer than
// MinDaysPerBin observed days are excluded.
func estimateTargetMid(daily []domain.DailyAsinStat, cfg domain.TacosHealthConfig) (float64, bool) {
	bins := make(map[int]*ratioBin)

	for _, day := range daily {
		ratio := day.Ratio()
		if ratio == nil {
			continue
		}
		idx := int(math.Floor(*ratio / cfg.BinWidth))
		b := bins[idx]
		if b == nil {
			b = &ratioBin{}
			bins[idx] = b
		}
		b.days++
		b.profit += day.Revenue * (cfg.MarginPotential - *ratio)
	}

	bestIdx := 0
	bestProfit := math.Inf(-1)
	found := false
	for idx, b := range bins {
		if b.days < cfg.MinDaysPerBin {
			continue
		}
		// Deterministic tie-break: lower ratio bin wins.
		if b.profit > bestProfit || (b.profit == bestProfit && idx < bestIdx) {
			bestIdx = idx
			bestProfit = b.profit
			found = true
		}
	}
	if !found {
		return 0, false
	}

	mid := (float64(bestIdx) + 0.5) * cfg.BinWidth
	return mid, true
}

// healthScore is piecewise linear: +1 at or below targetMid - lowMargin,
// 0 at targetMid, -1 at or above the ceiling.
func healthScore(current, targetMid, ceiling, lowMargin float64) float64 {
	lowEdge := targetMid - lowMargin
	switch {
	case current <= lowEdge:
		return 1.0
	case current <= targetMid:
		if lowMargin == 0 {
			return 0
		}
		return (targetMid - current) / lowMargin
	case current >= ceiling:
		return -1.0
	default:
		span := ceiling - targetMid
		if span == 0 {
			return -1.0
		}
		return -(current - targetMid) / span
	}
}

// healthZone classifies the current ratio against mid and ceiling.
func healthZone(current, targetMid, ceiling float64) domain.TacosZone {
	switch {
	case current <= targetMid:
		return domain.ZoneGreen
	case current <= ceiling:
		return domain.ZoneOrange
	default:
		return domain.ZoneRed
	}
}

// strongUpMult computes base * (1 + alpha * score) clamped to
// [MultMin, MultMax], then gates it: RED pins the floor, ORANGE caps it,
// and an ASIN-level tightening signal (< 1.0) applies the same cap
// regardless of zone.
func strongUpMult(score float64, zone domain.TacosZone, productBidMult float64, cfg domain.TacosHealthConfig) float64 {
	mult := cfg.MultBase * (1 + cfg.Alpha*score)
	if mult < cfg.MultMin {
		mult = cfg.MultMin
	}
	if mult > cfg.MultMax {
		mult = cfg.MultMax
	}

	switch zone {
	case domain.ZoneRed:
		return cfg.MultMin
	case domain.ZoneOrange:
		if mult > cfg.OrangeCap {
			mult = cfg.OrangeCap
		}
	}

	if productBidMult > 0 && productBidMult < 1.0 && mult > cfg.OrangeCap {
		mult = cfg.OrangeCap
	}
	return mult
}
