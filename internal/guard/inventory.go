package guard

import "sponsored-bid-lab/internal/domain"

// Soft-throttle constants per stock tier.
const (
	lowStockUpCap       = 1.15
	lowStockStrictUpCap = 1.05
	acosShrinkFactor    = 0.9
)

// Inventory guards against spending into a depleting stock runway.
// Two stages, evaluated in order and short-circuiting:
//
//  1. Hard kill: OUT_OF_STOCK forces the bid to zero (SET_ZERO) or marks
//     the recommendation skipped (SKIP_RECOMMENDATION).
//  2. Soft throttle: LOW_STOCK/LOW_STOCK_STRICT cap the effective up
//     ratio; the strict tier additionally shrinks the effective ACOS
//     target (compounded under STRICT guard mode).
//
// The throttle only ever reduces a proposed increase. A nil snapshot or
// UNKNOWN status never triggers anything, and mode OFF disables the
// guard entirely.
func Inventory(snapshot *domain.AsinInventorySnapshot, mode domain.InventoryGuardMode, policy domain.OutOfStockPolicy) Guard {
	return func(d Decision) Decision {
		if mode == domain.InventoryGuardOff || snapshot == nil {
			return d
		}

		status := snapshot.Status()
		switch status {
		case domain.StockOut:
			d.HardKill = true
			if policy == domain.PolicySkipRecommendation {
				d.Skip = true
				return d.note("inventory guard: %s, recommendation skipped", status)
			}
			d.SetZero = true
			return d.note("inventory guard: %s, bid forced to zero", status)

		case domain.StockLowStrict:
			d = d.capUp(lowStockStrictUpCap)
			scale := acosShrinkFactor
			if mode == domain.InventoryGuardStrict {
				scale *= acosShrinkFactor
			}
			d.AcosTargetScale *= scale
			return d.note("inventory guard: %s, up ratio capped at %.2f, acos target scaled by %.2f",
				status, lowStockStrictUpCap, scale)

		case domain.StockLow:
			d = d.capUp(lowStockUpCap)
			return d.note("inventory guard: %s, up ratio capped at %.2f", status, lowStockUpCap)

		default:
			// NORMAL and UNKNOWN never trigger.
			return d
		}
	}
}
