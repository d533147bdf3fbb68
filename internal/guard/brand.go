package guard

import "sponsored-bid-lab/internal/domain"

// Brand softens destructive actions for self-brand keywords: STRONG_DOWN
// and STOP are downgraded to MILD_DOWN so brand traffic is never shut
// off abruptly. All other actions pass through unchanged.
func Brand(brand domain.BrandClass) Guard {
	return func(d Decision) Decision {
		if brand != domain.BrandSelf {
			return d
		}
		if !d.Action.IsDestructive() {
			return d
		}
		prev := d.Action
		d.Action = domain.ActionMildDown
		return d.note("brand dampener: %s -> %s for self-brand keyword", prev, d.Action)
	}
}
