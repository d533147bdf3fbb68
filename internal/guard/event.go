package guard

import "sponsored-bid-lab/internal/domain"

// Event applies the sale-event policy bundle: it narrows the up/down
// multiplier caps and, when the policy disallows strong downs (every
// BIG_SALE_DAY), downgrades STRONG_DOWN/STOP to MILD_DOWN so a demand
// surge is not mistaken for keyword decay.
func Event(policy domain.EventBidPolicy) Guard {
	return func(d Decision) Decision {
		d = d.capUp(policy.UpMultCap)
		d = d.capDown(policy.DownMultCap)

		if !policy.AllowStrongDown && d.Action.IsDestructive() {
			prev := d.Action
			d.Action = domain.ActionMildDown
			d = d.note("event policy %s: %s -> %s (strong downs disabled)", policy.Mode, prev, d.Action)
		}
		return d
	}
}
