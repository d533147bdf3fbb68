package guard

import "sponsored-bid-lab/internal/domain"

// Presale applies the pre-sale demand-shift policy: defensive actions
// are downgraded or capped in magnitude and offensive actions are capped
// per the diagnosis class (e.g. HOLD_BACK disables STOP and STRONG_DOWN
// and caps downs at 7%). A nil diagnosis means no presale window is
// active and nothing applies.
func Presale(diag *domain.PresaleDiagnosis) Guard {
	return func(d Decision) Decision {
		if diag == nil || diag.Class == domain.PresaleNone {
			return d
		}
		policy := diag.Policy

		if d.Action == domain.ActionStop && !policy.AllowStopNeg {
			d.Action = domain.ActionMildDown
			d = d.note("presale %s: STOP -> %s (stop/neg disabled)", diag.Class, d.Action)
		}
		if d.Action == domain.ActionStrongDown && !policy.AllowStrongDown {
			d.Action = domain.ActionMildDown
			d = d.note("presale %s: STRONG_DOWN -> %s (strong downs disabled)", diag.Class, d.Action)
		}
		if d.Action == domain.ActionStrongUp && !policy.AllowStrongUp {
			d.Action = domain.ActionMildUp
			d = d.note("presale %s: STRONG_UP -> %s (strong ups disabled)", diag.Class, d.Action)
		}

		d = d.capDownPct(policy.MaxDownPct)
		d = d.capUp(policy.MaxUpMult)
		return d
	}
}
