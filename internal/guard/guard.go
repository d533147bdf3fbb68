// Package guard implements the veto/dampen layers applied to a computed
// bid decision. Each guard is a pure Decision -> Decision function; the
// pipeline order is fixed because precedence is a correctness property:
//
//	brand -> event -> inventory -> tacos -> attribution -> presale
//
// The inventory hard kill short-circuits every guard downstream of it.
// A guard whose input is absent degrades to a no-op, never to an error.
package guard

import (
	"fmt"

	"sponsored-bid-lab/internal/domain"
)

// Decision is the decision state threaded through the guard pipeline.
// Guards return a new value; nothing is mutated in place.
type Decision struct {
	Action domain.ActionType

	// Caps accumulated by guards, consumed by the clipper/projector.
	// Guards only ever narrow them.
	UpMultCap   float64 // max allowed (1 + rate) for increases
	DownMultCap float64 // min allowed (1 + rate) for decreases, 0 = uncapped
	MaxDownPct  float64 // cap on downward magnitude, 1.0 = uncapped

	// StrongUpMult is the TACOS-gated multiplier for STRONG_UP rates.
	StrongUpMult float64

	// AcosTargetScale shrinks the effective target ratio (inventory guard).
	AcosTargetScale float64

	// Hard-kill flags (inventory guard, OUT_OF_STOCK).
	HardKill bool
	SetZero  bool
	Skip     bool

	// Trail records each guard that altered the decision, in order.
	Trail []string
}

// NewDecision returns an unconstrained decision for the given action.
func NewDecision(action domain.ActionType) Decision {
	return Decision{
		Action:          action,
		UpMultCap:       10, // effectively uncapped; the clipper bounds it
		DownMultCap:     0,
		MaxDownPct:      1.0,
		StrongUpMult:    1.0,
		AcosTargetScale: 1.0,
	}
}

// note appends a trail entry for a guard that altered the decision.
func (d Decision) note(format string, args ...interface{}) Decision {
	d.Trail = append(d.Trail, fmt.Sprintf(format, args...))
	return d
}

// capUp narrows the up-multiplier cap. Only ever reduces it.
func (d Decision) capUp(mult float64) Decision {
	if mult < d.UpMultCap {
		d.UpMultCap = mult
	}
	return d
}

// capDown raises the down-multiplier floor. Only ever reduces decreases.
func (d Decision) capDown(mult float64) Decision {
	if mult > d.DownMultCap {
		d.DownMultCap = mult
	}
	return d
}

// capDownPct narrows the maximum downward magnitude.
func (d Decision) capDownPct(pct float64) Decision {
	if pct < d.MaxDownPct {
		d.MaxDownPct = pct
	}
	return d
}

// Guard is one pure layer of the pipeline.
type Guard func(Decision) Decision

// Chain composes guards in order. Once a hard kill is set the remaining
// guards are skipped.
func Chain(guards ...Guard) Guard {
	return func(d Decision) Decision {
		for _, g := range guards {
			if d.HardKill {
				break
			}
			d = g(d)
		}
		return d
	}
}
