// Package engine implements the per-keyword bid-adjustment decision
// core: the action determiner, the coefficient combinator, the
// change-rate clipper and the bid projector. Everything in this package
// is a pure function of its inputs.
package engine

import "sponsored-bid-lab/internal/domain"

// baseChangeRates is the fixed lookup table keyed by (ScoreRank,
// ActionType). Magnitudes stay within [-1.0, 0.5]; STOP always maps to
// -1.0 and KEEP to 0. Stronger ranks earn larger increases and smaller
// decreases because their score is more trusted.
var baseChangeRates = map[domain.ScoreRank]map[domain.ActionType]float64{
	domain.RankS: {
		domain.ActionStrongUp:   0.5,
		domain.ActionMildUp:     0.25,
		domain.ActionKeep:       0,
		domain.ActionMildDown:   -0.15,
		domain.ActionStrongDown: -0.4,
		domain.ActionStop:       -1.0,
	},
	domain.RankA: {
		domain.ActionStrongUp:   0.4,
		domain.ActionMildUp:     0.2,
		domain.ActionKeep:       0,
		domain.ActionMildDown:   -0.2,
		domain.ActionStrongDown: -0.45,
		domain.ActionStop:       -1.0,
	},
	domain.RankB: {
		domain.ActionStrongUp:   0.3,
		domain.ActionMildUp:     0.15,
		domain.ActionKeep:       0,
		domain.ActionMildDown:   -0.25,
		domain.ActionStrongDown: -0.5,
		domain.ActionStop:       -1.0,
	},
	domain.RankC: {
		domain.ActionStrongUp:   0.2,
		domain.ActionMildUp:     0.1,
		domain.ActionKeep:       0,
		domain.ActionMildDown:   -0.3,
		domain.ActionStrongDown: -0.6,
		domain.ActionStop:       -1.0,
	},
}

// BaseChangeRate returns the table rate for a (rank, action) pair.
// Unknown ranks use the RankC row (weakest trust).
func BaseChangeRate(rank domain.ScoreRank, action domain.ActionType) float64 {
	row, ok := baseChangeRates[rank]
	if !ok {
		row = baseChangeRates[domain.RankC]
	}
	return row[action]
}
