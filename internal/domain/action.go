package domain

// ActionType is the recommended bid action, ordered by aggressiveness.
// The order is symmetric around KEEP: STRONG_UP > MILD_UP > KEEP >
// MILD_DOWN > STRONG_DOWN > STOP.
type ActionType string

const (
	ActionStrongUp   ActionType = "STRONG_UP"
	ActionMildUp     ActionType = "MILD_UP"
	ActionKeep       ActionType = "KEEP"
	ActionMildDown   ActionType = "MILD_DOWN"
	ActionStrongDown ActionType = "STRONG_DOWN"
	ActionStop       ActionType = "STOP"
)

// actionOrder maps actions to an ordinal: positive = upward, negative = downward.
var actionOrder = map[ActionType]int{
	ActionStrongUp:   2,
	ActionMildUp:     1,
	ActionKeep:       0,
	ActionMildDown:   -1,
	ActionStrongDown: -2,
	ActionStop:       -3,
}

// Ordinal returns the signed aggressiveness ordinal of the action.
func (a ActionType) Ordinal() int {
	return actionOrder[a]
}

// IsUp reports whether the action increases the bid.
func (a ActionType) IsUp() bool {
	return a == ActionStrongUp || a == ActionMildUp
}

// IsDown reports whether the action decreases the bid (including STOP).
func (a ActionType) IsDown() bool {
	return a == ActionMildDown || a == ActionStrongDown || a == ActionStop
}

// IsDestructive reports whether the action is in the destructive class
// that guard layers may veto: STRONG_DOWN or STOP.
func (a ActionType) IsDestructive() bool {
	return a == ActionStrongDown || a == ActionStop
}

// ScoreRank is the precomputed keyword quality tier (S best ... C weakest).
type ScoreRank string

const (
	RankS ScoreRank = "S"
	RankA ScoreRank = "A"
	RankB ScoreRank = "B"
	RankC ScoreRank = "C"
)

// BrandClass classifies keyword traffic relative to the advertiser's brand.
type BrandClass string

const (
	BrandSelf     BrandClass = "BRAND"    // the advertiser's own brand terms
	BrandConquest BrandClass = "CONQUEST" // competitor brand terms
	BrandGeneric  BrandClass = "GENERIC"  // non-brand category terms
)

// LifecyclePhase is the keyword lifecycle stage used by the phase
// coefficient in S_MODE.
type LifecyclePhase string

const (
	PhaseLaunch  LifecyclePhase = "LAUNCH"
	PhaseGrowth  LifecyclePhase = "GROWTH"
	PhaseMature  LifecyclePhase = "MATURE"
	PhaseHarvest LifecyclePhase = "HARVEST"
)
