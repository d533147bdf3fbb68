package domain

// Mode is the global operating mode for an evaluation run.
type Mode string

const (
	ModeNormal Mode = "NORMAL"
	ModeS      Mode = "S_MODE" // aggressive sale-season operation
)

// ExecutionMode gates whether recommendations are sent to the ad platform.
type ExecutionMode string

const (
	ExecutionShadow ExecutionMode = "SHADOW" // compute and record only
	ExecutionApply  ExecutionMode = "APPLY"  // also call the bidding API
)

// ParseExecutionMode maps an external string to an ExecutionMode.
// Unknown values default to SHADOW for safety.
func ParseExecutionMode(s string) ExecutionMode {
	switch s {
	case string(ExecutionApply):
		return ExecutionApply
	default:
		return ExecutionShadow
	}
}

// GlobalConfig holds process-wide thresholds, loaded once per evaluation
// run and immutable for its duration.
type GlobalConfig struct {
	Mode Mode

	// Decision confidence.
	MinClicksForDecision int // below this 3h click count the action is always KEEP
	LowConfidenceClicks  int // below this 7d click count stats_coeff = 0.5
	HighConfidenceClicks int // at or above this 7d click count stats_coeff = 1.1

	// Target cost-to-sales ratio fallback for keywords without one.
	AcosTargetDefault float64

	// ACOS multiplier thresholds for destructive actions.
	HardStopMultiplier float64 // acos >= target*this => STOP
	SoftDownMultiplier float64 // acos >= target*this => STRONG_DOWN

	// Change-rate ceilings per mode.
	MaxChangeRateNormal       float64
	MaxChangeRateSModeDefault float64
	MaxChangeRateSModeTOS     float64 // 200%-cap tier for TOS-eligible keywords

	// Bid bounds.
	MinBid           float64 // any positive projected bid below this is raised to it
	AbsoluteCPCFloor float64 // the CPC ceiling never drops below this

	// Attribution-delay safety valve baseline constants. Sale-day relaxed
	// variants live on EventBidPolicy.
	NoConvMinClicks         int     // 7d-excl clicks required before a no-conversion signal counts
	NoConvMax30dConversions int     // 30d conversions at or below this keep the signal alive
	AcosHighMult7dExcl      float64 // 7d-excl acos must exceed target*this
	AcosHighMult30d         float64 // 30d acos must exceed target*this
	RecentGoodCVRRatio      float64 // last-3d CVR >= this * 7d-excl CVR counts as recent-good

	// Top-of-search coefficient thresholds (S_MODE only).
	TOSMinPriorityScore float64
	TOSMaxRiskPenalty   float64
	TOSMinCTRxCVR       float64
}

// DefaultGlobalConfig returns the production baseline configuration.
func DefaultGlobalConfig() GlobalConfig {
	return GlobalConfig{
		Mode:                      ModeNormal,
		MinClicksForDecision:      5,
		LowConfidenceClicks:       10,
		HighConfidenceClicks:      30,
		AcosTargetDefault:         0.25,
		HardStopMultiplier:        3.0,
		SoftDownMultiplier:        2.0,
		MaxChangeRateNormal:       0.3,
		MaxChangeRateSModeDefault: 0.5,
		MaxChangeRateSModeTOS:     2.0,
		MinBid:                    10,
		AbsoluteCPCFloor:          50,
		NoConvMinClicks:           15,
		NoConvMax30dConversions:   1,
		AcosHighMult7dExcl:        1.2,
		AcosHighMult30d:           1.05,
		RecentGoodCVRRatio:        1.2,
		TOSMinPriorityScore:       0.6,
		TOSMaxRiskPenalty:         0.4,
		TOSMinCTRxCVR:             0.002,
	}
}
