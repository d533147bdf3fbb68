package domain

// CoefficientBreakdown records the seven multiplicative adjustment
// factors that produced a change rate, for debugging and audit.
type CoefficientBreakdown struct {
	Phase      float64
	CVR        float64
	RankGap    float64
	Competitor float64
	Brand      float64
	Stats      float64
	TOS        float64
}

// Product returns the combined multiplier.
func (c CoefficientBreakdown) Product() float64 {
	return c.Phase * c.CVR * c.RankGap * c.Competitor * c.Brand * c.Stats * c.TOS
}

// KeywordRecommendation is the engine output for one keyword. Downstream
// persistence and notification consume it verbatim.
type KeywordRecommendation struct {
	KeywordID  string
	CampaignID string
	AdGroupID  string
	ASIN       string
	Keyword    string

	Action     ActionType
	ChangeRate float64 // applied rate after all clipping
	CurrentBid float64
	NewBid     float64

	// Clip metadata: whether any clip occurred and the first reason
	// encountered (rate clips take precedence in the message).
	Clipped    bool
	ClipReason string

	// Skip means no bid change should be submitted at all
	// (inventory guard SKIP_RECOMMENDATION policy).
	Skip bool

	// Top-of-search targeting flags.
	TOSTargeted bool
	TOSEligible bool // eligible for the S_MODE 200%-cap tier

	Coefficients CoefficientBreakdown

	// Guard layers that altered the decision, in application order.
	GuardTrail []string

	// Free-text explanations.
	FactsObserved   string
	DecisionPath    string
	PredictedImpact string
}
