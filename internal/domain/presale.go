package domain

// PresaleClass is the pre-sale demand-shift diagnosis for an ASIN.
type PresaleClass string

const (
	PresaleNone     PresaleClass = "NONE"      // no demand shift detected
	PresaleBuying   PresaleClass = "BUYING"    // shoppers buying ahead of the sale
	PresaleHoldBack PresaleClass = "HOLD_BACK" // shoppers waiting for the sale
	PresaleMixed    PresaleClass = "MIXED"     // both signals present
)

// PresaleBidPolicy caps or disables actions during a pre-sale window.
type PresaleBidPolicy struct {
	AllowStrongDown bool
	AllowStopNeg    bool    // permit STOP (zeroing/negating the bid)
	MaxDownPct      float64 // cap on downward change magnitude, 0..1
	AllowStrongUp   bool
	MaxUpMult       float64 // cap on (1 + rate) for increases
}

// presalePolicies is the fixed policy table keyed by diagnosis class.
var presalePolicies = map[PresaleClass]PresaleBidPolicy{
	PresaleNone: {
		AllowStrongDown: true,
		AllowStopNeg:    true,
		MaxDownPct:      1.0,
		AllowStrongUp:   true,
		MaxUpMult:       10, // effectively uncapped; the clipper bounds it
	},
	PresaleBuying: {
		AllowStrongDown: false,
		AllowStopNeg:    false,
		MaxDownPct:      0.15,
		AllowStrongUp:   true,
		MaxUpMult:       1.5,
	},
	PresaleHoldBack: {
		AllowStrongDown: false,
		AllowStopNeg:    false,
		MaxDownPct:      0.07,
		AllowStrongUp:   false,
		MaxUpMult:       1.1,
	},
	PresaleMixed: {
		AllowStrongDown: false,
		AllowStopNeg:    false,
		MaxDownPct:      0.1,
		AllowStrongUp:   false,
		MaxUpMult:       1.2,
	},
}

// PolicyForPresale returns the bid policy for a diagnosis class.
// Unknown classes fall back to the NONE policy.
func PolicyForPresale(class PresaleClass) PresaleBidPolicy {
	if p, ok := presalePolicies[class]; ok {
		return p
	}
	return presalePolicies[PresaleNone]
}

// PresaleWindowStats aggregates one comparison window for the diagnosis.
type PresaleWindowStats struct {
	Clicks      int
	Conversions int
	Spend       float64
	Sales       float64
}

// CVR returns conversions/clicks, or nil if there were no clicks.
func (w PresaleWindowStats) CVR() *float64 {
	if w.Clicks == 0 {
		return nil
	}
	v := float64(w.Conversions) / float64(w.Clicks)
	return &v
}

// ACOS returns spend/sales, or nil if there were no sales.
func (w PresaleWindowStats) ACOS() *float64 {
	if w.Sales == 0 {
		return nil
	}
	v := w.Spend / w.Sales
	return &v
}

// PresaleDiagnosisInput compares a pre-sale window against a baseline.
type PresaleDiagnosisInput struct {
	ASIN     string
	Baseline PresaleWindowStats
	Presale  PresaleWindowStats
}

// PresaleDiagnosis is the per-ASIN classification with its bid policy.
type PresaleDiagnosis struct {
	ASIN      string
	Class     PresaleClass
	Policy    PresaleBidPolicy
	CVRRatio  *float64 // presale CVR / baseline CVR, nil when undefined
	AcosRatio *float64 // presale ACOS / baseline ACOS, nil when undefined
}
