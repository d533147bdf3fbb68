package domain

import "time"

// DailyAsinStat is one day of ASIN-level revenue and ad spend, sourced
// from the analytics warehouse.
type DailyAsinStat struct {
	ASIN    string
	Date    time.Time
	Revenue float64 // total (ad + organic) sales
	Spend   float64 // total ad spend
}

// Ratio returns spend/revenue for the day, or nil when revenue is zero.
func (d DailyAsinStat) Ratio() *float64 {
	if d.Revenue == 0 {
		return nil
	}
	v := d.Spend / d.Revenue
	return &v
}

// TacosZone is the cost-efficiency health zone.
type TacosZone string

const (
	ZoneGreen  TacosZone = "GREEN"  // current ratio at or below target mid
	ZoneOrange TacosZone = "ORANGE" // between mid and control ceiling
	ZoneRed    TacosZone = "RED"    // above the control ceiling
)

// TacosHealthConfig holds the tuning constants for the TACOS health gate.
type TacosHealthConfig struct {
	BinWidth       float64 // ratio bin width for the profit curve
	MinDaysPerBin  int     // minimum observed days for a bin to count
	MarginPotential float64 // gross margin available before ad spend
	LowMargin      float64 // score is +1 at or below targetMid - LowMargin
	CeilingOffset  float64 // empirical aggressive cap = targetMid + offset
	Alpha          float64 // score sensitivity of the STRONG_UP multiplier
	MultBase       float64 // base STRONG_UP multiplier
	MultMin        float64 // floor (RED zone forces this)
	MultMax        float64 // clamp ceiling
	OrangeCap      float64 // ORANGE zone / tightening-signal cap
}

// DefaultTacosHealthConfig returns the production baseline.
func DefaultTacosHealthConfig() TacosHealthConfig {
	return TacosHealthConfig{
		BinWidth:        0.02,
		MinDaysPerBin:   3,
		MarginPotential: 0.35,
		LowMargin:       0.05,
		CeilingOffset:   0.08,
		Alpha:           0.5,
		MultBase:        1.2,
		MultMin:         1.0,
		MultMax:         1.5,
		OrangeCap:       1.1,
	}
}

// TacosHealthInput is the per-ASIN evaluation input for the health gate.
type TacosHealthInput struct {
	ASIN  string
	Daily []DailyAsinStat // trailing 90 days

	// LTV-derived theoretical maximum sustainable ratio.
	LTVCapRatio float64

	// Current trailing ratio to score against the curve.
	CurrentRatio *float64

	// ASIN-level tightening signal; < 1.0 caps the multiplier regardless
	// of zone.
	ProductBidMultiplier float64
}

// TacosHealthResult is the derived per-ASIN health assessment.
type TacosHealthResult struct {
	ASIN      string
	TargetMid float64 // empirically estimated optimal ratio
	Ceiling   float64 // control ceiling
	Score     float64 // health score in [-1, +1]
	Zone      TacosZone

	// StrongUpMult is the gated multiplier applied to STRONG_UP rates.
	StrongUpMult float64
}
