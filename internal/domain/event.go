package domain

import "time"

// EventMode identifies the storewide sale phase for an evaluation run.
type EventMode string

const (
	EventNone        EventMode = "NONE"
	EventBigSalePrep EventMode = "BIG_SALE_PREP"
	EventBigSaleDay  EventMode = "BIG_SALE_DAY"
)

// EventModeSource selects how the event mode is resolved for a run.
type EventModeSource string

const (
	EventSourceManual   EventModeSource = "MANUAL"
	EventSourceCalendar EventModeSource = "CALENDAR"
)

// ParseEventModeSource maps an external string to an EventModeSource.
// Unknown values default to MANUAL for safety.
func ParseEventModeSource(s string) EventModeSource {
	switch s {
	case string(EventSourceCalendar):
		return EventSourceCalendar
	default:
		return EventSourceManual
	}
}

// EventBidPolicy bundles the sale-event overrides for one evaluation run.
type EventBidPolicy struct {
	Mode EventMode

	// Bid multiplier caps.
	UpMultCap   float64 // max allowed (1 + rate) for increases
	DownMultCap float64 // min allowed (1 + rate) for decreases

	// ACOS-high detection multipliers, relaxed on sale days.
	AcosHighMult7dExcl float64
	AcosHighMult30d    float64

	// Destructive-action gates. Both false on BIG_SALE_DAY so demand
	// surges are not mistaken for keyword decay.
	AllowStrongDown       bool
	AllowNoConversionDown bool
}

// eventPolicies is the fixed policy table keyed by event mode.
var eventPolicies = map[EventMode]EventBidPolicy{
	EventNone: {
		Mode:                  EventNone,
		UpMultCap:             1.3,
		DownMultCap:           0.5,
		AcosHighMult7dExcl:    1.2,
		AcosHighMult30d:       1.05,
		AllowStrongDown:       true,
		AllowNoConversionDown: true,
	},
	EventBigSalePrep: {
		Mode:                  EventBigSalePrep,
		UpMultCap:             1.5,
		DownMultCap:           0.7,
		AcosHighMult7dExcl:    1.35,
		AcosHighMult30d:       1.1,
		AllowStrongDown:       true,
		AllowNoConversionDown: false,
	},
	EventBigSaleDay: {
		Mode:                  EventBigSaleDay,
		UpMultCap:             1.8,
		DownMultCap:           0.9,
		AcosHighMult7dExcl:    1.5,
		AcosHighMult30d:       1.15,
		AllowStrongDown:       false,
		AllowNoConversionDown: false,
	},
}

// PolicyForEvent returns the policy bundle for the given event mode.
// Unknown modes fall back to the NONE policy.
func PolicyForEvent(mode EventMode) EventBidPolicy {
	if p, ok := eventPolicies[mode]; ok {
		return p
	}
	return eventPolicies[EventNone]
}

// SaleGrade ranks sale events: S feeds the event mode by default,
// A and B are informational.
type SaleGrade string

const (
	GradeS SaleGrade = "S"
	GradeA SaleGrade = "A"
	GradeB SaleGrade = "B"
)

// gradeOrder ranks grades for tie-breaking; higher is better.
var gradeOrder = map[SaleGrade]int{GradeS: 3, GradeA: 2, GradeB: 1}

// Rank returns the numeric rank of the grade (unknown grades rank 0).
func (g SaleGrade) Rank() int {
	return gradeOrder[g]
}

// SaleCalendarEntry is one hand-maintained sale event.
type SaleCalendarEntry struct {
	Name     string
	Grade    SaleGrade
	Start    time.Time
	End      time.Time
	PrepDays int // length of the preparation window before Start
}
