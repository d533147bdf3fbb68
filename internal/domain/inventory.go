package domain

// InventoryStatus is the stock risk tier derived from runway days,
// ordered by severity: OUT_OF_STOCK < LOW_STOCK_STRICT < LOW_STOCK < NORMAL.
// UNKNOWN means the snapshot is missing and never triggers a guard.
type InventoryStatus string

const (
	StockUnknown   InventoryStatus = "UNKNOWN"
	StockOut       InventoryStatus = "OUT_OF_STOCK"
	StockLowStrict InventoryStatus = "LOW_STOCK_STRICT"
	StockLow       InventoryStatus = "LOW_STOCK"
	StockNormal    InventoryStatus = "NORMAL"
)

// Runway thresholds in days for status derivation.
const (
	lowStockStrictDays = 7.0
	lowStockDays       = 14.0
)

// AsinInventorySnapshot is the per-ASIN stock runway, refreshed per run
// from an external source and treated as read-only input.
type AsinInventorySnapshot struct {
	ASIN       string
	RunwayDays *float64 // nil when the source had no data
}

// Status derives the stock risk tier from the runway.
func (s AsinInventorySnapshot) Status() InventoryStatus {
	if s.RunwayDays == nil {
		return StockUnknown
	}
	switch d := *s.RunwayDays; {
	case d <= 0:
		return StockOut
	case d < lowStockStrictDays:
		return StockLowStrict
	case d < lowStockDays:
		return StockLow
	default:
		return StockNormal
	}
}

// InventoryGuardMode controls how aggressively the inventory guard acts.
type InventoryGuardMode string

const (
	InventoryGuardOff    InventoryGuardMode = "OFF"
	InventoryGuardOn     InventoryGuardMode = "ON"
	InventoryGuardStrict InventoryGuardMode = "STRICT"
)

// ParseInventoryGuardMode maps an external string to a guard mode.
// Unknown values default to OFF for safety.
func ParseInventoryGuardMode(s string) InventoryGuardMode {
	switch s {
	case string(InventoryGuardOn):
		return InventoryGuardOn
	case string(InventoryGuardStrict):
		return InventoryGuardStrict
	default:
		return InventoryGuardOff
	}
}

// OutOfStockPolicy selects the hard-kill behavior for OUT_OF_STOCK ASINs.
type OutOfStockPolicy string

const (
	PolicySetZero            OutOfStockPolicy = "SET_ZERO"
	PolicySkipRecommendation OutOfStockPolicy = "SKIP_RECOMMENDATION"
)
