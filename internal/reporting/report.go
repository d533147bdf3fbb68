package reporting

import (
	"time"

	"sponsored-bid-lab/internal/domain"
)

// RunReport summarizes one evaluation run for review.
type RunReport struct {
	// Metadata
	RunID         string
	GeneratedAt   time.Time
	ExecutionMode domain.ExecutionMode
	EventMode     domain.EventMode

	Summary RunSummary

	// Per-action counts in severity order.
	ActionBreakdown []ActionCountRow

	// Keywords whose change rate or bid was clipped.
	ClippedRows []RecommendationRow

	// Keywords altered by at least one guard layer.
	GuardedRows []RecommendationRow

	// Non-fatal errors collected during the run.
	Errors []string
}

// RunSummary contains run-level totals.
type RunSummary struct {
	KeywordsEvaluated int
	Skipped           int
	Clipped           int
	Guarded           int
	Applied           int
	Rejected          int
	AvgChangeRate     float64 // over non-skipped keywords
}

// ActionCountRow is one row of the action breakdown table.
type ActionCountRow struct {
	Action domain.ActionType
	Count  int
}

// RecommendationRow is one keyword line in a detail table.
type RecommendationRow struct {
	KeywordID  string
	Keyword    string
	ASIN       string
	Action     domain.ActionType
	ChangeRate float64
	CurrentBid float64
	NewBid     float64
	Detail     string // clip reason or guard trail
}
