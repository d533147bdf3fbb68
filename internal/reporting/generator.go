// Package reporting builds human-readable summaries of evaluation runs:
// a Markdown review document and a CSV of every recommendation.
package reporting

import (
	"sort"
	"strings"
	"time"

	"sponsored-bid-lab/internal/domain"
	"sponsored-bid-lab/internal/orchestrator"
)

// BuildRunReport assembles the report from a finished run.
func BuildRunReport(result *orchestrator.RunResult, mode domain.ExecutionMode, generatedAt time.Time) *RunReport {
	r := &RunReport{
		RunID:         result.RunID,
		GeneratedAt:   generatedAt,
		ExecutionMode: mode,
		EventMode:     result.EventMode,
		Errors:        result.Errors,
	}

	r.Summary.KeywordsEvaluated = result.KeywordsEvaluated
	r.Summary.Skipped = result.Skipped
	r.Summary.Applied = result.Applied
	r.Summary.Rejected = result.Rejected

	var rateSum float64
	var rateCount int
	for _, rec := range result.Recommendations {
		if rec.Skip {
			continue
		}
		rateSum += rec.ChangeRate
		rateCount++
	}
	if rateCount > 0 {
		r.Summary.AvgChangeRate = rateSum / float64(rateCount)
	}

	r.ActionBreakdown = buildActionBreakdown(result.ActionCounts)

	for _, rec := range result.Recommendations {
		if rec.Clipped {
			r.Summary.Clipped++
			r.ClippedRows = append(r.ClippedRows, recommendationRow(rec, rec.ClipReason))
		}
		if len(rec.GuardTrail) > 0 {
			r.Summary.Guarded++
			r.GuardedRows = append(r.GuardedRows, recommendationRow(rec, strings.Join(rec.GuardTrail, "; ")))
		}
	}

	sortRows(r.ClippedRows)
	sortRows(r.GuardedRows)

	return r
}

// actionOrder lists actions from most aggressive up to full stop.
var actionOrder = []domain.ActionType{
	domain.ActionStrongUp,
	domain.ActionMildUp,
	domain.ActionKeep,
	domain.ActionMildDown,
	domain.ActionStrongDown,
	domain.ActionStop,
}

func buildActionBreakdown(counts map[domain.ActionType]int) []ActionCountRow {
	var rows []ActionCountRow
	for _, a := range actionOrder {
		if n, ok := counts[a]; ok && n > 0 {
			rows = append(rows, ActionCountRow{Action: a, Count: n})
		}
	}
	return rows
}

func recommendationRow(rec *domain.KeywordRecommendation, detail string) RecommendationRow {
	return RecommendationRow{
		KeywordID:  rec.KeywordID,
		Keyword:    rec.Keyword,
		ASIN:       rec.ASIN,
		Action:     rec.Action,
		ChangeRate: rec.ChangeRate,
		CurrentBid: rec.CurrentBid,
		NewBid:     rec.NewBid,
		Detail:     detail,
	}
}

func sortRows(rows []RecommendationRow) {
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].KeywordID < rows[j].KeywordID
	})
}
