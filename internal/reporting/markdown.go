package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the run report as a Markdown string.
func RenderMarkdown(r *RunReport) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# Bid Evaluation Run %s\n\n", r.RunID))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Mode: %s | Event: %s\n\n", r.ExecutionMode, r.EventMode))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Keywords Evaluated | %d |\n", r.Summary.KeywordsEvaluated))
	sb.WriteString(fmt.Sprintf("| Skipped | %d |\n", r.Summary.Skipped))
	sb.WriteString(fmt.Sprintf("| Clipped | %d |\n", r.Summary.Clipped))
	sb.WriteString(fmt.Sprintf("| Guard-Altered | %d |\n", r.Summary.Guarded))
	sb.WriteString(fmt.Sprintf("| Applied | %d |\n", r.Summary.Applied))
	sb.WriteString(fmt.Sprintf("| Rejected | %d |\n", r.Summary.Rejected))
	sb.WriteString(fmt.Sprintf("| Avg Change Rate | %+.4f |\n", r.Summary.AvgChangeRate))
	sb.WriteString("\n")

	// Action breakdown
	sb.WriteString("## Action Breakdown\n\n")
	if len(r.ActionBreakdown) > 0 {
		sb.WriteString("| Action | Count |\n")
		sb.WriteString("|--------|-------|\n")
		for _, row := range r.ActionBreakdown {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", row.Action, row.Count))
		}
	} else {
		sb.WriteString("No recommendations produced.\n")
	}
	sb.WriteString("\n")

	// Clipped keywords
	sb.WriteString("## Clipped Keywords\n\n")
	writeRowTable(&sb, r.ClippedRows, "Clip Reason")

	// Guard-altered keywords
	sb.WriteString("## Guard-Altered Keywords\n\n")
	writeRowTable(&sb, r.GuardedRows, "Guard Trail")

	// Errors
	if len(r.Errors) > 0 {
		sb.WriteString("## Errors\n\n")
		for _, e := range r.Errors {
			sb.WriteString(fmt.Sprintf("- %s\n", e))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeRowTable(sb *strings.Builder, rows []RecommendationRow, detailHeader string) {
	if len(rows) == 0 {
		sb.WriteString("None.\n\n")
		return
	}

	sb.WriteString(fmt.Sprintf("| Keyword ID | Keyword | ASIN | Action | Rate | Bid | New Bid | %s |\n", detailHeader))
	sb.WriteString("|------------|---------|------|--------|------|-----|---------|------|\n")
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %+.4f | %.2f | %.2f | %s |\n",
			row.KeywordID, row.Keyword, row.ASIN, row.Action,
			row.ChangeRate, row.CurrentBid, row.NewBid, row.Detail))
	}
	sb.WriteString("\n")
}
