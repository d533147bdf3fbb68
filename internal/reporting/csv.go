package reporting

import (
	"fmt"
	"strings"

	"sponsored-bid-lab/internal/domain"
)

// RenderCSV renders all recommendations of a run as a CSV string.
// Free-text fields are quoted; embedded quotes are doubled.
func RenderCSV(recs []*domain.KeywordRecommendation) string {
	var sb strings.Builder

	// Header
	sb.WriteString("keyword_id,campaign_id,ad_group_id,asin,keyword,action,change_rate,current_bid,new_bid,")
	sb.WriteString("clipped,clip_reason,skip,tos_targeted,tos_eligible,")
	sb.WriteString("coeff_product,guard_trail,decision_path\n")

	// Rows
	for _, r := range recs {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%s,%.6f,%.2f,%.2f,%t,%s,%t,%t,%t,%.6f,%s,%s\n",
			r.KeywordID,
			r.CampaignID,
			r.AdGroupID,
			r.ASIN,
			quote(r.Keyword),
			r.Action,
			r.ChangeRate,
			r.CurrentBid,
			r.NewBid,
			r.Clipped,
			quote(r.ClipReason),
			r.Skip,
			r.TOSTargeted,
			r.TOSEligible,
			r.Coefficients.Product(),
			quote(strings.Join(r.GuardTrail, "; ")),
			quote(r.DecisionPath),
		))
	}

	return sb.String()
}

// quote wraps a field in double quotes, escaping embedded quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
