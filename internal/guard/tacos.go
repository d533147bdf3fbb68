package guard

import "sponsored-bid-lab/internal/domain"

// Tacos applies the per-ASIN cost-efficiency health result: the gated
// multiplier scales STRONG_UP rates (RED zone pins it to the floor,
// disabling the boost in practice). A nil result means the health data
// was unavailable and no gate applies.
func Tacos(result *domain.TacosHealthResult) Guard {
	return func(d Decision) Decision {
		if result == nil {
			return d
		}
		if d.StrongUpMult == result.StrongUpMult {
			return d
		}
		d.StrongUpMult = result.StrongUpMult
		return d.note("tacos gate: zone %s, strong-up multiplier %.2f", result.Zone, result.StrongUpMult)
	}
}
