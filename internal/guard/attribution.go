package guard

import "sponsored-bid-lab/internal/domain"

// RecentPerformanceGood reports whether the last-3-days window shows
// healthy conversion behavior: at least one conversion, or - with zero
// conversions - a CVR at least cfg.RecentGoodCVRRatio times the
// 7-day-excluding-recent CVR (both must be non-nil and non-zero).
func RecentPerformanceGood(m *domain.KeywordMetrics, cfg domain.GlobalConfig) bool {
	if m.Last3d.Conversions >= 1 {
		return true
	}

	recent := m.Last3d.CVR()
	baseline := m.Excl3d7d.CVR()
	if recent == nil || baseline == nil || *recent == 0 || *baseline == 0 {
		return false
	}
	return *recent >= cfg.RecentGoodCVRRatio*(*baseline)
}

// ShouldBeNoConversion reports whether the keyword looks like genuine
// decay rather than attribution lag: sufficient clicks in the
// 7-day-excluding-recent window, zero conversions there, AND a ceiling
// on 30-day conversions - all three - and only when the active event
// policy permits no-conversion downs (never on BIG_SALE_DAY).
func ShouldBeNoConversion(m *domain.KeywordMetrics, cfg domain.GlobalConfig, policy domain.EventBidPolicy) bool {
	if !policy.AllowNoConversionDown {
		return false
	}
	if m.Excl3d7d.Clicks < cfg.NoConvMinClicks {
		return false
	}
	if m.Excl3d7d.Conversions != 0 {
		return false
	}
	return m.Last30d.Conversions <= cfg.NoConvMax30dConversions
}

// ShouldBeAcosHigh reports whether both the 7-day-excluding-recent ACOS
// and the 30-day ACOS exceed the target times their respective (possibly
// event-relaxed) multipliers. Requiring both windows to agree is the
// double confirmation against attribution lag.
func ShouldBeAcosHigh(m *domain.KeywordMetrics, target float64, policy domain.EventBidPolicy) bool {
	acosExcl := m.Excl3d7d.ACOS()
	acos30d := m.Last30d.ACOS()
	if acosExcl == nil || acos30d == nil {
		return false
	}
	return *acosExcl >= target*policy.AcosHighMult7dExcl &&
		*acos30d >= target*policy.AcosHighMult30d
}

// Attribution is the attribution-delay safety valve. Its detectors first
// escalate confirmed decay (no-conversion or double-confirmed high ACOS)
// to STRONG_DOWN; the valve then downgrades any STOP/STRONG_DOWN to
// MILD_DOWN when recent performance is good, or unconditionally when the
// active event policy disallows strong downs. MILD_DOWN, up actions and
// KEEP pass through unchanged.
func Attribution(m *domain.KeywordMetrics, cfg domain.GlobalConfig, policy domain.EventBidPolicy) Guard {
	return func(d Decision) Decision {
		target := m.EffectiveAcosTarget(cfg.AcosTargetDefault) * d.AcosTargetScale

		if !d.Action.IsDestructive() {
			if ShouldBeNoConversion(m, cfg, policy) {
				prev := d.Action
				d.Action = domain.ActionStrongDown
				d = d.note("attribution valve: no-conversion confirmed, %s -> %s", prev, d.Action)
			} else if ShouldBeAcosHigh(m, target, policy) && d.Action.Ordinal() > domain.ActionStrongDown.Ordinal() {
				prev := d.Action
				d.Action = domain.ActionStrongDown
				d = d.note("attribution valve: acos-high confirmed on both windows, %s -> %s", prev, d.Action)
			}
		}

		if !d.Action.IsDestructive() {
			return d
		}

		if !policy.AllowStrongDown {
			prev := d.Action
			d.Action = domain.ActionMildDown
			return d.note("attribution valve: %s -> %s (event policy disallows strong downs)", prev, d.Action)
		}
		if RecentPerformanceGood(m, cfg) {
			prev := d.Action
			d.Action = domain.ActionMildDown
			return d.note("attribution valve: %s -> %s (recent performance good)", prev, d.Action)
		}
		return d
	}
}
