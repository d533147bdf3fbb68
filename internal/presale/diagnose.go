// Package presale classifies pre-sale demand shifts per ASIN by
// comparing a pre-sale window's CVR and ACOS against a baseline window.
package presale

import "sponsored-bid-lab/internal/domain"

// Classification thresholds on the presale/baseline ratios.
const (
	cvrBuyingRatio   = 1.2  // CVR up 20%+ => shoppers buying ahead
	cvrHoldBackRatio = 0.8  // CVR down 20%+ => shoppers waiting
	acosWorseRatio   = 1.25 // ACOS up 25%+ corroborates hold-back
)

// Diagnose classifies the demand shift for one ASIN. A nil input means
// no presale window is configured; undefined ratios (zero denominators)
// degrade the diagnosis toward NONE, never to an error.
func Diagnose(input *domain.PresaleDiagnosisInput) *domain.PresaleDiagnosis {
	if input == nil {
		return nil
	}

	cvrRatio := ratio(input.Presale.CVR(), input.Baseline.CVR())
	acosRatio := ratio(input.Presale.ACOS(), input.Baseline.ACOS())

	class := classify(cvrRatio, acosRatio)

	return &domain.PresaleDiagnosis{
		ASIN:      input.ASIN,
		Class:     class,
		Policy:    domain.PolicyForPresale(class),
		CVRRatio:  cvrRatio,
		AcosRatio: acosRatio,
	}
}

// classify maps the two ratios to a diagnosis class. Missing ratios only
// ever weaken the signal.
func classify(cvrRatio, acosRatio *float64) domain.PresaleClass {
	buying := cvrRatio != nil && *cvrRatio >= cvrBuyingRatio
	holdBack := cvrRatio != nil && *cvrRatio <= cvrHoldBackRatio
	acosWorse := acosRatio != nil && *acosRatio >= acosWorseRatio

	switch {
	case buying && acosWorse:
		return domain.PresaleMixed
	case buying:
		return domain.PresaleBuying
	case holdBack || acosWorse:
		return domain.PresaleHoldBack
	default:
		return domain.PresaleNone
	}
}

// ratio returns presale/baseline, or nil when either side is undefined
// or the baseline is zero.
func ratio(presale, baseline *float64) *float64 {
	if presale == nil || baseline == nil || *baseline == 0 {
		return nil
	}
	v := *presale / *baseline
	return &v
}
