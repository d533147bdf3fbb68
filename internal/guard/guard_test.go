package guard

import (
	"strings"
	"testing"

	"sponsored-bid-lab/internal/domain"
)

func fptr(v float64) *float64 { return &v }

func TestNewDecision_Unconstrained(t *testing.T) {
	d := NewDecision(domain.ActionMildUp)

	if d.Action != domain.ActionMildUp {
		t.Errorf("action = %s", d.Action)
	}
	if d.UpMultCap != 10 || d.DownMultCap != 0 || d.MaxDownPct != 1.0 {
		t.Errorf("caps not open: %+v", d)
	}
	if d.StrongUpMult != 1.0 || d.AcosTargetScale != 1.0 {
		t.Errorf("multipliers not neutral: %+v", d)
	}
}

func TestChain_OrderAndShortCircuit(t *testing.T) {
	first := func(d Decision) Decision { return d.note("first") }
	killer := func(d Decision) Decision {
		d.HardKill = true
		return d.note("killer")
	}
	last := func(d Decision) Decision { return d.note("last") }

	d := Chain(first, killer, last)(NewDecision(domain.ActionKeep))

	if len(d.Trail) != 2 || d.Trail[0] != "first" || d.Trail[1] != "killer" {
		t.Errorf("trail = %v, want [first killer]", d.Trail)
	}
}

func TestBrand_SoftensDestructiveForSelfBrand(t *testing.T) {
	g := Brand(domain.BrandSelf)

	for _, action := range []domain.ActionType{domain.ActionStop, domain.ActionStrongDown} {
		d := g(NewDecision(action))
		if d.Action != domain.ActionMildDown {
			t.Errorf("%s: action = %s, want MILD_DOWN", action, d.Action)
		}
		if len(d.Trail) != 1 {
			t.Errorf("%s: trail = %v", action, d.Trail)
		}
	}

	// Non-destructive actions and non-self brands pass through silently.
	if d := g(NewDecision(domain.ActionMildUp)); d.Action != domain.ActionMildUp || len(d.Trail) != 0 {
		t.Errorf("MILD_UP altered: %+v", d)
	}
	if d := Brand(domain.BrandConquest)(NewDecision(domain.ActionStop)); d.Action != domain.ActionStop {
		t.Errorf("conquest STOP altered to %s", d.Action)
	}
}

func TestEvent_SaleDayDisablesStrongDowns(t *testing.T) {
	g := Event(domain.PolicyForEvent(domain.EventBigSaleDay))

	d := g(NewDecision(domain.ActionStrongDown))
	if d.Action != domain.ActionMildDown {
		t.Errorf("action = %s, want MILD_DOWN", d.Action)
	}
	if d.UpMultCap != 1.8 || d.DownMultCap != 0.9 {
		t.Errorf("caps = %f/%f, want 1.8/0.9", d.UpMultCap, d.DownMultCap)
	}
	if len(d.Trail) != 1 || !strings.Contains(d.Trail[0], "BIG_SALE_DAY") {
		t.Errorf("trail = %v", d.Trail)
	}
}

func TestEvent_QuietPeriodAllowsStrongDowns(t *testing.T) {
	g := Event(domain.PolicyForEvent(domain.EventNone))

	d := g(NewDecision(domain.ActionStop))
	if d.Action != domain.ActionStop {
		t.Errorf("action = %s, want STOP", d.Action)
	}
	if d.UpMultCap != 1.3 || d.DownMultCap != 0.5 {
		t.Errorf("caps = %f/%f, want 1.3/0.5", d.UpMultCap, d.DownMultCap)
	}
}

func TestInventory_Degradation(t *testing.T) {
	healthy := &domain.AsinInventorySnapshot{ASIN: "B1", RunwayDays: fptr(30)}
	out := &domain.AsinInventorySnapshot{ASIN: "B1", RunwayDays: fptr(0)}
	unknown := &domain.AsinInventorySnapshot{ASIN: "B1"}

	cases := map[string]Guard{
		"nil snapshot":   Inventory(nil, domain.InventoryGuardOn, domain.PolicySetZero),
		"mode off":       Inventory(out, domain.InventoryGuardOff, domain.PolicySetZero),
		"unknown runway": Inventory(unknown, domain.InventoryGuardOn, domain.PolicySetZero),
		"normal stock":   Inventory(healthy, domain.InventoryGuardOn, domain.PolicySetZero),
	}
	for name, g := range cases {
		d := g(NewDecision(domain.ActionStrongUp))
		if d.HardKill || d.UpMultCap != 10 || len(d.Trail) != 0 {
			t.Errorf("%s: guard triggered: %+v", name, d)
		}
	}
}

func TestInventory_OutOfStockHardKill(t *testing.T) {
	out := &domain.AsinInventorySnapshot{ASIN: "B1", RunwayDays: fptr(0)}

	d := Inventory(out, domain.InventoryGuardOn, domain.PolicySetZero)(NewDecision(domain.ActionMildUp))
	if !d.HardKill || !d.SetZero || d.Skip {
		t.Errorf("SET_ZERO: %+v", d)
	}

	d = Inventory(out, domain.InventoryGuardOn, domain.PolicySkipRecommendation)(NewDecision(domain.ActionMildUp))
	if !d.HardKill || !d.Skip || d.SetZero {
		t.Errorf("SKIP_RECOMMENDATION: %+v", d)
	}
	if len(d.Trail) != 1 || !strings.Contains(d.Trail[0], "skipped") {
		t.Errorf("trail = %v", d.Trail)
	}
}

func TestInventory_SoftThrottleTiers(t *testing.T) {
	low := &domain.AsinInventorySnapshot{ASIN: "B1", RunwayDays: fptr(10)}
	strict := &domain.AsinInventorySnapshot{ASIN: "B1", RunwayDays: fptr(5)}

	d := Inventory(low, domain.InventoryGuardOn, domain.PolicySetZero)(NewDecision(domain.ActionStrongUp))
	if d.UpMultCap != 1.15 || d.AcosTargetScale != 1.0 {
		t.Errorf("LOW_STOCK: cap %f scale %f", d.UpMultCap, d.AcosTargetScale)
	}

	d = Inventory(strict, domain.InventoryGuardOn, domain.PolicySetZero)(NewDecision(domain.ActionStrongUp))
	if d.UpMultCap != 1.05 || d.AcosTargetScale != 0.9 {
		t.Errorf("LOW_STOCK_STRICT on ON: cap %f scale %f", d.UpMultCap, d.AcosTargetScale)
	}

	// STRICT guard mode compounds the target shrink.
	d = Inventory(strict, domain.InventoryGuardStrict, domain.PolicySetZero)(NewDecision(domain.ActionStrongUp))
	want := 0.9 * 0.9
	if diff := d.AcosTargetScale - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("LOW_STOCK_STRICT on STRICT: scale %f, want %f", d.AcosTargetScale, want)
	}
}

func TestTacos_GateAndDegradation(t *testing.T) {
	// Missing health data never gates.
	d := Tacos(nil)(NewDecision(domain.ActionStrongUp))
	if d.StrongUpMult != 1.0 || len(d.Trail) != 0 {
		t.Errorf("nil result altered decision: %+v", d)
	}

	// A neutral multiplier leaves no trail entry.
	neutral := &domain.TacosHealthResult{Zone: domain.ZoneGreen, StrongUpMult: 1.0}
	d = Tacos(neutral)(NewDecision(domain.ActionStrongUp))
	if len(d.Trail) != 0 {
		t.Errorf("neutral gate noted: %v", d.Trail)
	}

	red := &domain.TacosHealthResult{Zone: domain.ZoneRed, StrongUpMult: 0.5}
	d = Tacos(red)(NewDecision(domain.ActionStrongUp))
	if d.StrongUpMult != 0.5 {
		t.Errorf("mult = %f, want 0.5", d.StrongUpMult)
	}
	if len(d.Trail) != 1 || !strings.Contains(d.Trail[0], "RED") {
		t.Errorf("trail = %v", d.Trail)
	}
}

func TestPresale_HoldBackCapsAndDowngrades(t *testing.T) {
	diag := &domain.PresaleDiagnosis{
		Class:  domain.PresaleHoldBack,
		Policy: domain.PolicyForPresale(domain.PresaleHoldBack),
	}
	g := Presale(diag)

	d := g(NewDecision(domain.ActionStop))
	if d.Action != domain.ActionMildDown {
		t.Errorf("STOP: action = %s, want MILD_DOWN", d.Action)
	}
	if d.MaxDownPct != 0.07 {
		t.Errorf("MaxDownPct = %f, want 0.07", d.MaxDownPct)
	}
	if d.UpMultCap != 1.1 {
		t.Errorf("UpMultCap = %f, want 1.1", d.UpMultCap)
	}

	d = g(NewDecision(domain.ActionStrongUp))
	if d.Action != domain.ActionMildUp {
		t.Errorf("STRONG_UP: action = %s, want MILD_UP", d.Action)
	}
}

func TestPresale_BuyingKeepsStrongUps(t *testing.T) {
	diag := &domain.PresaleDiagnosis{
		Class:  domain.PresaleBuying,
		Policy: domain.PolicyForPresale(domain.PresaleBuying),
	}

	d := Presale(diag)(NewDecision(domain.ActionStrongUp))
	if d.Action != domain.ActionStrongUp {
		t.Errorf("action = %s, want STRONG_UP", d.Action)
	}
	if d.UpMultCap != 1.5 || d.MaxDownPct != 0.15 {
		t.Errorf("caps = %f/%f, want 1.5/0.15", d.UpMultCap, d.MaxDownPct)
	}
}

func TestPresale_NoWindowIsNoOp(t *testing.T) {
	if d := Presale(nil)(NewDecision(domain.ActionStop)); d.Action != domain.ActionStop || len(d.Trail) != 0 {
		t.Errorf("nil diagnosis altered decision: %+v", d)
	}

	none := &domain.PresaleDiagnosis{Class: domain.PresaleNone, Policy: domain.PolicyForPresale(domain.PresaleNone)}
	if d := Presale(none)(NewDecision(domain.ActionStop)); d.Action != domain.ActionStop || len(d.Trail) != 0 {
		t.Errorf("NONE diagnosis altered decision: %+v", d)
	}
}
