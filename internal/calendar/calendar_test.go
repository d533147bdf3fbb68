package calendar

import (
	"testing"
	"time"

	"sponsored-bid-lab/internal/domain"
)

func day(d int) time.Time {
	return time.Date(2026, 11, d, 0, 0, 0, 0, time.UTC)
}

func entry(name string, grade domain.SaleGrade, start, end time.Time, prepDays int) domain.SaleCalendarEntry {
	return domain.SaleCalendarEntry{Name: name, Grade: grade, Start: start, End: end, PrepDays: prepDays}
}

func TestResolve_NoEntries(t *testing.T) {
	mode, e := NewResolver(nil).Resolve(day(10))
	if mode != domain.EventNone || e != nil {
		t.Errorf("got %s/%v, want NONE/nil", mode, e)
	}
}

func TestResolve_SaleDay(t *testing.T) {
	r := NewResolver([]domain.SaleCalendarEntry{
		entry("black friday", domain.GradeS, day(27), day(30), 14),
	})

	mode, e := r.Resolve(day(28))
	if mode != domain.EventBigSaleDay {
		t.Errorf("mode = %s, want BIG_SALE_DAY", mode)
	}
	if e == nil || e.Name != "black friday" {
		t.Errorf("entry = %v", e)
	}

	// Boundaries are inclusive on both ends.
	if mode, _ := r.Resolve(day(27)); mode != domain.EventBigSaleDay {
		t.Error("start day should count as sale day")
	}
	if mode, _ := r.Resolve(day(30)); mode != domain.EventBigSaleDay {
		t.Error("end day should count as sale day")
	}
}

func TestResolve_PrepWindow(t *testing.T) {
	r := NewResolver([]domain.SaleCalendarEntry{
		entry("black friday", domain.GradeS, day(27), day(30), 14),
	})

	mode, e := r.Resolve(day(20))
	if mode != domain.EventBigSalePrep {
		t.Errorf("mode = %s, want BIG_SALE_PREP", mode)
	}
	if e == nil || e.Name != "black friday" {
		t.Errorf("entry = %v", e)
	}

	// Before the prep window opens there is no event.
	if mode, _ := r.Resolve(day(12)); mode != domain.EventNone {
		t.Errorf("mode = %s, want NONE before prep opens", mode)
	}
}

func TestResolve_SaleDayBeatsPrep(t *testing.T) {
	r := NewResolver([]domain.SaleCalendarEntry{
		entry("flash sale", domain.GradeS, day(19), day(20), 0),
		entry("black friday", domain.GradeS, day(27), day(30), 14),
	})

	// Day 19 is inside flash sale AND inside black friday prep.
	mode, e := r.Resolve(day(19))
	if mode != domain.EventBigSaleDay || e == nil || e.Name != "flash sale" {
		t.Errorf("got %s/%v, want sale day via flash sale", mode, e)
	}
}

func TestResolve_GradeThreshold(t *testing.T) {
	entries := []domain.SaleCalendarEntry{
		entry("category promo", domain.GradeA, day(10), day(12), 0),
	}

	// Grade A is below the default S threshold.
	if mode, _ := NewResolver(entries).Resolve(day(11)); mode != domain.EventNone {
		t.Errorf("mode = %s, want NONE under default threshold", mode)
	}

	mode, _ := NewResolver(entries).WithMinGrade(domain.GradeA).Resolve(day(11))
	if mode != domain.EventBigSaleDay {
		t.Errorf("mode = %s, want BIG_SALE_DAY with lowered threshold", mode)
	}
}

func TestResolve_TieBreaks(t *testing.T) {
	r := NewResolver([]domain.SaleCalendarEntry{
		entry("far event", domain.GradeA, day(1), day(30), 0),
		entry("near event", domain.GradeA, day(9), day(12), 0),
		entry("big event", domain.GradeS, day(8), day(15), 0),
	}).WithMinGrade(domain.GradeB)

	// Grade wins first.
	_, e := r.Resolve(day(10))
	if e == nil || e.Name != "big event" {
		t.Fatalf("entry = %v, want big event by grade", e)
	}

	// Among equal grades the nearer start date wins.
	r = NewResolver([]domain.SaleCalendarEntry{
		entry("far event", domain.GradeA, day(1), day(30), 0),
		entry("near event", domain.GradeA, day(9), day(12), 0),
	}).WithMinGrade(domain.GradeA)
	_, e = r.Resolve(day(10))
	if e == nil || e.Name != "near event" {
		t.Errorf("entry = %v, want near event by proximity", e)
	}
}

func TestResolveEventMode_Sources(t *testing.T) {
	r := NewResolver([]domain.SaleCalendarEntry{
		entry("black friday", domain.GradeS, day(27), day(30), 14),
	})

	got := ResolveEventMode(domain.EventSourceManual, domain.EventBigSaleDay, r, day(1))
	if got != domain.EventBigSaleDay {
		t.Errorf("manual source = %s, want the manual override", got)
	}

	got = ResolveEventMode(domain.EventSourceCalendar, domain.EventNone, r, day(28))
	if got != domain.EventBigSaleDay {
		t.Errorf("calendar source = %s, want BIG_SALE_DAY", got)
	}

	// A calendar source without a resolver degrades to manual.
	got = ResolveEventMode(domain.EventSourceCalendar, domain.EventBigSalePrep, nil, day(28))
	if got != domain.EventBigSalePrep {
		t.Errorf("nil resolver = %s, want manual fallback", got)
	}
}
