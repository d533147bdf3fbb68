// Package calendar resolves the sale event mode for an evaluation run
// from a hand-maintained calendar of sale events.
package calendar

import (
	"sort"
	"time"

	"sponsored-bid-lab/internal/domain"
)

// Resolver selects the active event mode from calendar entries. Only
// grade-S entries feed the mode by default.
type Resolver struct {
	entries  []domain.SaleCalendarEntry
	minGrade domain.SaleGrade
}

// NewResolver creates a resolver over the given entries.
func NewResolver(entries []domain.SaleCalendarEntry) *Resolver {
	return &Resolver{entries: entries, minGrade: domain.GradeS}
}

// WithMinGrade lowers the grade threshold for entries that may feed the
// event mode.
func (r *Resolver) WithMinGrade(grade domain.SaleGrade) *Resolver {
	r.minGrade = grade
	return r
}

// Resolve returns the event mode for the given time and the entry that
// produced it (nil when no entry matches). An active sale day always
// beats a preparation window. Ties among matching entries are broken by
// higher grade, then by nearer start date.
func (r *Resolver) Resolve(now time.Time) (domain.EventMode, *domain.SaleCalendarEntry) {
	var saleDay, prep []domain.SaleCalendarEntry

	for _, e := range r.entries {
		if e.Grade.Rank() < r.minGrade.Rank() {
			continue
		}
		if !now.Before(e.Start) && !now.After(e.End) {
			saleDay = append(saleDay, e)
			continue
		}
		prepStart := e.Start.AddDate(0, 0, -e.PrepDays)
		if e.PrepDays > 0 && !now.Before(prepStart) && now.Before(e.Start) {
			prep = append(prep, e)
		}
	}

	if best := pickBest(saleDay, now); best != nil {
		return domain.EventBigSaleDay, best
	}
	if best := pickBest(prep, now); best != nil {
		return domain.EventBigSalePrep, best
	}
	return domain.EventNone, nil
}

// pickBest orders candidates by grade desc, then by distance from start
// date asc, then by name for determinism.
func pickBest(candidates []domain.SaleCalendarEntry, now time.Time) *domain.SaleCalendarEntry {
	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		gi, gj := candidates[i].Grade.Rank(), candidates[j].Grade.Rank()
		if gi != gj {
			return gi > gj
		}
		di := absDuration(candidates[i].Start.Sub(now))
		dj := absDuration(candidates[j].Start.Sub(now))
		if di != dj {
			return di < dj
		}
		return candidates[i].Name < candidates[j].Name
	})

	return &candidates[0]
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// ResolveEventMode resolves the run's event mode from either a manual
// override or the calendar, per the configured source. An unknown source
// falls back to MANUAL.
func ResolveEventMode(source domain.EventModeSource, manual domain.EventMode, resolver *Resolver, now time.Time) domain.EventMode {
	if source == domain.EventSourceCalendar && resolver != nil {
		mode, _ := resolver.Resolve(now)
		return mode
	}
	return manual
}
