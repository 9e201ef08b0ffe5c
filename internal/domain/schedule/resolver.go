package schedule

import (
	"sort"
	"time"

	"github.com/juriscal/consult-scheduler/internal/models"
	"github.com/juriscal/consult-scheduler/internal/timegrid"
)

// Resolve merges the three availability sources into the effective per-date
// view for [from,to] (inclusive, in loc).
//
// Precedence, evaluated per ISO week:
//  1. an exception empties its date entirely;
//  2. an override block anywhere in a week suppresses every weekly block of
//     that week (manual blocks stay additive);
//  3. otherwise weekly and manual blocks merge.
//
// blocks must cover the full ISO weeks spanned by the range, otherwise an
// override sitting just outside [from,to] would not suppress its week.
func Resolve(
	blocks []models.DateAvailabilityBlock,
	exceptions []models.AvailabilityException,
	from time.Time,
	to time.Time,
	loc *time.Location,
) map[string][]models.DateAvailabilityBlock {

	byDate := make(map[string][]models.DateAvailabilityBlock)
	overrideWeeks := make(map[string]bool)

	for _, b := range blocks {
		byDate[b.Date] = append(byDate[b.Date], b)
		if b.Source == models.SourceOverride {
			if d, err := timegrid.ParseDate(b.Date, loc); err == nil {
				overrideWeeks[timegrid.WeekKey(d)] = true
			}
		}
	}

	blackout := make(map[string]bool, len(exceptions))
	for _, e := range exceptions {
		blackout[e.Date] = true
	}

	out := make(map[string][]models.DateAvailabilityBlock)
	for _, day := range timegrid.DaysBetween(from, to, loc) {
		key := timegrid.DateKey(day, loc)

		if blackout[key] {
			out[key] = nil
			continue
		}

		suppressWeekly := overrideWeeks[timegrid.WeekKey(day)]

		var effective []models.DateAvailabilityBlock
		for _, b := range byDate[key] {
			if suppressWeekly && b.Source == models.SourceWeekly {
				continue
			}
			effective = append(effective, b)
		}

		sort.Slice(effective, func(i, j int) bool {
			return effective[i].StartTime < effective[j].StartTime
		})
		out[key] = effective
	}

	return out
}

// EffectiveForDate is Resolve narrowed to a single date.
func EffectiveForDate(
	blocks []models.DateAvailabilityBlock,
	exceptions []models.AvailabilityException,
	day time.Time,
	loc *time.Location,
) []models.DateAvailabilityBlock {
	view := Resolve(blocks, exceptions, day, day, loc)
	return view[timegrid.DateKey(day, loc)]
}
