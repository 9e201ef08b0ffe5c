package availability

import (
	"context"
	"time"

	domain "github.com/juriscal/consult-scheduler/internal/domain/schedule"
	"github.com/juriscal/consult-scheduler/internal/models"
	"github.com/juriscal/consult-scheduler/internal/timegrid"
	"github.com/juriscal/consult-scheduler/internal/timezone"
)

// weekBounds returns the Monday and Sunday of the ISO week containing day.
func weekBounds(day time.Time) (time.Time, time.Time) {
	monday := day.AddDate(0, 0, -timegrid.WeekdayIndex(day))
	return monday, monday.AddDate(0, 0, 6)
}

// weekDateKeys lists the seven date keys of the ISO week containing day.
func weekDateKeys(day time.Time, loc *time.Location) []string {
	monday, sunday := weekBounds(day)
	keys := make([]string, 0, 7)
	for _, d := range timegrid.DaysBetween(monday, sunday, loc) {
		keys = append(keys, timegrid.DateKey(d, loc))
	}
	return keys
}

// regenerateDate recomputes one date's slot rows from the resolved view.
// Must run inside the same transaction as the availability mutation so an
// ActiveBookingConflictError rolls the edit back.
func regenerateDate(
	ctx context.Context,
	repo domain.Repository,
	lawyer *models.Lawyer,
	dateKey string,
) error {

	loc := timezone.Location(lawyer.Timezone)

	day, err := timegrid.ParseDate(dateKey, loc)
	if err != nil {
		return err
	}

	// Override suppression is per ISO week, so the resolver needs the
	// whole week's blocks even for a single date.
	monday, sunday := weekBounds(day)
	blocks, err := repo.ListDateBlocks(
		ctx, lawyer.ID,
		timegrid.DateKey(monday, loc), timegrid.DateKey(sunday, loc),
	)
	if err != nil {
		return err
	}

	exceptions, err := repo.ListExceptions(ctx, lawyer.ID, dateKey, dateKey)
	if err != nil {
		return err
	}

	effective := domain.EffectiveForDate(blocks, exceptions, day, loc)
	windows := domain.SliceBlocks(effective, lawyer.SlotMinutes())
	intervals := domain.BlockIntervals(effective)

	return repo.SyncSlots(ctx, lawyer.ID, dateKey, intervals, windows)
}

func regenerateDates(
	ctx context.Context,
	repo domain.Repository,
	lawyer *models.Lawyer,
	dateKeys []string,
) error {
	for _, key := range dateKeys {
		if err := regenerateDate(ctx, repo, lawyer, key); err != nil {
			return err
		}
	}
	return nil
}
