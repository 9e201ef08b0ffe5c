package availability

import (
	"context"
	"time"

	"github.com/juriscal/consult-scheduler/internal/audit"
	domain "github.com/juriscal/consult-scheduler/internal/domain/schedule"
	"github.com/juriscal/consult-scheduler/internal/events"
	"github.com/juriscal/consult-scheduler/internal/models"
	"github.com/juriscal/consult-scheduler/internal/timegrid"
	"github.com/juriscal/consult-scheduler/internal/timezone"
)

// ApplyTemplate materializes the weekly template into concrete
// weekly-sourced rows over a date range. Idempotent: the range's weekly
// rows are replaced wholesale, so re-running produces the same set.
type ApplyTemplate struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	events *events.Publisher
}

func NewApplyTemplate(
	repo domain.Repository,
	audit *audit.Dispatcher,
	events *events.Publisher,
) *ApplyTemplate {
	return &ApplyTemplate{
		repo:   repo,
		audit:  audit,
		events: events,
	}
}

// ExecuteHorizon applies over the lawyer's standing horizon from today.
func (uc *ApplyTemplate) ExecuteHorizon(ctx context.Context, lawyerID string) error {
	lawyer, err := uc.repo.GetLawyerByID(ctx, lawyerID)
	if err != nil {
		return err
	}

	from := timezone.NowIn(lawyer.Timezone)
	to := from.AddDate(0, 0, lawyer.Horizon()*7-1)
	return uc.Execute(ctx, lawyerID, from, to)
}

func (uc *ApplyTemplate) Execute(
	ctx context.Context,
	lawyerID string,
	from time.Time,
	to time.Time,
) error {

	lawyer, err := uc.repo.GetLawyerByID(ctx, lawyerID)
	if err != nil {
		return err
	}
	loc := timezone.Location(lawyer.Timezone)

	template, err := uc.repo.ListTemplateBlocks(ctx, lawyerID)
	if err != nil {
		return err
	}
	byDay := make(map[int][]models.WeeklyTemplateBlock)
	for _, b := range template {
		byDay[b.DayOfWeek] = append(byDay[b.DayOfWeek], b)
	}

	days := timegrid.DaysBetween(from, to, loc)
	if len(days) == 0 {
		return nil
	}
	fromKey := timegrid.DateKey(days[0], loc)
	toKey := timegrid.DateKey(days[len(days)-1], loc)

	// Overrides anywhere in a touched week keep that week template-free,
	// so the existing blocks are read over full week bounds.
	monday, _ := weekBounds(days[0])
	_, sunday := weekBounds(days[len(days)-1])
	existing, err := uc.repo.ListDateBlocks(
		ctx, lawyerID,
		timegrid.DateKey(monday, loc), timegrid.DateKey(sunday, loc),
	)
	if err != nil {
		return err
	}
	overrideWeeks := make(map[string]bool)
	for _, b := range existing {
		if b.Source != models.SourceOverride {
			continue
		}
		if d, err := timegrid.ParseDate(b.Date, loc); err == nil {
			overrideWeeks[timegrid.WeekKey(d)] = true
		}
	}

	exceptions, err := uc.repo.ListExceptions(ctx, lawyerID, fromKey, toKey)
	if err != nil {
		return err
	}
	blackout := make(map[string]bool, len(exceptions))
	for _, e := range exceptions {
		blackout[e.Date] = true
	}

	var rows []models.DateAvailabilityBlock
	var touched []string
	for _, day := range days {
		key := timegrid.DateKey(day, loc)
		touched = append(touched, key)

		if blackout[key] || overrideWeeks[timegrid.WeekKey(day)] {
			continue
		}
		for _, tb := range byDay[timegrid.WeekdayIndex(day)] {
			rows = append(rows, models.DateAvailabilityBlock{
				LawyerID:  lawyerID,
				Date:      key,
				StartTime: tb.StartTime,
				EndTime:   tb.EndTime,
				Source:    models.SourceWeekly,
			})
		}
	}

	err = uc.repo.WithTx(ctx, func(tx domain.Repository) error {
		if err := tx.ReplaceWeeklyRows(ctx, lawyerID, fromKey, toKey, rows); err != nil {
			return err
		}
		return regenerateDates(ctx, tx, lawyer, touched)
	})
	if err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		LawyerID: lawyerID,
		Action:   "template_applied",
		Entity:   "weekly_template",
		Metadata: map[string]string{"from": fromKey, "to": toKey},
	})
	uc.events.AvailabilityChanged(ctx, lawyerID, touched)
	uc.events.SlotsChanged(ctx, lawyerID, touched)

	return nil
}
