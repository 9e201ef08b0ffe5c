package availability

import (
	"context"

	"github.com/juriscal/consult-scheduler/internal/audit"
	domain "github.com/juriscal/consult-scheduler/internal/domain/schedule"
	"github.com/juriscal/consult-scheduler/internal/models"
	"github.com/juriscal/consult-scheduler/internal/schederr"
	"github.com/juriscal/consult-scheduler/internal/timegrid"
)

type TemplateBlockInput struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// UpsertWeeklyTemplate replaces a lawyer's whole weekly template and
// re-applies it over the standing horizon so future dates pick up the new
// pattern. Past dates and booked slots are untouched.
type UpsertWeeklyTemplate struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	apply *ApplyTemplate
}

func NewUpsertWeeklyTemplate(
	repo domain.Repository,
	audit *audit.Dispatcher,
	apply *ApplyTemplate,
) *UpsertWeeklyTemplate {
	return &UpsertWeeklyTemplate{
		repo:  repo,
		audit: audit,
		apply: apply,
	}
}

func (uc *UpsertWeeklyTemplate) Execute(
	ctx context.Context,
	lawyerID string,
	blocks []TemplateBlockInput,
) error {

	lawyer, err := uc.repo.GetLawyerByID(ctx, lawyerID)
	if err != nil {
		return err
	}

	rows := make([]models.WeeklyTemplateBlock, 0, len(blocks))
	byDay := make(map[int][][2]int)
	for _, b := range blocks {
		if b.DayOfWeek < 0 || b.DayOfWeek > 6 {
			return schederr.Validation("day_of_week %d out of range 0..6", b.DayOfWeek)
		}
		start, end, err := validateInterval(b.StartTime, b.EndTime, lawyer.SlotMinutes())
		if err != nil {
			return err
		}
		for _, other := range byDay[b.DayOfWeek] {
			if timegrid.Overlaps(start, end, other[0], other[1]) {
				return &schederr.OverlapError{Conflict: schederr.BlockRef{
					Date:      "weekly",
					StartTime: timegrid.FormatClock(other[0]),
					EndTime:   timegrid.FormatClock(other[1]),
					Source:    models.SourceWeekly,
				}}
			}
		}
		byDay[b.DayOfWeek] = append(byDay[b.DayOfWeek], [2]int{start, end})

		rows = append(rows, models.WeeklyTemplateBlock{
			LawyerID:  lawyerID,
			DayOfWeek: b.DayOfWeek,
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
		})
	}

	if err := uc.repo.ReplaceTemplateBlocks(ctx, lawyerID, rows); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		LawyerID: lawyerID,
		Action:   "template_saved",
		Entity:   "weekly_template",
		Metadata: map[string]int{"blocks": len(rows)},
	})

	return uc.apply.ExecuteHorizon(ctx, lawyerID)
}
