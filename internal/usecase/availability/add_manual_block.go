package availability

import (
	"context"

	"github.com/juriscal/consult-scheduler/internal/audit"
	domain "github.com/juriscal/consult-scheduler/internal/domain/schedule"
	"github.com/juriscal/consult-scheduler/internal/events"
	"github.com/juriscal/consult-scheduler/internal/models"
	"github.com/juriscal/consult-scheduler/internal/schederr"
	"github.com/juriscal/consult-scheduler/internal/timegrid"
	"github.com/juriscal/consult-scheduler/internal/timezone"
)

type AddBlockInput struct {
	LawyerID  string
	Date      string
	StartTime string
	EndTime   string
	Source    string // manual or override
}

type AddBlock struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	events *events.Publisher
}

func NewAddBlock(
	repo domain.Repository,
	audit *audit.Dispatcher,
	events *events.Publisher,
) *AddBlock {
	return &AddBlock{
		repo:   repo,
		audit:  audit,
		events: events,
	}
}

func (uc *AddBlock) Execute(
	ctx context.Context,
	in AddBlockInput,
) (*models.DateAvailabilityBlock, error) {

	if in.Source != models.SourceManual && in.Source != models.SourceOverride {
		return nil, schederr.Validation("source must be manual or override")
	}

	lawyer, err := uc.repo.GetLawyerByID(ctx, in.LawyerID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(lawyer.Timezone)
	day, err := timegrid.ParseDate(in.Date, loc)
	if err != nil {
		return nil, err
	}
	if _, _, err := validateInterval(in.StartTime, in.EndTime, lawyer.SlotMinutes()); err != nil {
		return nil, err
	}

	block := &models.DateAvailabilityBlock{
		LawyerID:  in.LawyerID,
		Date:      in.Date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Source:    in.Source,
	}

	// An override flips its whole ISO week out of template mode, so every
	// date of that week has to be regenerated, not just the edited one.
	touched := []string{in.Date}
	if in.Source == models.SourceOverride {
		touched = weekDateKeys(day, loc)
	}

	err = uc.repo.WithTx(ctx, func(tx domain.Repository) error {
		if err := tx.CreateDateBlock(ctx, block); err != nil {
			return err
		}
		return regenerateDates(ctx, tx, lawyer, touched)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		LawyerID: in.LawyerID,
		Action:   "availability_block_added",
		Entity:   "availability_block",
		EntityID: &block.ID,
		Metadata: map[string]string{"date": in.Date, "source": in.Source},
	})
	uc.events.AvailabilityChanged(ctx, in.LawyerID, touched)
	uc.events.SlotsChanged(ctx, in.LawyerID, touched)

	return block, nil
}
