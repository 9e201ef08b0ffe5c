package availability

import (
	"context"

	"github.com/juriscal/consult-scheduler/internal/audit"
	domain "github.com/juriscal/consult-scheduler/internal/domain/schedule"
	"github.com/juriscal/consult-scheduler/internal/events"
	"github.com/juriscal/consult-scheduler/internal/models"
	"github.com/juriscal/consult-scheduler/internal/timegrid"
	"github.com/juriscal/consult-scheduler/internal/timezone"
)

type DeleteBlock struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	events *events.Publisher
}

func NewDeleteBlock(
	repo domain.Repository,
	audit *audit.Dispatcher,
	events *events.Publisher,
) *DeleteBlock {
	return &DeleteBlock{
		repo:   repo,
		audit:  audit,
		events: events,
	}
}

// Execute removes a block and regenerates the affected dates. The whole
// operation rolls back with ActiveBookingConflictError if removal would
// orphan a slot with a live consultation.
func (uc *DeleteBlock) Execute(
	ctx context.Context,
	lawyerID string,
	blockID string,
) error {

	lawyer, err := uc.repo.GetLawyerByID(ctx, lawyerID)
	if err != nil {
		return err
	}
	loc := timezone.Location(lawyer.Timezone)

	block, err := uc.repo.GetDateBlock(ctx, lawyerID, blockID)
	if err != nil {
		return err
	}

	day, err := timegrid.ParseDate(block.Date, loc)
	if err != nil {
		return err
	}

	// Removing the last override of a week lets the template back in, so
	// override deletions regenerate the whole week.
	touched := []string{block.Date}
	if block.Source == models.SourceOverride {
		touched = weekDateKeys(day, loc)
	}

	err = uc.repo.WithTx(ctx, func(tx domain.Repository) error {
		if err := tx.DeleteDateBlock(ctx, lawyerID, blockID); err != nil {
			return err
		}
		return regenerateDates(ctx, tx, lawyer, touched)
	})
	if err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		LawyerID: lawyerID,
		Action:   "availability_block_removed",
		Entity:   "availability_block",
		EntityID: &blockID,
		Metadata: map[string]string{"date": block.Date, "source": block.Source},
	})
	uc.events.AvailabilityChanged(ctx, lawyerID, touched)
	uc.events.SlotsChanged(ctx, lawyerID, touched)

	return nil
}
