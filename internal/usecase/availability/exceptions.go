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

// ======================================================
// ADD EXCEPTIONS
// ======================================================

type AddExceptions struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	events *events.Publisher
}

func NewAddExceptions(
	repo domain.Repository,
	audit *audit.Dispatcher,
	events *events.Publisher,
) *AddExceptions {
	return &AddExceptions{
		repo:   repo,
		audit:  audit,
		events: events,
	}
}

// Execute blacks out the given dates. Underlying blocks stay stored but
// inert; free slots on those dates are removed. A live booking on any of
// the dates rolls the whole batch back.
func (uc *AddExceptions) Execute(
	ctx context.Context,
	lawyerID string,
	dates []string,
	reason string,
) ([]models.AvailabilityException, error) {

	if len(dates) == 0 {
		return nil, schederr.Validation("at least one date is required")
	}

	lawyer, err := uc.repo.GetLawyerByID(ctx, lawyerID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(lawyer.Timezone)

	exceptions := make([]models.AvailabilityException, 0, len(dates))
	for _, d := range dates {
		if _, err := timegrid.ParseDate(d, loc); err != nil {
			return nil, err
		}
		exceptions = append(exceptions, models.AvailabilityException{
			LawyerID: lawyerID,
			Date:     d,
			Reason:   reason,
		})
	}

	err = uc.repo.WithTx(ctx, func(tx domain.Repository) error {
		if err := tx.CreateExceptions(ctx, exceptions); err != nil {
			return err
		}
		return regenerateDates(ctx, tx, lawyer, dates)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		LawyerID: lawyerID,
		Action:   "exception_added",
		Entity:   "availability_exception",
		Metadata: map[string]any{"dates": dates, "reason": reason},
	})
	uc.events.AvailabilityChanged(ctx, lawyerID, dates)
	uc.events.SlotsChanged(ctx, lawyerID, dates)

	return exceptions, nil
}

// ======================================================
// REMOVE EXCEPTION
// ======================================================

type RemoveException struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	events *events.Publisher
}

func NewRemoveException(
	repo domain.Repository,
	audit *audit.Dispatcher,
	events *events.Publisher,
) *RemoveException {
	return &RemoveException{
		repo:   repo,
		audit:  audit,
		events: events,
	}
}

func (uc *RemoveException) Execute(
	ctx context.Context,
	lawyerID string,
	exceptionID string,
) error {

	lawyer, err := uc.repo.GetLawyerByID(ctx, lawyerID)
	if err != nil {
		return err
	}

	exc, err := uc.repo.GetException(ctx, lawyerID, exceptionID)
	if err != nil {
		return err
	}

	err = uc.repo.WithTx(ctx, func(tx domain.Repository) error {
		if err := tx.DeleteException(ctx, lawyerID, exceptionID); err != nil {
			return err
		}
		return regenerateDate(ctx, tx, lawyer, exc.Date)
	})
	if err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		LawyerID: lawyerID,
		Action:   "exception_removed",
		Entity:   "availability_exception",
		EntityID: &exceptionID,
		Metadata: map[string]string{"date": exc.Date},
	})
	uc.events.AvailabilityChanged(ctx, lawyerID, []string{exc.Date})
	uc.events.SlotsChanged(ctx, lawyerID, []string{exc.Date})

	return nil
}
