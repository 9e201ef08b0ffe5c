package booking

import (
	"context"

	"github.com/juriscal/consult-scheduler/internal/audit"
	domain "github.com/juriscal/consult-scheduler/internal/domain/schedule"
	"github.com/juriscal/consult-scheduler/internal/models"
	"github.com/juriscal/consult-scheduler/internal/timezone"
)

type CompleteConsultation struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCompleteConsultation(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CompleteConsultation {
	return &CompleteConsultation{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CompleteConsultation) Execute(
	ctx context.Context,
	consultationID string,
	actorID string,
) (*models.Consultation, error) {

	cons, err := uc.repo.GetConsultation(ctx, consultationID)
	if err != nil {
		return nil, err
	}

	lawyer, err := uc.repo.GetLawyerByID(ctx, cons.LawyerID)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(lawyer.Timezone)
	if err := domain.Complete(cons, now); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateConsultation(ctx, cons); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		LawyerID: cons.LawyerID,
		ActorID:  &actorID,
		Action:   "consultation_completed",
		Entity:   "consultation",
		EntityID: &cons.ID,
	})

	return cons, nil
}
