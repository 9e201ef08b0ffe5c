package booking

import (
	"context"

	"github.com/juriscal/consult-scheduler/internal/audit"
	domain "github.com/juriscal/consult-scheduler/internal/domain/schedule"
	"github.com/juriscal/consult-scheduler/internal/models"
	"github.com/juriscal/consult-scheduler/internal/notify"
	"github.com/juriscal/consult-scheduler/internal/timegrid"
	"github.com/juriscal/consult-scheduler/internal/timezone"
)

type ConfirmConsultation struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier notify.Sender
}

func NewConfirmConsultation(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notifier notify.Sender,
) *ConfirmConsultation {
	return &ConfirmConsultation{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
	}
}

func (uc *ConfirmConsultation) Execute(
	ctx context.Context,
	consultationID string,
	actorID string,
) (*models.Consultation, []string, error) {

	cons, err := uc.repo.GetConsultation(ctx, consultationID)
	if err != nil {
		return nil, nil, err
	}

	lawyer, err := uc.repo.GetLawyerByID(ctx, cons.LawyerID)
	if err != nil {
		return nil, nil, err
	}

	now := timezone.NowIn(lawyer.Timezone)
	if err := domain.Confirm(cons, now); err != nil {
		return nil, nil, err
	}
	if err := uc.repo.UpdateConsultation(ctx, cons); err != nil {
		return nil, nil, err
	}

	var warnings []string
	if err := uc.notifier.Send(ctx, notify.Message{
		Type:           notify.TypeConfirmation,
		ConsultationID: cons.ID,
		LawyerID:       cons.LawyerID,
		ClientID:       cons.ClientID,
		Date:           cons.Slot.Date,
		StartTime:      timegrid.FormatClock(cons.Slot.StartMin),
		EndTime:        timegrid.FormatClock(cons.Slot.EndMin),
	}); err != nil {
		warnings = append(warnings, "confirmation notification failed: "+err.Error())
	}

	uc.audit.Dispatch(audit.Event{
		LawyerID: cons.LawyerID,
		ActorID:  &actorID,
		Action:   "consultation_confirmed",
		Entity:   "consultation",
		EntityID: &cons.ID,
	})

	return cons, warnings, nil
}
