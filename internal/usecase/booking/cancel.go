package booking

import (
	"context"

	"github.com/juriscal/consult-scheduler/internal/audit"
	domain "github.com/juriscal/consult-scheduler/internal/domain/schedule"
	"github.com/juriscal/consult-scheduler/internal/events"
	"github.com/juriscal/consult-scheduler/internal/models"
	"github.com/juriscal/consult-scheduler/internal/notify"
	"github.com/juriscal/consult-scheduler/internal/payments"
	"github.com/juriscal/consult-scheduler/internal/timegrid"
	"github.com/juriscal/consult-scheduler/internal/timezone"
)

type CancelConsultation struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	events   *events.Publisher
	notifier notify.Sender
	refunds  payments.RefundSignaler
}

func NewCancelConsultation(
	repo domain.Repository,
	audit *audit.Dispatcher,
	events *events.Publisher,
	notifier notify.Sender,
	refunds payments.RefundSignaler,
) *CancelConsultation {
	return &CancelConsultation{
		repo:     repo,
		audit:    audit,
		events:   events,
		notifier: notifier,
		refunds:  refunds,
	}
}

// Execute releases the slot and marks the consultation cancelled in one
// transaction, then emits the notification and, when paid, the refund
// intent. Collaborator failures come back as warnings, never a rollback.
func (uc *CancelConsultation) Execute(
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
	if err := domain.Cancel(cons, now); err != nil {
		return nil, nil, err
	}

	err = uc.repo.WithTx(ctx, func(tx domain.Repository) error {
		if err := tx.UpdateConsultation(ctx, cons); err != nil {
			return err
		}
		return tx.ReleaseSlot(ctx, cons.SlotID)
	})
	if err != nil {
		return nil, nil, err
	}

	var warnings []string
	if err := uc.notifier.Send(ctx, notify.Message{
		Type:           notify.TypeCancellation,
		ConsultationID: cons.ID,
		LawyerID:       cons.LawyerID,
		ClientID:       cons.ClientID,
		Date:           cons.Slot.Date,
		StartTime:      timegrid.FormatClock(cons.Slot.StartMin),
		EndTime:        timegrid.FormatClock(cons.Slot.EndMin),
	}); err != nil {
		warnings = append(warnings, "cancellation notification failed: "+err.Error())
	}

	if cons.PaymentStatus == models.PaymentRefundPending {
		if err := uc.refunds.SignalRefund(ctx, cons.ID, cons.PaymentID, cons.Amount); err != nil {
			warnings = append(warnings, "refund signal failed: "+err.Error())
		}
	}

	uc.audit.Dispatch(audit.Event{
		LawyerID: cons.LawyerID,
		ActorID:  &actorID,
		Action:   "consultation_cancelled",
		Entity:   "consultation",
		EntityID: &cons.ID,
	})
	uc.events.SlotsChanged(ctx, cons.LawyerID, []string{cons.Slot.Date})

	return cons, warnings, nil
}
