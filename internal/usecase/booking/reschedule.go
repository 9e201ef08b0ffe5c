package booking

import (
	"context"
	"time"

	"github.com/juriscal/consult-scheduler/internal/audit"
	domain "github.com/juriscal/consult-scheduler/internal/domain/schedule"
	"github.com/juriscal/consult-scheduler/internal/events"
	"github.com/juriscal/consult-scheduler/internal/models"
	"github.com/juriscal/consult-scheduler/internal/notify"
	"github.com/juriscal/consult-scheduler/internal/schederr"
	"github.com/juriscal/consult-scheduler/internal/timegrid"
)

type RescheduleConsultation struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	events   *events.Publisher
	notifier notify.Sender
	timeout  time.Duration
}

func NewRescheduleConsultation(
	repo domain.Repository,
	audit *audit.Dispatcher,
	events *events.Publisher,
	notifier notify.Sender,
	timeout time.Duration,
) *RescheduleConsultation {
	return &RescheduleConsultation{
		repo:     repo,
		audit:    audit,
		events:   events,
		notifier: notifier,
		timeout:  timeout,
	}
}

// Execute atomically moves a consultation to a new slot on the same
// lawyer. Any failure before commit leaves the old slot booked and the
// consultation untouched.
func (uc *RescheduleConsultation) Execute(
	ctx context.Context,
	consultationID string,
	newSlotID string,
	actorID string,
) (*models.Consultation, []string, error) {

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	cons, err := uc.repo.GetConsultation(ctx, consultationID)
	if err != nil {
		return nil, nil, err
	}
	if err := domain.CanReschedule(domain.Status(cons.Status)); err != nil {
		return nil, nil, err
	}

	oldSlot := cons.Slot
	if newSlotID == oldSlot.ID {
		return nil, nil, &schederr.RescheduleError{Reason: "new slot is the current slot"}
	}

	newSlot, err := uc.repo.GetSlot(ctx, newSlotID)
	if err != nil {
		return nil, nil, &schederr.RescheduleError{Reason: "new slot unavailable", Cause: err}
	}
	if newSlot.LawyerID != cons.LawyerID {
		return nil, nil, &schederr.RescheduleError{Reason: "slot belongs to a different lawyer"}
	}
	if newSlot.IsBooked {
		return nil, nil, &schederr.RescheduleError{Reason: "new slot unavailable", Cause: schederr.SlotAlreadyBooked()}
	}

	if err := uc.repo.MoveConsultation(ctx, cons.ID, oldSlot.ID, newSlot.ID); err != nil {
		return nil, nil, &schederr.RescheduleError{Reason: "could not move booking", Cause: err}
	}

	cons.SlotID = newSlot.ID
	cons.Slot = *newSlot
	cons.Slot.IsBooked = true

	// Both parties hear about the move, each message carrying the old and
	// new times.
	msg := notify.Message{
		Type:           notify.TypeReschedule,
		ConsultationID: cons.ID,
		LawyerID:       cons.LawyerID,
		ClientID:       cons.ClientID,
		Date:           newSlot.Date,
		StartTime:      timegrid.FormatClock(newSlot.StartMin),
		EndTime:        timegrid.FormatClock(newSlot.EndMin),
		OldDate:        oldSlot.Date,
		OldStartTime:   timegrid.FormatClock(oldSlot.StartMin),
	}

	var warnings []string
	if err := uc.notifier.Send(ctx, msg); err != nil {
		warnings = append(warnings, "client reschedule notification failed: "+err.Error())
	}
	lawyerMsg := msg
	lawyerMsg.ClientID = ""
	if err := uc.notifier.Send(ctx, lawyerMsg); err != nil {
		warnings = append(warnings, "lawyer reschedule notification failed: "+err.Error())
	}

	uc.audit.Dispatch(audit.Event{
		LawyerID: cons.LawyerID,
		ActorID:  &actorID,
		Action:   "consultation_rescheduled",
		Entity:   "consultation",
		EntityID: &cons.ID,
		Metadata: map[string]string{
			"old_slot": oldSlot.ID,
			"new_slot": newSlot.ID,
		},
	})
	uc.events.SlotsChanged(ctx, cons.LawyerID, []string{oldSlot.Date, newSlot.Date})

	return cons, warnings, nil
}
