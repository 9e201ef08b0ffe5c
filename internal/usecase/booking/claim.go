package booking

import (
	"context"
	"time"

	"github.com/juriscal/consult-scheduler/internal/audit"
	domain "github.com/juriscal/consult-scheduler/internal/domain/schedule"
	"github.com/juriscal/consult-scheduler/internal/events"
	"github.com/juriscal/consult-scheduler/internal/models"
	"github.com/juriscal/consult-scheduler/internal/schederr"
)

// ======================================================
// INPUT
// ======================================================

type ClaimSlotInput struct {
	SlotID   string
	ClientID string
	Amount   float64

	// PaymentID is the external payment reference when the client paid
	// up front; empty for unpaid claims.
	PaymentID string
}

// ======================================================
// USE CASE
// ======================================================

type ClaimSlot struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	events  *events.Publisher
	timeout time.Duration
}

func NewClaimSlot(
	repo domain.Repository,
	audit *audit.Dispatcher,
	events *events.Publisher,
	timeout time.Duration,
) *ClaimSlot {
	return &ClaimSlot{
		repo:    repo,
		audit:   audit,
		events:  events,
		timeout: timeout,
	}
}

// Execute binds a client to a free slot. Two concurrent claimants race on
// a single conditional update; the loser gets SlotAlreadyBooked and
// should retry against a refreshed slot list.
func (uc *ClaimSlot) Execute(
	ctx context.Context,
	in ClaimSlotInput,
) (*models.Consultation, error) {

	if in.ClientID == "" {
		return nil, schederr.Validation("client_id is required")
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	slot, err := uc.repo.GetSlot(ctx, in.SlotID)
	if err != nil {
		return nil, err
	}
	if slot.IsBooked {
		return nil, schederr.SlotAlreadyBooked()
	}

	paymentStatus := models.PaymentUnpaid
	if in.PaymentID != "" {
		paymentStatus = models.PaymentPaid
	}

	cons := &models.Consultation{
		SlotID:        slot.ID,
		LawyerID:      slot.LawyerID,
		ClientID:      in.ClientID,
		Status:        string(domain.InitialStatus()),
		Amount:        in.Amount,
		PaymentStatus: paymentStatus,
		PaymentID:     in.PaymentID,
	}

	if err := uc.repo.ClaimSlot(ctx, slot.ID, cons); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		LawyerID: slot.LawyerID,
		ActorID:  &in.ClientID,
		Action:   "slot_claimed",
		Entity:   "consultation",
		EntityID: &cons.ID,
		Metadata: map[string]any{"date": slot.Date, "start_min": slot.StartMin},
	})
	uc.events.SlotsChanged(ctx, slot.LawyerID, []string{slot.Date})

	return cons, nil
}
