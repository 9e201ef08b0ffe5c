package schedule

import (
	"time"

	"github.com/juriscal/consult-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(cons *models.Consultation, now time.Time) error {
	if err := CanConfirm(Status(cons.Status)); err != nil {
		return err
	}

	cons.Status = string(StatusConfirmed)
	cons.ConfirmedAt = &now
	return nil
}

func Complete(cons *models.Consultation, now time.Time) error {
	if err := CanComplete(Status(cons.Status)); err != nil {
		return err
	}

	cons.Status = string(StatusCompleted)
	cons.CompletedAt = &now
	return nil
}

func Cancel(cons *models.Consultation, now time.Time) error {
	if err := CanCancel(Status(cons.Status)); err != nil {
		return err
	}

	cons.Status = string(StatusCancelled)
	cons.CancelledAt = &now
	if cons.PaymentStatus == models.PaymentPaid {
		cons.PaymentStatus = models.PaymentRefundPending
	}
	return nil
}

// IsActive reports whether a consultation still holds its slot.
func IsActive(status Status) bool {
	return status == StatusPending || status == StatusConfirmed
}
