package schedule

import "github.com/juriscal/consult-scheduler/internal/schederr"

// ===============================
// Consultation Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ===============================
// Transition guards
// ===============================

func CanConfirm(current Status) error {
	if current != StatusPending {
		return schederr.InvalidState("only pending consultations can be confirmed")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return schederr.InvalidState("only confirmed consultations can be completed")
	}
	return nil
}

func CanCancel(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return schederr.InvalidState("consultation is already terminal")
	}
	return nil
}

func CanReschedule(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return schederr.InvalidState("terminal consultations cannot be rescheduled")
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
