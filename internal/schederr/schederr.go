package schederr

import (
	"errors"
	"fmt"
)

// ===============================
// Error codes
// ===============================

const (
	CodeValidation        = "validation_error"
	CodeOverlap           = "overlap_error"
	CodeActiveBooking     = "active_booking_conflict"
	CodeSlotAlreadyBooked = "slot_already_booked"
	CodeReschedule        = "reschedule_error"
	CodeNotFound          = "not_found"
	CodeInvalidState      = "invalid_state"
)

type BusinessError struct {
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func Validation(format string, args ...any) error {
	return BusinessError{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(entity string) error {
	return BusinessError{Code: CodeNotFound, Message: entity + " not found"}
}

func InvalidState(msg string) error {
	return BusinessError{Code: CodeInvalidState, Message: msg}
}

func IsCode(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func CodeOf(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	var oe *OverlapError
	if errors.As(err, &oe) {
		return CodeOverlap
	}
	var abe *ActiveBookingConflictError
	if errors.As(err, &abe) {
		return CodeActiveBooking
	}
	var re *RescheduleError
	if errors.As(err, &re) {
		return CodeReschedule
	}
	return ""
}

// ===============================
// Typed errors
// ===============================

// BlockRef identifies an availability block in error payloads without
// pulling the models package into this one.
type BlockRef struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Source    string `json:"source"`
}

// OverlapError is returned by the store when a write would collide with
// an existing same-source block on the same date.
type OverlapError struct {
	Conflict BlockRef
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf(
		"%s: conflicts with block %s (%s %s-%s)",
		CodeOverlap, e.Conflict.ID, e.Conflict.Date,
		e.Conflict.StartTime, e.Conflict.EndTime,
	)
}

// ActiveBookingConflictError is returned when an availability edit would
// orphan a slot with a live consultation on it.
type ActiveBookingConflictError struct {
	SlotID string
	Date   string
}

func (e *ActiveBookingConflictError) Error() string {
	return fmt.Sprintf("%s: slot %s on %s has an active booking", CodeActiveBooking, e.SlotID, e.Date)
}

func SlotAlreadyBooked() error {
	return BusinessError{Code: CodeSlotAlreadyBooked, Message: "slot was just taken"}
}

// RescheduleError wraps any failure inside the atomic reschedule. The
// pre-operation state is guaranteed untouched when one is returned.
type RescheduleError struct {
	Reason string
	Cause  error
}

func (e *RescheduleError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", CodeReschedule, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", CodeReschedule, e.Reason)
}

func (e *RescheduleError) Unwrap() error {
	return e.Cause
}
