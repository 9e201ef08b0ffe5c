package schedule

import (
	"context"

	"github.com/juriscal/consult-scheduler/internal/models"
)

type Repository interface {
	// WithTx runs fn against a repository bound to a single transaction.
	// Errors returned by fn roll the whole transaction back.
	WithTx(ctx context.Context, fn func(Repository) error) error

	// -------- Lawyer --------
	GetLawyerByID(
		ctx context.Context,
		id string,
	) (*models.Lawyer, error)

	ListLawyerIDsWithTemplate(
		ctx context.Context,
	) ([]string, error)

	// -------- Weekly template --------
	ListTemplateBlocks(
		ctx context.Context,
		lawyerID string,
	) ([]models.WeeklyTemplateBlock, error)

	ReplaceTemplateBlocks(
		ctx context.Context,
		lawyerID string,
		blocks []models.WeeklyTemplateBlock,
	) error

	// -------- Date availability blocks --------
	ListDateBlocks(
		ctx context.Context,
		lawyerID string,
		fromKey string,
		toKey string,
	) ([]models.DateAvailabilityBlock, error)

	GetDateBlock(
		ctx context.Context,
		lawyerID string,
		blockID string,
	) (*models.DateAvailabilityBlock, error)

	CreateDateBlock(
		ctx context.Context,
		block *models.DateAvailabilityBlock,
	) error

	DeleteDateBlock(
		ctx context.Context,
		lawyerID string,
		blockID string,
	) error

	// ReplaceWeeklyRows transactionally swaps all weekly-sourced rows in
	// [fromKey,toKey] for the given set.
	ReplaceWeeklyRows(
		ctx context.Context,
		lawyerID string,
		fromKey string,
		toKey string,
		rows []models.DateAvailabilityBlock,
	) error

	// -------- Exceptions --------
	ListExceptions(
		ctx context.Context,
		lawyerID string,
		fromKey string,
		toKey string,
	) ([]models.AvailabilityException, error)

	GetException(
		ctx context.Context,
		lawyerID string,
		exceptionID string,
	) (*models.AvailabilityException, error)

	CreateExceptions(
		ctx context.Context,
		exceptions []models.AvailabilityException,
	) error

	DeleteException(
		ctx context.Context,
		lawyerID string,
		exceptionID string,
	) error

	// -------- Slots --------
	ListSlots(
		ctx context.Context,
		lawyerID string,
		fromKey string,
		toKey string,
	) ([]models.TimeSlot, error)

	GetSlot(
		ctx context.Context,
		slotID string,
	) (*models.TimeSlot, error)

	// SyncSlots reconciles one date's slot rows with the given windows.
	// Free slots absent from windows are deleted; booked slots are kept,
	// and a booked slot no longer covered by intervals aborts the sync
	// with ActiveBookingConflictError.
	SyncSlots(
		ctx context.Context,
		lawyerID string,
		dateKey string,
		intervals []Interval,
		windows []SlotWindow,
	) error

	// -------- Booking --------

	// ClaimSlot atomically flips the slot to booked and creates the
	// consultation. A lost race returns SlotAlreadyBooked.
	ClaimSlot(
		ctx context.Context,
		slotID string,
		cons *models.Consultation,
	) error

	ReleaseSlot(
		ctx context.Context,
		slotID string,
	) error

	// MoveConsultation rebinds a consultation to a new slot: claims the
	// new one, releases the old one, all in one transaction.
	MoveConsultation(
		ctx context.Context,
		consultationID string,
		oldSlotID string,
		newSlotID string,
	) error

	GetConsultation(
		ctx context.Context,
		id string,
	) (*models.Consultation, error)

	UpdateConsultation(
		ctx context.Context,
		cons *models.Consultation,
	) error

	ListConsultationsInRange(
		ctx context.Context,
		lawyerID string,
		fromKey string,
		toKey string,
	) ([]models.Consultation, error)
}
