package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/juriscal/consult-scheduler/internal/domain/schedule"
	"github.com/juriscal/consult-scheduler/internal/models"
	"github.com/juriscal/consult-scheduler/internal/schederr"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

func (r *ScheduleGormRepository) WithTx(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ScheduleGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Lawyer
// --------------------------------------------------

func (r *ScheduleGormRepository) GetLawyerByID(
	ctx context.Context,
	id string,
) (*models.Lawyer, error) {

	var lawyer models.Lawyer
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&lawyer).Error; err != nil {
		return nil, schederr.NotFound("lawyer")
	}
	return &lawyer, nil
}

func (r *ScheduleGormRepository) ListLawyerIDsWithTemplate(
	ctx context.Context,
) ([]string, error) {

	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.WeeklyTemplateBlock{}).
		Distinct("lawyer_id").
		Pluck("lawyer_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// --------------------------------------------------
// Weekly template
// --------------------------------------------------

func (r *ScheduleGormRepository) ListTemplateBlocks(
	ctx context.Context,
	lawyerID string,
) ([]models.WeeklyTemplateBlock, error) {

	var blocks []models.WeeklyTemplateBlock
	if err := r.db.WithContext(ctx).
		Where("lawyer_id = ?", lawyerID).
		Order("day_of_week ASC, start_time ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

// ReplaceTemplateBlocks swaps the whole template wholesale, the same way
// the weekly grid editor saves it.
func (r *ScheduleGormRepository) ReplaceTemplateBlocks(
	ctx context.Context,
	lawyerID string,
	blocks []models.WeeklyTemplateBlock,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("lawyer_id = ?", lawyerID).
			Delete(&models.WeeklyTemplateBlock{}).Error; err != nil {
			return err
		}
		if len(blocks) == 0 {
			return nil
		}
		return tx.Create(&blocks).Error
	})
}

// --------------------------------------------------
// Date availability blocks
// --------------------------------------------------

func (r *ScheduleGormRepository) ListDateBlocks(
	ctx context.Context,
	lawyerID string,
	fromKey string,
	toKey string,
) ([]models.DateAvailabilityBlock, error) {

	var blocks []models.DateAvailabilityBlock
	if err := r.db.WithContext(ctx).
		Where(
			"lawyer_id = ? AND date >= ? AND date <= ?",
			lawyerID, fromKey, toKey,
		).
		Order("date ASC, start_time ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *ScheduleGormRepository) GetDateBlock(
	ctx context.Context,
	lawyerID string,
	blockID string,
) (*models.DateAvailabilityBlock, error) {

	var block models.DateAvailabilityBlock
	if err := r.db.WithContext(ctx).
		Where("id = ? AND lawyer_id = ?", blockID, lawyerID).
		First(&block).Error; err != nil {
		return nil, schederr.NotFound("availability block")
	}
	return &block, nil
}

// CreateDateBlock inserts a block after guarding the same-source
// non-overlap invariant. HH:MM strings compare correctly as text.
func (r *ScheduleGormRepository) CreateDateBlock(
	ctx context.Context,
	block *models.DateAvailabilityBlock,
) error {

	var conflict models.DateAvailabilityBlock
	err := r.db.WithContext(ctx).
		Where(
			"lawyer_id = ? AND date = ? AND source = ? AND start_time < ? AND end_time > ?",
			block.LawyerID, block.Date, block.Source,
			block.EndTime, block.StartTime,
		).
		First(&conflict).Error

	if err == nil {
		return &schederr.OverlapError{Conflict: schederr.BlockRef{
			ID:        conflict.ID,
			Date:      conflict.Date,
			StartTime: conflict.StartTime,
			EndTime:   conflict.EndTime,
			Source:    conflict.Source,
		}}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return r.db.WithContext(ctx).Create(block).Error
}

func (r *ScheduleGormRepository) DeleteDateBlock(
	ctx context.Context,
	lawyerID string,
	blockID string,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ? AND lawyer_id = ?", blockID, lawyerID).
		Delete(&models.DateAvailabilityBlock{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return schederr.NotFound("availability block")
	}
	return nil
}

func (r *ScheduleGormRepository) ReplaceWeeklyRows(
	ctx context.Context,
	lawyerID string,
	fromKey string,
	toKey string,
	rows []models.DateAvailabilityBlock,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where(
				"lawyer_id = ? AND source = ? AND date >= ? AND date <= ?",
				lawyerID, models.SourceWeekly, fromKey, toKey,
			).
			Delete(&models.DateAvailabilityBlock{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(&rows, 200).Error
	})
}

// --------------------------------------------------
// Exceptions
// --------------------------------------------------

func (r *ScheduleGormRepository) ListExceptions(
	ctx context.Context,
	lawyerID string,
	fromKey string,
	toKey string,
) ([]models.AvailabilityException, error) {

	var exceptions []models.AvailabilityException
	if err := r.db.WithContext(ctx).
		Where(
			"lawyer_id = ? AND date >= ? AND date <= ?",
			lawyerID, fromKey, toKey,
		).
		Order("date ASC").
		Find(&exceptions).Error; err != nil {
		return nil, err
	}
	return exceptions, nil
}

func (r *ScheduleGormRepository) GetException(
	ctx context.Context,
	lawyerID string,
	exceptionID string,
) (*models.AvailabilityException, error) {

	var exc models.AvailabilityException
	if err := r.db.WithContext(ctx).
		Where("id = ? AND lawyer_id = ?", exceptionID, lawyerID).
		First(&exc).Error; err != nil {
		return nil, schederr.NotFound("exception")
	}
	return &exc, nil
}

func (r *ScheduleGormRepository) CreateExceptions(
	ctx context.Context,
	exceptions []models.AvailabilityException,
) error {

	if len(exceptions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&exceptions).Error
}

func (r *ScheduleGormRepository) DeleteException(
	ctx context.Context,
	lawyerID string,
	exceptionID string,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ? AND lawyer_id = ?", exceptionID, lawyerID).
		Delete(&models.AvailabilityException{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return schederr.NotFound("exception")
	}
	return nil
}

// --------------------------------------------------
// Slots
// --------------------------------------------------

func (r *ScheduleGormRepository) ListSlots(
	ctx context.Context,
	lawyerID string,
	fromKey string,
	toKey string,
) ([]models.TimeSlot, error) {

	var slots []models.TimeSlot
	if err := r.db.WithContext(ctx).
		Where(
			"lawyer_id = ? AND date >= ? AND date <= ?",
			lawyerID, fromKey, toKey,
		).
		Order("date ASC, start_min ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *ScheduleGormRepository) GetSlot(
	ctx context.Context,
	slotID string,
) (*models.TimeSlot, error) {

	var slot models.TimeSlot
	if err := r.db.WithContext(ctx).
		Where("id = ?", slotID).
		First(&slot).Error; err != nil {
		return nil, schederr.NotFound("slot")
	}
	return &slot, nil
}

func (r *ScheduleGormRepository) SyncSlots(
	ctx context.Context,
	lawyerID string,
	dateKey string,
	intervals []domain.Interval,
	windows []domain.SlotWindow,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var existing []models.TimeSlot
		if err := tx.
			Where("lawyer_id = ? AND date = ?", lawyerID, dateKey).
			Find(&existing).Error; err != nil {
			return err
		}

		// Booked slots survive every regeneration; an edit that no longer
		// covers one has to be rejected before anything is written.
		var booked []models.TimeSlot
		for _, s := range existing {
			if !s.IsBooked {
				continue
			}
			if !domain.Covered(intervals, s.StartMin, s.EndMin) {
				return &schederr.ActiveBookingConflictError{
					SlotID: s.ID,
					Date:   s.Date,
				}
			}
			booked = append(booked, s)
		}

		wanted := make(map[int]domain.SlotWindow, len(windows))
		for _, w := range windows {
			wanted[w.StartMin] = w
		}

		keep := make(map[int]bool)
		for _, s := range existing {
			if s.IsBooked {
				keep[s.StartMin] = true
				continue
			}
			w, ok := wanted[s.StartMin]
			if ok && w.EndMin == s.EndMin {
				keep[s.StartMin] = true
				continue
			}
			if err := tx.Delete(&models.TimeSlot{}, "id = ?", s.ID).Error; err != nil {
				return err
			}
		}

		for _, w := range windows {
			if keep[w.StartMin] {
				continue
			}
			if overlapsBooked(booked, w) {
				continue
			}
			slot := models.TimeSlot{
				LawyerID: lawyerID,
				Date:     dateKey,
				StartMin: w.StartMin,
				EndMin:   w.EndMin,
			}
			if err := tx.Create(&slot).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// overlapsBooked guards against a re-sliced grid generating a free slot on
// top of a slot that is still held by a live consultation.
func overlapsBooked(booked []models.TimeSlot, w domain.SlotWindow) bool {
	for _, s := range booked {
		if w.StartMin < s.EndMin && s.StartMin < w.EndMin {
			return true
		}
	}
	return false
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

// ClaimSlot is the single atomic conditional update guarding concurrent
// claims: only the claimant whose UPDATE flips is_booked wins.
func (r *ScheduleGormRepository) ClaimSlot(
	ctx context.Context,
	slotID string,
	cons *models.Consultation,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		res := tx.Model(&models.TimeSlot{}).
			Where("id = ? AND is_booked = ?", slotID, false).
			Update("is_booked", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return schederr.SlotAlreadyBooked()
		}

		if err := tx.Create(cons).Error; err != nil {
			return err
		}

		return tx.Model(&models.TimeSlot{}).
			Where("id = ?", slotID).
			Update("consultation_id", cons.ID).Error
	})
}

func (r *ScheduleGormRepository) ReleaseSlot(
	ctx context.Context,
	slotID string,
) error {

	return r.db.WithContext(ctx).
		Model(&models.TimeSlot{}).
		Where("id = ?", slotID).
		Updates(map[string]any{
			"is_booked":       false,
			"consultation_id": nil,
		}).Error
}

// MoveConsultation claims the new slot before releasing the old one, all
// in one transaction, so no observer ever sees the consultation without a
// held slot.
func (r *ScheduleGormRepository) MoveConsultation(
	ctx context.Context,
	consultationID string,
	oldSlotID string,
	newSlotID string,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		res := tx.Model(&models.TimeSlot{}).
			Where("id = ? AND is_booked = ?", newSlotID, false).
			Updates(map[string]any{
				"is_booked":       true,
				"consultation_id": consultationID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return schederr.SlotAlreadyBooked()
		}

		if err := tx.Model(&models.TimeSlot{}).
			Where("id = ?", oldSlotID).
			Updates(map[string]any{
				"is_booked":       false,
				"consultation_id": nil,
			}).Error; err != nil {
			return err
		}

		return tx.Model(&models.Consultation{}).
			Where("id = ?", consultationID).
			Update("slot_id", newSlotID).Error
	})
}

func (r *ScheduleGormRepository) GetConsultation(
	ctx context.Context,
	id string,
) (*models.Consultation, error) {

	var cons models.Consultation
	if err := r.db.WithContext(ctx).
		Preload("Slot").
		Where("id = ?", id).
		First(&cons).Error; err != nil {
		return nil, schederr.NotFound("consultation")
	}
	return &cons, nil
}

func (r *ScheduleGormRepository) UpdateConsultation(
	ctx context.Context,
	cons *models.Consultation,
) error {
	return r.db.WithContext(ctx).Omit("Slot").Save(cons).Error
}

func (r *ScheduleGormRepository) ListConsultationsInRange(
	ctx context.Context,
	lawyerID string,
	fromKey string,
	toKey string,
) ([]models.Consultation, error) {

	var cons []models.Consultation
	if err := r.db.WithContext(ctx).
		Preload("Slot").
		Joins("JOIN time_slots ON time_slots.id = consultations.slot_id").
		Where(
			"consultations.lawyer_id = ? AND time_slots.date >= ? AND time_slots.date <= ?",
			lawyerID, fromKey, toKey,
		).
		Order("time_slots.date ASC, time_slots.start_min ASC").
		Find(&cons).Error; err != nil {
		return nil, err
	}
	return cons, nil
}

// Compile-time check
var _ domain.Repository = (*ScheduleGormRepository)(nil)
