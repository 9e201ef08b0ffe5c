package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimeSlot is a fixed-duration bookable unit derived from resolved
// availability. Rows are keyed by (lawyer, date, start) so a booked slot
// keeps its identity across regeneration.
type TimeSlot struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	LawyerID string `gorm:"type:uuid;uniqueIndex:uq_slots_lawyer_date_start;not null" json:"lawyer_id"`

	Date     string `gorm:"size:10;uniqueIndex:uq_slots_lawyer_date_start;not null" json:"date"`
	StartMin int    `gorm:"uniqueIndex:uq_slots_lawyer_date_start;not null" json:"start_min"`
	EndMin   int    `gorm:"not null" json:"end_min"`

	IsBooked       bool    `gorm:"default:false" json:"is_booked"`
	ConsultationID *string `gorm:"type:uuid" json:"consultation_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *TimeSlot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

func (TimeSlot) TableName() string {
	return "time_slots"
}
