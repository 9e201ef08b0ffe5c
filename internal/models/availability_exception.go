package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AvailabilityException is a hard blackout date. When present, no slots
// exist for that date regardless of the other sources.
type AvailabilityException struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	LawyerID string `gorm:"type:uuid;index:idx_exceptions_lawyer_date;not null" json:"lawyer_id"`

	Date   string `gorm:"size:10;index:idx_exceptions_lawyer_date;not null" json:"date"`
	Reason string `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *AvailabilityException) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

func (AvailabilityException) TableName() string {
	return "availability_exceptions"
}
