package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Lawyer struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	Name     string `gorm:"size:100;not null" json:"name"`
	Timezone string `gorm:"size:64" json:"timezone"`

	// SlotDurationMin is the fixed length of generated booking slots.
	SlotDurationMin int `gorm:"default:30" json:"slot_duration_min"`

	// HorizonWeeks is how far ahead the weekly template is materialized.
	HorizonWeeks int `gorm:"default:8" json:"horizon_weeks"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l *Lawyer) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

func (Lawyer) TableName() string {
	return "lawyers"
}

// SlotMinutes returns the configured slot length with the default applied.
func (l *Lawyer) SlotMinutes() int {
	if l.SlotDurationMin <= 0 {
		return 30
	}
	return l.SlotDurationMin
}

func (l *Lawyer) Horizon() int {
	if l.HorizonWeeks < 4 {
		return 8
	}
	if l.HorizonWeeks > 12 {
		return 12
	}
	return l.HorizonWeeks
}
