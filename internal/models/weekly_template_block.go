package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WeeklyTemplateBlock is a recurring weekly intention, not a bookable fact.
// The whole set is replaced on save.
type WeeklyTemplateBlock struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	LawyerID string `gorm:"type:uuid;index;not null" json:"lawyer_id"`

	DayOfWeek int    `gorm:"not null" json:"day_of_week"` // 0=Monday .. 6=Sunday
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *WeeklyTemplateBlock) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

func (WeeklyTemplateBlock) TableName() string {
	return "weekly_template_blocks"
}
