package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Block sources, in the order the resolver reasons about them.
const (
	SourceManual   = "manual"   // ad hoc one-off entry, always additive
	SourceWeekly   = "weekly"   // materialized from the weekly template
	SourceOverride = "override" // per-week exception to the template
)

// DateAvailabilityBlock is the concrete bookable-candidate fact for one
// calendar date.
type DateAvailabilityBlock struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	LawyerID string `gorm:"type:uuid;index:idx_blocks_lawyer_date;not null" json:"lawyer_id"`

	Date      string `gorm:"size:10;index:idx_blocks_lawyer_date;not null" json:"date"` // YYYY-MM-DD in the lawyer's zone
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`
	Source    string `gorm:"size:10;not null" json:"source"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *DateAvailabilityBlock) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

func (DateAvailabilityBlock) TableName() string {
	return "date_availability_blocks"
}
