package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentUnpaid        = "unpaid"
	PaymentPaid          = "paid"
	PaymentRefundPending = "refund_pending"
)

type Consultation struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	SlotID string   `gorm:"type:uuid;index;not null" json:"slot_id"`
	Slot   TimeSlot `gorm:"foreignKey:SlotID" json:"slot,omitempty"`

	LawyerID string `gorm:"type:uuid;index;not null" json:"lawyer_id"`
	ClientID string `gorm:"type:uuid;index;not null" json:"client_id"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	Amount        float64 `json:"amount"`
	PaymentStatus string  `gorm:"size:20;default:'unpaid'" json:"payment_status"`

	// PaymentID is the external payment reference used when signaling a
	// refund intent.
	PaymentID string `gorm:"size:64" json:"payment_id,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Consultation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

func (Consultation) TableName() string {
	return "consultations"
}
