package notify

import (
	"context"

	"go.uber.org/zap"
)

// Notification types emitted by the booking engine.
const (
	TypeConfirmation = "confirmation"
	TypeCancellation = "cancellation"
	TypeReschedule   = "reschedule"
)

// Message carries everything a delivery channel needs. OldDate/OldStart
// are only set for reschedules.
type Message struct {
	Type           string `json:"type"`
	ConsultationID string `json:"consultation_id"`
	LawyerID       string `json:"lawyer_id"`
	ClientID       string `json:"client_id"`

	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`

	OldDate      string `json:"old_date,omitempty"`
	OldStartTime string `json:"old_start_time,omitempty"`
}

// Sender is the external notification collaborator. Delivery failures
// never roll back booking state; callers surface them as warnings.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender is the in-process fallback used when no delivery channel is
// configured.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.log.Info("notification",
		zap.String("type", msg.Type),
		zap.String("consultation_id", msg.ConsultationID),
		zap.String("client_id", msg.ClientID),
		zap.String("date", msg.Date),
		zap.String("start", msg.StartTime),
		zap.String("old_date", msg.OldDate),
	)
	return nil
}

var _ Sender = (*LogSender)(nil)
