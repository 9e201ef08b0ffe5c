package availability

import (
	"context"

	domain "github.com/juriscal/consult-scheduler/internal/domain/schedule"
	"github.com/juriscal/consult-scheduler/internal/models"
	"github.com/juriscal/consult-scheduler/internal/schederr"
	"github.com/juriscal/consult-scheduler/internal/timegrid"
)

type SlotView struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsBooked  bool   `json:"is_booked"`
}

type ListBookableSlots struct {
	repo domain.Repository
}

func NewListBookableSlots(repo domain.Repository) *ListBookableSlots {
	return &ListBookableSlots{repo: repo}
}

func (uc *ListBookableSlots) Execute(
	ctx context.Context,
	lawyerID string,
	fromKey string,
	toKey string,
) ([]SlotView, error) {

	if toKey < fromKey {
		return nil, schederr.Validation("date range end %s precedes start %s", toKey, fromKey)
	}
	if _, err := uc.repo.GetLawyerByID(ctx, lawyerID); err != nil {
		return nil, err
	}

	slots, err := uc.repo.ListSlots(ctx, lawyerID, fromKey, toKey)
	if err != nil {
		return nil, err
	}

	out := make([]SlotView, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotView(s))
	}
	return out, nil
}

func slotView(s models.TimeSlot) SlotView {
	return SlotView{
		ID:        s.ID,
		Date:      s.Date,
		StartTime: timegrid.FormatClock(s.StartMin),
		EndTime:   timegrid.FormatClock(s.EndMin),
		IsBooked:  s.IsBooked,
	}
}
