package booking

import (
	"context"
	"time"

	domain "github.com/juriscal/consult-scheduler/internal/domain/schedule"
	"github.com/juriscal/consult-scheduler/internal/timegrid"
	"github.com/juriscal/consult-scheduler/internal/timezone"
)

type ConsultationListDTO struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Status    string  `json:"status"`
	ClientID  string  `json:"client_id"`
	Amount    float64 `json:"amount"`
}

type ListConsultations struct {
	repo domain.Repository
}

func NewListConsultations(repo domain.Repository) *ListConsultations {
	return &ListConsultations{repo: repo}
}

// ByDate returns the lawyer's consultations for one calendar date.
func (uc *ListConsultations) ByDate(
	ctx context.Context,
	lawyerID string,
	dateKey string,
) ([]ConsultationListDTO, error) {
	return uc.inRange(ctx, lawyerID, dateKey, dateKey)
}

// ByMonth returns the lawyer's consultations for a calendar month.
func (uc *ListConsultations) ByMonth(
	ctx context.Context,
	lawyerID string,
	year int,
	month int,
) ([]ConsultationListDTO, error) {

	lawyer, err := uc.repo.GetLawyerByID(ctx, lawyerID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(lawyer.Timezone)

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, -1)

	return uc.inRange(
		ctx, lawyerID,
		timegrid.DateKey(start, loc), timegrid.DateKey(end, loc),
	)
}

func (uc *ListConsultations) inRange(
	ctx context.Context,
	lawyerID string,
	fromKey string,
	toKey string,
) ([]ConsultationListDTO, error) {

	cons, err := uc.repo.ListConsultationsInRange(ctx, lawyerID, fromKey, toKey)
	if err != nil {
		return nil, err
	}

	out := make([]ConsultationListDTO, 0, len(cons))
	for _, c := range cons {
		out = append(out, ConsultationListDTO{
			ID:        c.ID,
			Date:      c.Slot.Date,
			StartTime: timegrid.FormatClock(c.Slot.StartMin),
			EndTime:   timegrid.FormatClock(c.Slot.EndMin),
			Status:    c.Status,
			ClientID:  c.ClientID,
			Amount:    c.Amount,
		})
	}
	return out, nil
}
