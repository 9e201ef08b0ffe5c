package availability

import (
	"context"
	"sort"

	domain "github.com/juriscal/consult-scheduler/internal/domain/schedule"
	"github.com/juriscal/consult-scheduler/internal/models"
	"github.com/juriscal/consult-scheduler/internal/schederr"
	"github.com/juriscal/consult-scheduler/internal/timegrid"
	"github.com/juriscal/consult-scheduler/internal/timezone"
)

type ListEffectiveAvailability struct {
	repo domain.Repository
}

func NewListEffectiveAvailability(repo domain.Repository) *ListEffectiveAvailability {
	return &ListEffectiveAvailability{repo: repo}
}

// Execute returns the resolved per-date view, flattened and ordered by
// date then start time.
func (uc *ListEffectiveAvailability) Execute(
	ctx context.Context,
	lawyerID string,
	fromKey string,
	toKey string,
) ([]models.DateAvailabilityBlock, error) {

	if toKey < fromKey {
		return nil, schederr.Validation("date range end %s precedes start %s", toKey, fromKey)
	}

	lawyer, err := uc.repo.GetLawyerByID(ctx, lawyerID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(lawyer.Timezone)

	from, err := timegrid.ParseDate(fromKey, loc)
	if err != nil {
		return nil, err
	}
	to, err := timegrid.ParseDate(toKey, loc)
	if err != nil {
		return nil, err
	}

	// Widen the block query to full ISO weeks so overrides at the edges
	// still suppress their week.
	monday, _ := weekBounds(from)
	_, sunday := weekBounds(to)

	blocks, err := uc.repo.ListDateBlocks(
		ctx, lawyerID,
		timegrid.DateKey(monday, loc), timegrid.DateKey(sunday, loc),
	)
	if err != nil {
		return nil, err
	}

	exceptions, err := uc.repo.ListExceptions(ctx, lawyerID, fromKey, toKey)
	if err != nil {
		return nil, err
	}

	view := domain.Resolve(blocks, exceptions, from, to, loc)

	out := make([]models.DateAvailabilityBlock, 0)
	for _, dayBlocks := range view {
		out = append(out, dayBlocks...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})

	return out, nil
}
