package availability

import (
	"github.com/juriscal/consult-scheduler/internal/schederr"
	"github.com/juriscal/consult-scheduler/internal/timegrid"
)

// validateInterval checks a start/end clock pair against the lawyer's
// minimum slot length and returns the minute offsets.
func validateInterval(startHM, endHM string, minMinutes int) (int, int, error) {
	start, err := timegrid.ParseClock(startHM)
	if err != nil {
		return 0, 0, err
	}
	end, err := timegrid.ParseClock(endHM)
	if err != nil {
		return 0, 0, err
	}
	if start >= end {
		return 0, 0, schederr.Validation("start %s must precede end %s", startHM, endHM)
	}
	if end-start < minMinutes {
		return 0, 0, schederr.Validation(
			"block %s-%s is shorter than the %d minute slot length",
			startHM, endHM, minMinutes,
		)
	}
	return start, end, nil
}
