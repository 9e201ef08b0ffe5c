package schedule

import (
	"github.com/juriscal/consult-scheduler/internal/models"
	"github.com/juriscal/consult-scheduler/internal/timegrid"
)

// SlotWindow is a candidate slot position on one date, in minutes from
// midnight.
type SlotWindow struct {
	Date     string
	StartMin int
	EndMin   int
}

// Interval is a resolved availability span on one date.
type Interval struct {
	StartMin int
	EndMin   int
}

// SliceBlocks cuts effective blocks into fixed-length windows starting at
// each block's start. A trailing remainder shorter than slotMin is dropped.
func SliceBlocks(blocks []models.DateAvailabilityBlock, slotMin int) []SlotWindow {
	if slotMin <= 0 {
		slotMin = 30
	}

	var windows []SlotWindow
	for _, b := range blocks {
		start, err := timegrid.ParseClock(b.StartTime)
		if err != nil {
			continue
		}
		end, err := timegrid.ParseClock(b.EndTime)
		if err != nil {
			continue
		}

		for cur := start; cur+slotMin <= end; cur += slotMin {
			windows = append(windows, SlotWindow{
				Date:     b.Date,
				StartMin: cur,
				EndMin:   cur + slotMin,
			})
		}
	}

	return windows
}

// BlockIntervals converts blocks to minute intervals, skipping any row
// with an unparsable clock value.
func BlockIntervals(blocks []models.DateAvailabilityBlock) []Interval {
	out := make([]Interval, 0, len(blocks))
	for _, b := range blocks {
		start, err := timegrid.ParseClock(b.StartTime)
		if err != nil {
			continue
		}
		end, err := timegrid.ParseClock(b.EndTime)
		if err != nil {
			continue
		}
		out = append(out, Interval{StartMin: start, EndMin: end})
	}
	return out
}

// Covered reports whether [startMin,endMin) lies entirely inside one of
// the intervals. A booked slot that is no longer covered by any effective
// block is considered invalidated.
func Covered(intervals []Interval, startMin, endMin int) bool {
	for _, iv := range intervals {
		if startMin >= iv.StartMin && endMin <= iv.EndMin {
			return true
		}
	}
	return false
}
