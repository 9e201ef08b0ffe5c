package schedule

import (
	"testing"

	"github.com/juriscal/consult-scheduler/internal/models"
)

func TestSliceBlocks(t *testing.T) {
	blocks := []models.DateAvailabilityBlock{
		block("2026-01-05", "09:00", "10:30", models.SourceWeekly),
	}

	windows := SliceBlocks(blocks, 30)
	if len(windows) != 3 {
		t.Fatalf("expected 3 windows, got %d: %v", len(windows), windows)
	}
	want := []SlotWindow{
		{Date: "2026-01-05", StartMin: 540, EndMin: 570},
		{Date: "2026-01-05", StartMin: 570, EndMin: 600},
		{Date: "2026-01-05", StartMin: 600, EndMin: 630},
	}
	for i, w := range want {
		if windows[i] != w {
			t.Fatalf("window %d: got %+v, want %+v", i, windows[i], w)
		}
	}
}

func TestSliceBlocksDropsShortRemainder(t *testing.T) {
	blocks := []models.DateAvailabilityBlock{
		block("2026-01-05", "09:00", "09:50", models.SourceManual),
	}

	windows := SliceBlocks(blocks, 30)
	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d: %v", len(windows), windows)
	}
	if windows[0].EndMin != 570 {
		t.Fatalf("remainder leaked into a window: %+v", windows[0])
	}
}

func TestSliceBlocksTooShortBlock(t *testing.T) {
	blocks := []models.DateAvailabilityBlock{
		block("2026-01-05", "09:00", "09:20", models.SourceManual),
	}
	if windows := SliceBlocks(blocks, 30); len(windows) != 0 {
		t.Fatalf("expected no windows, got %v", windows)
	}
}

func TestSliceBlocksDefaultsSlotLength(t *testing.T) {
	blocks := []models.DateAvailabilityBlock{
		block("2026-01-05", "09:00", "10:00", models.SourceWeekly),
	}
	if windows := SliceBlocks(blocks, 0); len(windows) != 2 {
		t.Fatalf("expected 30-minute default, got %v", windows)
	}
}

func TestBlockIntervals(t *testing.T) {
	blocks := []models.DateAvailabilityBlock{
		block("2026-01-05", "09:00", "12:00", models.SourceWeekly),
		block("2026-01-05", "bogus", "12:00", models.SourceManual),
	}

	ivs := BlockIntervals(blocks)
	if len(ivs) != 1 {
		t.Fatalf("expected 1 interval, got %v", ivs)
	}
	if ivs[0].StartMin != 540 || ivs[0].EndMin != 720 {
		t.Fatalf("wrong interval: %+v", ivs[0])
	}
}

func TestCovered(t *testing.T) {
	ivs := []Interval{
		{StartMin: 540, EndMin: 720},
		{StartMin: 840, EndMin: 960},
	}

	cases := []struct {
		name  string
		start int
		end   int
		want  bool
	}{
		{"inside first", 540, 570, true},
		{"flush with end", 690, 720, true},
		{"straddles gap", 700, 850, false},
		{"inside second", 840, 870, true},
		{"outside all", 1000, 1030, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Covered(ivs, tc.start, tc.end); got != tc.want {
				t.Fatalf("Covered(%d,%d) = %v, want %v", tc.start, tc.end, got, tc.want)
			}
		})
	}
}
