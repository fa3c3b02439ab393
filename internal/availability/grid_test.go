package availability

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skicoach/coach-schedule/internal/model"
)

func strPtr(s string) *string { return &s }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildMarksOccupiedSlot(t *testing.T) {
	start := day(2024, time.December, 2)
	events := []*model.Event{
		{Date: "2024-12-02", TimeSlot: model.SlotMorning, StartTime: "08:30", Venue: strPtr("南山")},
	}

	grid := Build(events, start, 7)
	require.Len(t, grid, 7)

	first := grid[0]
	assert.Equal(t, "2024-12-02", first.Date)
	assert.True(t, first.Slots[model.SlotMorning].Busy)
	assert.Equal(t, "南山", first.Slots[model.SlotMorning].Venue)
	for _, s := range []model.TimeSlot{model.SlotAfternoon, model.SlotEvening, model.SlotFullDay} {
		assert.False(t, first.Slots[s].Busy, "slot %s should be free", s)
	}
	for _, d := range grid[1:] {
		for _, s := range model.AllSlots {
			assert.False(t, d.Slots[s].Busy)
		}
	}
}

func TestBuildVenueOfEarliestEventWins(t *testing.T) {
	start := day(2024, time.December, 2)
	events := []*model.Event{
		{Date: "2024-12-02", TimeSlot: model.SlotMorning, StartTime: "10:00", Venue: strPtr("军都山")},
		{Date: "2024-12-02", TimeSlot: model.SlotMorning, StartTime: "08:30", Venue: strPtr("南山")},
	}

	grid := Build(events, start, 1)
	info := grid[0].Slots[model.SlotMorning]
	assert.True(t, info.Busy)
	assert.Equal(t, "南山", info.Venue)
	require.Len(t, info.Events, 2)
	assert.Equal(t, "08:30", info.Events[0].StartTime)
}

func TestBuildIgnoresEventsOutsideRange(t *testing.T) {
	start := day(2024, time.December, 2)
	events := []*model.Event{
		{Date: "2024-12-20", TimeSlot: model.SlotMorning, StartTime: "08:30"},
	}
	grid := Build(events, start, 3)
	for _, d := range grid {
		for _, s := range model.AllSlots {
			assert.False(t, d.Slots[s].Busy)
		}
	}
}

func TestShareText(t *testing.T) {
	start := day(2024, time.December, 2) // a Monday
	events := []*model.Event{
		{Date: "2024-12-02", TimeSlot: model.SlotMorning, StartTime: "08:30", Venue: strPtr("南山")},
		{Date: "2024-12-02", TimeSlot: model.SlotEvening, StartTime: "18:30"},
	}

	text := ShareText(Build(events, start, 2), start)
	lines := strings.Split(text, "\n")

	require.Equal(t, "📅 近期可约时间", lines[0])
	require.Equal(t, "", lines[1])
	assert.Equal(t, "12月2日（周一）", lines[2])
	assert.Equal(t, "❌ 上午 已约（南山）", lines[3])
	assert.Equal(t, "✅ 下午", lines[4])
	assert.Equal(t, "❌ 夜场 已约", lines[5])
	assert.Equal(t, "✅ 全天", lines[6])
	assert.Equal(t, "", lines[7])
	assert.Equal(t, "12月3日（周二）", lines[8])
	assert.False(t, strings.HasSuffix(text, "\n"), "trailing blank lines are trimmed")
}
